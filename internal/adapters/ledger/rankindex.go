package ledger

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// rankIndex is an order-statistic treap over (tokens, playerID).
//
// Ordering: tokens DESC, then playerID ASC, so an in-order walk yields the
// leaderboard from richest to poorest. Every node carries its subtree size,
// which makes rank lookups O(log n) expected.
type rankIndex struct {
	root *node
}

type node struct {
	id     string
	tokens decimal.Decimal
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// before reports whether (aTokens, aID) ranks ahead of (bTokens, bID).
func before(aTokens decimal.Decimal, aID string, bTokens decimal.Decimal, bID string) bool {
	if c := aTokens.Cmp(bTokens); c != 0 {
		return c > 0
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, tokens decimal.Decimal) *node {
	if n == nil {
		return &node{id: id, tokens: tokens, prio: rand.Uint64(), size: 1}
	}
	if before(tokens, id, n.tokens, n.id) {
		n.left = insert(n.left, id, tokens)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, tokens)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, id string, tokens decimal.Decimal) *node {
	if n == nil {
		return nil
	}
	switch {
	case id == n.id:
		// rotate the higher-priority child up until n is a leaf
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, id, tokens)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, id, tokens)
		}
	case before(tokens, id, n.tokens, n.id):
		n.left = remove(n.left, id, tokens)
	default:
		n.right = remove(n.right, id, tokens)
	}
	fix(n)
	return n
}

// upsert moves id from its old position (if any) to tokens.
func (x *rankIndex) upsert(id string, old *decimal.Decimal, tokens decimal.Decimal) {
	if old != nil {
		x.root = remove(x.root, id, *old)
	}
	x.root = insert(x.root, id, tokens)
}

// rank returns the 1-based position of (id, tokens), or 0 when absent.
func (x *rankIndex) rank(id string, tokens decimal.Decimal) int {
	pos := 0
	for n := x.root; n != nil; {
		switch {
		case id == n.id:
			return pos + nsize(n.left) + 1
		case before(tokens, id, n.tokens, n.id):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// top returns up to limit player ids in rank order.
func (x *rankIndex) top(limit int) []string {
	out := make([]string, 0, min(limit, nsize(x.root)))
	collectTop(x.root, limit, &out)
	return out
}

func collectTop(n *node, limit int, out *[]string) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTop(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.id)
	}
	collectTop(n.right, limit, out)
}

func (x *rankIndex) size() int { return nsize(x.root) }
