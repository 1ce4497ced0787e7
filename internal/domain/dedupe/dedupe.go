// Package dedupe tracks recently seen order ids.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const defaultMaxSize = 50000

// ErrConflict reports an id reused with different request contents.
var ErrConflict = errors.New("order id reused with different contents")

// Deduper records seen ids together with a fingerprint of what they asked for.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it with
	// fingerprint if not. It returns true if id was already seen; a seen id
	// whose stored fingerprint differs also returns ErrConflict.
	SeenAndRecord(ctx context.Context, id, fingerprint string) (bool, error)

	// Unrecord forgets id so that a failed order can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper is a bounded set with FIFO eviction: once full, recording
// a new id forgets the oldest one. maxSize <= 0 means unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]record
	ring    []string
	head    int // next slot to write
	maxSize int
}

type record struct {
	slot        int // position in ring, -1 when unbounded
	fingerprint string
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]record)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id, fingerprint string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if rec, ok := d.seen[id]; ok {
		if rec.fingerprint != fingerprint {
			return true, fmt.Errorf("%w: %s", ErrConflict, id)
		}
		return true, nil
	}
	if d.maxSize <= 0 {
		d.seen[id] = record{slot: -1, fingerprint: fingerprint}
		return false, nil
	}

	// The head slot holds the oldest id, or nothing if it was unrecorded.
	if old := d.ring[d.head]; old != "" {
		delete(d.seen, old)
	}
	d.ring[d.head] = id
	d.seen[id] = record{slot: d.head, fingerprint: fingerprint}
	d.head = (d.head + 1) % d.maxSize
	return false, nil
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)
	if rec.slot >= 0 {
		d.ring[rec.slot] = ""
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
