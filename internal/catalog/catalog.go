// Package catalog loads the collectible item catalog and exposes per-division
// draw pools.
package catalog

import (
	_ "embed"
	"fmt"
	"hash/fnv"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/shootout/internal/domain/draw"
	"github.com/okian/shootout/internal/domain/probability"
	"github.com/okian/shootout/internal/domain/rng"
	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
)

//go:embed default.yaml
var defaultCatalog []byte

// Item is one collectible player.
type Item struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Division tier.Division `json:"division"`
	Rarity   stats.Rarity  `json:"rarity"`
	Role     stats.Role    `json:"role,omitempty"`
	Active   bool          `json:"active"`
	Weight   float64       `json:"weight"`
	Stats    stats.Vector  `json:"stats"`
	// Generated is set when the stats were authored by the distributor at
	// load time.
	Generated bool `json:"generated,omitempty"`
}

type fileItem struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Division string        `yaml:"division"`
	Rarity   string        `yaml:"rarity"`
	Role     string        `yaml:"role"`
	Active   *bool         `yaml:"active"`
	Weight   float64       `yaml:"weight"`
	Stats    *stats.Vector `yaml:"stats"`
}

type file struct {
	Items []fileItem `yaml:"items"`
}

// Catalog is an immutable, validated item set.
type Catalog struct {
	items      []Item
	byID       map[string]int
	byDivision map[tier.Division][]int
}

// Default loads the embedded catalog.
func Default(table *tier.Table) (*Catalog, error) {
	return Parse(defaultCatalog, table)
}

// LoadFile loads the catalog at path, or the embedded one when path is empty.
func LoadFile(path string, table *tier.Table) (*Catalog, error) {
	if path == "" {
		return Default(table)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(b, table)
}

// Parse decodes and validates a YAML catalog. Items without stats get a
// vector generated from their rarity and role, seeded by the item id so that
// reloading the same file always yields the same stats. Every vector must sum
// inside its division's budget.
func Parse(data []byte, table *tier.Table) (*Catalog, error) {
	if table == nil {
		table = tier.Default()
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidCatalog)
	}

	model := probability.NewModel(table)
	c := &Catalog{
		items:      make([]Item, 0, len(f.Items)),
		byID:       make(map[string]int, len(f.Items)),
		byDivision: make(map[tier.Division][]int),
	}
	for i, fi := range f.Items {
		it, err := buildItem(fi, table, model)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d (%s): %v", ErrInvalidCatalog, i, fi.ID, err)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, it.ID)
		}
		c.byID[it.ID] = len(c.items)
		c.byDivision[it.Division] = append(c.byDivision[it.Division], len(c.items))
		c.items = append(c.items, it)
	}
	return c, nil
}

func buildItem(fi fileItem, table *tier.Table, model *probability.Model) (Item, error) {
	id := strings.TrimSpace(fi.ID)
	if id == "" {
		return Item{}, fmt.Errorf("missing id")
	}
	div, err := tier.Parse(fi.Division)
	if err != nil {
		return Item{}, err
	}
	rarity, ok := stats.ParseRarity(fi.Rarity)
	if !ok {
		return Item{}, fmt.Errorf("unknown rarity %q", fi.Rarity)
	}
	if fi.Weight < 0 {
		return Item{}, fmt.Errorf("negative weight %v", fi.Weight)
	}

	it := Item{
		ID:       id,
		Name:     fi.Name,
		Division: div,
		Rarity:   rarity,
		Role:     stats.ParseRole(fi.Role),
		Active:   fi.Active == nil || *fi.Active,
		Weight:   fi.Weight,
	}
	if it.Weight == 0 {
		it.Weight = rarity.Weight()
	}

	if fi.Stats != nil {
		it.Stats = fi.Stats.WithOverall()
	} else {
		b, err := table.Bounds(div)
		if err != nil {
			return Item{}, err
		}
		v, err := stats.NewDistributor(rng.NewSeeded(seedFor(id))).Generate(b, rarity, it.Role)
		if err != nil {
			return Item{}, err
		}
		it.Stats, it.Generated = v, true
	}
	if err := model.CheckBudget(it.Stats, div); err != nil {
		return Item{}, err
	}
	return it, nil
}

func seedFor(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Items returns every item in file order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Item looks up an item by id.
func (c *Catalog) Item(id string) (Item, error) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return c.items[i], nil
}

// ItemsFor returns the items of division d in file order.
func (c *Catalog) ItemsFor(d tier.Division) ([]Item, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", tier.ErrInvalidTier, d)
	}
	idx := c.byDivision[d]
	out := make([]Item, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.items[i])
	}
	return out, nil
}

// PoolFor returns the draw pool of division d in file order.
func (c *Catalog) PoolFor(d tier.Division) ([]draw.PoolEntry, error) {
	items, err := c.ItemsFor(d)
	if err != nil {
		return nil, err
	}
	pool := make([]draw.PoolEntry, 0, len(items))
	for _, it := range items {
		pool = append(pool, draw.PoolEntry{ItemID: it.ID, Weight: it.Weight, Active: it.Active})
	}
	return pool, nil
}
