/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package guessit

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Category is one themed word list, split by tier.
type Category struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Color  string   `json:"color" yaml:"color"`
	Easy   []string `json:"easy" yaml:"easy"`
	Medium []string `json:"medium" yaml:"medium"`
	Hard   []string `json:"hard" yaml:"hard"`
}

// Texts returns the raw word list for a tier.
func (c *Category) Texts(t Tier) []string {
	switch t {
	case TierEasy:
		return c.Easy
	case TierMedium:
		return c.Medium
	case TierHard:
		return c.Hard
	}
	return nil
}

// Words returns the tier's list as Words tagged with this category.
func (c *Category) Words(t Tier) []Word {
	texts := c.Texts(t)
	out := make([]Word, 0, len(texts))
	for _, text := range texts {
		out = append(out, Word{
			Text:     text,
			Category: c.ID,
			Tier:     t,
			Color:    c.Color,
		})
	}
	return out
}

// RoundRules is display data for one round. Scheduling only ever reads the
// round's identity and the number of rounds.
type RoundRules struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Rules       string   `json:"rules" yaml:"rules"`
	Allowed     []string `json:"allowed" yaml:"allowed"`
	Forbidden   []string `json:"forbidden" yaml:"forbidden"`
	ColorGroup  int      `json:"color_group" yaml:"color_group"`
	Preselected bool     `json:"preselected,omitempty" yaml:"preselected"`
}

// Catalog is the read-only reference data a session draws from.
type Catalog struct {
	Categories []Category   `json:"categories" yaml:"categories"`
	Rounds     []RoundRules `json:"rounds" yaml:"rounds"`

	categories map[string]int
	rounds     map[string]int
}

// LoadCatalog decodes a YAML catalog and indexes it.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if err := c.index(); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadCatalogFile reads a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadCatalog(f)
}

// DefaultCatalog returns the embedded catalog. Each call returns a fresh copy.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(embeddedCatalog))
	if err != nil {
		panic("embedded catalog: " + err.Error())
	}
	return c
}

func (c *Catalog) index() error {
	c.categories = make(map[string]int, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("%w: category %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.categories[cat.ID]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, cat.ID)
		}
		c.categories[cat.ID] = i
	}

	c.rounds = make(map[string]int, len(c.Rounds))
	for i, r := range c.Rounds {
		if r.ID == "" {
			return fmt.Errorf("%w: round %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.rounds[r.ID]; dup {
			return fmt.Errorf("%w: duplicate round %q", ErrInvalidCatalog, r.ID)
		}
		c.rounds[r.ID] = i
	}

	return nil
}

// Category looks up a category by ID.
func (c *Catalog) Category(id string) (*Category, bool) {
	i, ok := c.categories[id]
	if !ok {
		return nil, false
	}
	return &c.Categories[i], true
}

// Round looks up a round rule-set by ID.
func (c *Catalog) Round(id string) (*RoundRules, bool) {
	i, ok := c.rounds[id]
	if !ok {
		return nil, false
	}
	return &c.Rounds[i], true
}

// DefaultRounds returns the preselected round IDs in catalog order.
func (c *Catalog) DefaultRounds() []string {
	var ids []string
	for _, r := range c.Rounds {
		if r.Preselected {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// RandomRounds draws up to limit rounds in random order, taking at most one
// round from each colour group.
func (c *Catalog) RandomRounds(rng Rand, limit int) []string {
	if limit <= 0 {
		limit = 4
	}

	seen := make(map[int]bool)
	ids := make([]string, 0, limit)

	for _, r := range shuffled(rng, c.Rounds) {
		if seen[r.ColorGroup] {
			continue
		}
		seen[r.ColorGroup] = true
		ids = append(ids, r.ID)
		if len(ids) >= limit {
			break
		}
	}

	return ids
}
