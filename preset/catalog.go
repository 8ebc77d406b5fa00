// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package preset provides a catalog container for grading presets,
// film emulations and color cards. It ships no preset data of its own.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/grade"
)

// Errors returned when adding presets.
var (
	ErrMissingID   = errors.New("preset: missing id")
	ErrDuplicateID = errors.New("preset: duplicate id")
)

// Catalog is an ordered collection of presets indexed by ID.
//
// Catalog is safe for concurrent use. Presets are copied on the way in
// and on the way out.
type Catalog struct {
	mu      sync.RWMutex
	presets []grade.Preset
	byID    map[string]int
	keys    []string // search key per preset
}

// New creates a catalog holding presets, in order.
func New(presets ...grade.Preset) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int)}
	for _, p := range presets {
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Load reads a JSON array of presets.
func Load(r io.Reader) (*Catalog, error) {
	var presets []grade.Preset
	if err := json.NewDecoder(r).Decode(&presets); err != nil {
		return nil, fmt.Errorf("preset: decode catalog: %w", err)
	}
	return New(presets...)
}

// Add appends p. IDs must be non-empty and unique.
func (c *Catalog) Add(p grade.Preset) error {
	if p.ID == "" {
		return fmt.Errorf("%w: %q", ErrMissingID, p.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[p.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
	}
	c.byID[p.ID] = len(c.presets)
	c.presets = append(c.presets, *p.Clone())
	c.keys = append(c.keys, foldKey(p.ID+"\x00"+p.Name+"\x00"+p.Category))
	return nil
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.presets)
}

// Lookup returns the preset with the given ID.
func (c *Catalog) Lookup(id string) (grade.Preset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return grade.Preset{}, false
	}
	return *c.presets[i].Clone(), true
}

// All returns every preset in insertion order.
func (c *Catalog) All() []grade.Preset {
	return c.filter(func(int) bool { return true })
}

// ByCategory returns the presets of one category in insertion order.
func (c *Catalog) ByCategory(category string) []grade.Preset {
	return c.filter(func(i int) bool { return c.presets[i].Category == category })
}

// Categories returns the distinct non-empty categories, sorted.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := make(map[string]struct{})
	for _, p := range c.presets {
		if p.Category != "" {
			set[p.Category] = struct{}{}
		}
	}
	cats := maps.Keys(set)
	slices.Sort(cats)
	return cats
}

// Search returns the presets whose ID, name or category contains query.
// Matching is case-insensitive and compatibility-normalized, so "VIVID"
// finds "Vivid" and full-width "ｖｉｖｉｄ" does too. An empty query
// matches everything.
func (c *Catalog) Search(query string) []grade.Preset {
	q := foldKey(strings.TrimSpace(query))
	return c.filter(func(i int) bool { return strings.Contains(c.keys[i], q) })
}

func (c *Catalog) filter(keep func(i int) bool) []grade.Preset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []grade.Preset
	for i := range c.presets {
		if keep(i) {
			out = append(out, *c.presets[i].Clone())
		}
	}
	return out
}

// foldKey normalizes s for matching. A Caser is not safe for concurrent
// use, so each call makes its own.
func foldKey(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
