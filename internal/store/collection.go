package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	msgNameRequired = "Collection name is required"
	msgNameTaken    = "Collection already exists"
)

// CollectionState maps collection names to item ids. Current is the
// collection the gallery is filtered by; nil means all items.
type CollectionState struct {
	Collections map[string][]int64 `json:"collections"`
	Current     *string            `json:"current"`
}

// IDs returns the items of the current collection, or nil when none is selected.
func (s CollectionState) IDs() []int64 {
	if s.Current == nil {
		return nil
	}
	if ids := s.Collections[*s.Current]; ids != nil {
		return ids
	}
	return []int64{}
}

// Names returns collection names in case-insensitive order.
func (s CollectionState) Names() []string {
	names := slices.Collect(maps.Keys(s.Collections))
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return names
}

// Contains reports whether id belongs to the named collection.
func (s CollectionState) Contains(name string, id int64) bool {
	return slices.Contains(s.Collections[name], id)
}

func cloneCollections(s CollectionState) CollectionState {
	out := CollectionState{Collections: make(map[string][]int64, len(s.Collections))}
	for k, v := range s.Collections {
		out.Collections[k] = slices.Clone(v)
	}
	if s.Current != nil {
		cur := *s.Current
		out.Current = &cur
	}
	return out
}

func normalizeCollections(s CollectionState) CollectionState {
	out := CollectionState{Collections: make(map[string][]int64, len(s.Collections))}
	for k, v := range s.Collections {
		out.Collections[k] = dedup(v)
	}
	if s.Current != nil {
		if _, ok := out.Collections[*s.Current]; ok {
			cur := *s.Current
			out.Current = &cur
		}
	}
	return out
}

// dedup returns the sorted set of ids.
func dedup(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// Union returns existing plus ids as a sorted set.
func Union(existing []int64, ids ...int64) []int64 {
	return dedup(append(slices.Clone(existing), ids...))
}

// Collections is the persisted set of user-defined item groups.
type Collections struct {
	rec record[CollectionState]
}

func NewCollections(p Persister) *Collections {
	return &Collections{rec: record[CollectionState]{
		key:       KeyCollection,
		p:         p,
		state:     CollectionState{Collections: map[string][]int64{}},
		clone:     cloneCollections,
		normalize: normalizeCollections,
	}}
}

func (c *Collections) State() CollectionState { return c.rec.get() }

// ValidateName checks a new collection name against the current state.
func (c *Collections) ValidateName(name string) *ValidationError {
	return validateName(c.rec.get(), name)
}

func validateName(s CollectionState, name string) *ValidationError {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: msgNameRequired}
	}
	for existing := range s.Collections {
		if strings.EqualFold(existing, name) {
			return &ValidationError{Field: "name", Message: msgNameTaken}
		}
	}
	return nil
}

// UpdateCollection creates name or overwrites its ids.
func (c *Collections) UpdateCollection(ctx context.Context, name string, ids []int64) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: msgNameRequired}
	}
	return c.rec.update(ctx, func(s *CollectionState) error {
		s.Collections[name] = dedup(ids)
		return nil
	})
}

// CreateCollection validates name and creates it with ids.
func (c *Collections) CreateCollection(ctx context.Context, name string, ids []int64) error {
	return c.rec.update(ctx, func(s *CollectionState) error {
		if verr := validateName(*s, name); verr != nil {
			return verr
		}
		s.Collections[name] = dedup(ids)
		return nil
	})
}

// AddItems adds ids to an existing collection.
func (c *Collections) AddItems(ctx context.Context, name string, ids ...int64) error {
	return c.rec.update(ctx, func(s *CollectionState) error {
		existing, ok := s.Collections[name]
		if !ok {
			return fmt.Errorf("collection %q: %w", name, ErrUnknownCollection)
		}
		s.Collections[name] = Union(existing, ids...)
		return nil
	})
}

// RemoveItems drops ids from a collection; unknown names are ignored.
func (c *Collections) RemoveItems(ctx context.Context, name string, ids ...int64) error {
	return c.rec.update(ctx, func(s *CollectionState) error {
		existing, ok := s.Collections[name]
		if !ok {
			return nil
		}
		s.Collections[name] = slices.DeleteFunc(existing, func(id int64) bool {
			return slices.Contains(ids, id)
		})
		return nil
	})
}

// SetCurrent selects the collection the gallery is filtered by; nil clears it.
func (c *Collections) SetCurrent(ctx context.Context, name *string) error {
	return c.rec.update(ctx, func(s *CollectionState) error {
		if name == nil {
			s.Current = nil
			return nil
		}
		if _, ok := s.Collections[*name]; !ok {
			return fmt.Errorf("collection %q: %w", *name, ErrUnknownCollection)
		}
		cur := *name
		s.Current = &cur
		return nil
	})
}

// RemoveCollection deletes name and clears the selection if it pointed at it.
func (c *Collections) RemoveCollection(ctx context.Context, name string) error {
	return c.rec.update(ctx, func(s *CollectionState) error {
		delete(s.Collections, name)
		if s.Current != nil && *s.Current == name {
			s.Current = nil
		}
		return nil
	})
}

func (c *Collections) Hydrate(ctx context.Context) (bool, error) { return c.rec.hydrate(ctx) }
