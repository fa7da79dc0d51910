package store

import (
	"context"
	"fmt"
	"sync"
)

// record is one persisted state value guarded by a mutex.
// Mutations compute the next value on a copy, save it, then commit it.
type record[S any] struct {
	mu    sync.Mutex
	key   string
	p     Persister
	state S

	clone     func(S) S
	normalize func(S) S
}

func (r *record[S]) get() S {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clone(r.state)
}

// update applies fn to a copy of the state. Memory is left untouched when
// fn or the save fails.
func (r *record[S]) update(ctx context.Context, fn func(*S) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.clone(r.state)
	if err := fn(&next); err != nil {
		return err
	}
	if err := r.p.Save(ctx, r.key, next); err != nil {
		return fmt.Errorf("failed to save %s state: %w", r.key, err)
	}
	r.state = next
	return nil
}

// hydrate replaces the state with the persisted record, if any.
func (r *record[S]) hydrate(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var loaded S
	found, err := r.p.Load(ctx, r.key, &loaded)
	if err != nil {
		return false, fmt.Errorf("failed to load %s state: %w", r.key, err)
	}
	if !found {
		return false, nil
	}
	r.state = r.normalize(loaded)
	return true, nil
}

func identity[S any](s S) S { return s }
