package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
)

// failingPersister rejects every save.
type failingPersister struct {
	*MemoryPersister
	err error
}

func (f *failingPersister) Save(context.Context, string, any) error { return f.err }

func newFailing() *failingPersister {
	return &failingPersister{
		MemoryPersister: NewMemoryPersister(),
		err:             errors.New("disk full"),
	}
}

func ptr[T any](v T) *T { return &v }

func TestComputeBreakpoints(t *testing.T) {
	tests := []struct {
		level int
		want  Breakpoints
	}{
		{level: -1, want: Breakpoints{XS: 1, SM: 2, MD: 2, LG: 3, XL: 4}},
		{level: 0, want: Breakpoints{XS: 2, SM: 3, MD: 4, LG: 5, XL: 6}},
		{level: 1, want: Breakpoints{XS: 3, SM: 4, MD: 6, LG: 7, XL: 8}},
		{level: 2, want: Breakpoints{XS: 4, SM: 5, MD: 8, LG: 9, XL: 10}},
		{level: 3, want: Breakpoints{XS: 5, SM: 6, MD: 10, LG: 11, XL: 12}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("level %d", tt.level), func(t *testing.T) {
			if got := ComputeBreakpoints(tt.level); got != tt.want {
				t.Errorf("ComputeBreakpoints(%d) = %+v, want %+v", tt.level, got, tt.want)
			}
		})
	}
}

func TestZoomClamp(t *testing.T) {
	ctx := context.Background()
	z := NewZoom(NewMemoryPersister())

	for range 10 {
		if _, err := z.ZoomOut(ctx); err != nil {
			t.Fatalf("ZoomOut() error = %v", err)
		}
	}
	s := z.State()
	if s.Level != MaxZoomLevel {
		t.Errorf("Level after repeated ZoomOut = %d, want %d", s.Level, MaxZoomLevel)
	}
	if s.CanZoomOut() {
		t.Error("CanZoomOut() should be false at the upper bound")
	}
	if s.Breakpoints != ComputeBreakpoints(MaxZoomLevel) {
		t.Errorf("Breakpoints = %+v", s.Breakpoints)
	}

	for range 10 {
		if _, err := z.ZoomIn(ctx); err != nil {
			t.Fatalf("ZoomIn() error = %v", err)
		}
	}
	s = z.State()
	if s.Level != MinZoomLevel {
		t.Errorf("Level after repeated ZoomIn = %d, want %d", s.Level, MinZoomLevel)
	}
	if s.CanZoomIn() {
		t.Error("CanZoomIn() should be false at the lower bound")
	}
	if !s.CanZoomOut() {
		t.Error("CanZoomOut() should be true at the lower bound")
	}
}

func TestZoomPersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()

	if _, err := NewZoom(p).ZoomOut(ctx); err != nil {
		t.Fatalf("ZoomOut() error = %v", err)
	}

	raw, ok := p.Raw(KeyZoom)
	if !ok {
		t.Fatal("zoom record not saved")
	}
	want := `{"zoomLevel":1,"zoomBreakpoints":{"xs":3,"sm":4,"md":6,"lg":7,"xl":8}}`
	if string(raw) != want {
		t.Errorf("saved = %s, want %s", raw, want)
	}

	z := NewZoom(p)
	found, err := z.Hydrate(ctx)
	if err != nil || !found {
		t.Fatalf("Hydrate() = %v, %v", found, err)
	}
	if z.State().Level != 1 {
		t.Errorf("hydrated Level = %d, want 1", z.State().Level)
	}
}

func TestZoomHydrateClampsOutOfRange(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	_ = p.Save(ctx, KeyZoom, ZoomState{Level: 9})

	z := NewZoom(p)
	if _, err := z.Hydrate(ctx); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if s := z.State(); s.Level != MaxZoomLevel || s.Breakpoints != ComputeBreakpoints(MaxZoomLevel) {
		t.Errorf("State() = %+v, want clamped to %d", s, MaxZoomLevel)
	}
}

func TestSetRating(t *testing.T) {
	ctx := context.Background()
	r := NewRatings(NewMemoryPersister())

	if err := r.SetRating(ctx, 42, ptr(4)); err != nil {
		t.Fatalf("SetRating(42, 4) error = %v", err)
	}
	if got, ok := r.State().Get(42); !ok || got != 4 {
		t.Errorf("rating[42] = %d, %v, want 4, true", got, ok)
	}

	if err := r.SetRating(ctx, 42, nil); err != nil {
		t.Fatalf("SetRating(42, nil) error = %v", err)
	}
	if _, ok := r.State().Get(42); ok {
		t.Error("rating[42] should be absent after clearing")
	}
}

func TestSetRatingOutOfRange(t *testing.T) {
	r := NewRatings(NewMemoryPersister())

	for _, v := range []int{0, 6, -1} {
		err := r.SetRating(context.Background(), 1, ptr(v))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("SetRating(%d) error = %v, want *ValidationError", v, err)
		}
	}
	if n := len(r.State().RatingByID); n != 0 {
		t.Errorf("ratings = %d, want 0", n)
	}
}

func TestCreateCollection(t *testing.T) {
	ctx := context.Background()
	c := NewCollections(NewMemoryPersister())

	if err := c.UpdateCollection(ctx, "Favorites", []int64{3, 1, 3}); err != nil {
		t.Fatalf("UpdateCollection() error = %v", err)
	}
	if got := c.State().Collections["Favorites"]; !slices.Equal(got, []int64{1, 3}) {
		t.Errorf("Favorites = %v, want [1 3]", got)
	}

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "case-insensitive duplicate", input: "favorites", wantMsg: "Collection already exists"},
		{name: "blank name", input: "   ", wantMsg: "Collection name is required"},
		{name: "empty name", input: "", wantMsg: "Collection name is required"},
		{name: "new name", input: "NewOne"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := c.State()
			err := c.CreateCollection(ctx, tt.input, []int64{7})

			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("CreateCollection(%q) error = %v", tt.input, err)
				}
				if _, ok := c.State().Collections[tt.input]; !ok {
					t.Errorf("%q not retrievable after creation", tt.input)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Message != tt.wantMsg {
				t.Fatalf("CreateCollection(%q) error = %v, want %q", tt.input, err, tt.wantMsg)
			}
			if after := c.State(); len(after.Collections) != len(before.Collections) {
				t.Errorf("store mutated on validation failure: %v", after.Collections)
			}
		})
	}
}

func TestRemoveCollectionClearsCurrent(t *testing.T) {
	ctx := context.Background()
	c := NewCollections(NewMemoryPersister())

	_ = c.UpdateCollection(ctx, "a", []int64{1})
	_ = c.UpdateCollection(ctx, "b", []int64{2})
	if err := c.SetCurrent(ctx, ptr("a")); err != nil {
		t.Fatalf("SetCurrent() error = %v", err)
	}
	if ids := c.State().IDs(); !slices.Equal(ids, []int64{1}) {
		t.Errorf("IDs() = %v, want [1]", ids)
	}

	if err := c.RemoveCollection(ctx, "b"); err != nil {
		t.Fatalf("RemoveCollection(b) error = %v", err)
	}
	if cur := c.State().Current; cur == nil || *cur != "a" {
		t.Errorf("Current = %v, want a", cur)
	}

	if err := c.RemoveCollection(ctx, "a"); err != nil {
		t.Fatalf("RemoveCollection(a) error = %v", err)
	}
	if cur := c.State().Current; cur != nil {
		t.Errorf("Current = %v, want nil", *cur)
	}
	if ids := c.State().IDs(); ids != nil {
		t.Errorf("IDs() = %v, want nil", ids)
	}
}

func TestEmptyCurrentCollectionMatchesNothing(t *testing.T) {
	ctx := context.Background()
	c := NewCollections(NewMemoryPersister())

	_ = c.CreateCollection(ctx, "empty", nil)
	_ = c.SetCurrent(ctx, ptr("empty"))

	ids := c.State().IDs()
	if ids == nil || len(ids) != 0 {
		t.Errorf("IDs() = %#v, want empty non-nil", ids)
	}
}

func TestAddAndRemoveItems(t *testing.T) {
	ctx := context.Background()
	c := NewCollections(NewMemoryPersister())
	_ = c.UpdateCollection(ctx, "a", []int64{5})

	if err := c.AddItems(ctx, "a", 2, 5, 9); err != nil {
		t.Fatalf("AddItems() error = %v", err)
	}
	if got := c.State().Collections["a"]; !slices.Equal(got, []int64{2, 5, 9}) {
		t.Errorf("a = %v, want [2 5 9]", got)
	}

	if err := c.RemoveItems(ctx, "a", 5); err != nil {
		t.Fatalf("RemoveItems() error = %v", err)
	}
	if !c.State().Contains("a", 2) || c.State().Contains("a", 5) {
		t.Errorf("a = %v after removing 5", c.State().Collections["a"])
	}

	if err := c.AddItems(ctx, "missing", 1); !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("AddItems(missing) error = %v, want ErrUnknownCollection", err)
	}
	if err := c.SetCurrent(ctx, ptr("missing")); !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("SetCurrent(missing) error = %v, want ErrUnknownCollection", err)
	}
}

func TestFailedSaveLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	p := newFailing()

	z := NewZoom(p)
	if _, err := z.ZoomOut(ctx); err == nil {
		t.Error("ZoomOut() should fail when the save fails")
	}
	if z.State().Level != 0 {
		t.Errorf("zoom Level = %d, want 0", z.State().Level)
	}

	r := NewRatings(p)
	if err := r.SetRating(ctx, 1, ptr(3)); !errors.Is(err, p.err) {
		t.Errorf("SetRating() error = %v, want wrapped %v", err, p.err)
	}
	if _, ok := r.State().Get(1); ok {
		t.Error("rating committed despite failed save")
	}

	c := NewCollections(p)
	if err := c.CreateCollection(ctx, "x", nil); err == nil {
		t.Error("CreateCollection() should fail when the save fails")
	}
	if len(c.State().Collections) != 0 {
		t.Errorf("collections = %v, want empty", c.State().Collections)
	}
}

func TestStateSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	c := NewCollections(NewMemoryPersister())
	_ = c.UpdateCollection(ctx, "a", []int64{1, 2})

	s := c.State()
	s.Collections["a"][0] = 99
	delete(s.Collections, "a")

	if got := c.State().Collections["a"]; !slices.Equal(got, []int64{1, 2}) {
		t.Errorf("store changed through a snapshot: %v", got)
	}
}

func TestUnion(t *testing.T) {
	if got := Union([]int64{3, 1}, 2, 3); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("Union() = %v, want [1 2 3]", got)
	}
	if got := Union(nil); len(got) != 0 {
		t.Errorf("Union(nil) = %v, want empty", got)
	}
}
