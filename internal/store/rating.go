package store

import (
	"context"
	"fmt"
	"maps"
)

const (
	MinRating = 1
	MaxRating = 5
)

// RatingState maps item ids to a 1..5 score. Unrated items are absent.
type RatingState struct {
	RatingByID map[int64]int `json:"ratingById"`
}

// Get returns the rating of id, if any.
func (s RatingState) Get(id int64) (int, bool) {
	r, ok := s.RatingByID[id]
	return r, ok
}

func cloneRatings(s RatingState) RatingState {
	out := RatingState{RatingByID: maps.Clone(s.RatingByID)}
	if out.RatingByID == nil {
		out.RatingByID = map[int64]int{}
	}
	return out
}

func normalizeRatings(s RatingState) RatingState {
	out := RatingState{RatingByID: make(map[int64]int, len(s.RatingByID))}
	for id, r := range s.RatingByID {
		if r >= MinRating && r <= MaxRating {
			out.RatingByID[id] = r
		}
	}
	return out
}

// Ratings is the persisted per-item score table.
type Ratings struct {
	rec record[RatingState]
}

func NewRatings(p Persister) *Ratings {
	return &Ratings{rec: record[RatingState]{
		key:       KeyRating,
		p:         p,
		state:     RatingState{RatingByID: map[int64]int{}},
		clone:     cloneRatings,
		normalize: normalizeRatings,
	}}
}

func (r *Ratings) State() RatingState { return r.rec.get() }

// SetRating stores rating for id; a nil rating removes the entry.
func (r *Ratings) SetRating(ctx context.Context, id int64, rating *int) error {
	if rating != nil && (*rating < MinRating || *rating > MaxRating) {
		return &ValidationError{
			Field:   "rating",
			Message: fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating),
		}
	}
	return r.rec.update(ctx, func(s *RatingState) error {
		if rating == nil {
			delete(s.RatingByID, id)
			return nil
		}
		s.RatingByID[id] = *rating
		return nil
	})
}

func (r *Ratings) Hydrate(ctx context.Context) (bool, error) { return r.rec.hydrate(ctx) }
