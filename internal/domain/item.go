package domain

import "time"

// Item is the envelope the archive wraps every sourced entity in.
//
// E is the source-specific extension payload (aggregate counters, flags),
// H the extension carried by the current history snapshot (descriptive
// fields that may change upstream). Items are read-only snapshots: the
// front-end never mutates them.
type Item[E, H any] struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	ID       int64  `json:"id"`
	SourceID string `json:"source_id"`

	// ParentID links a work to its uploader.
	ParentID *int64 `json:"parent_id,omitempty"`

	TagIDs []int64 `json:"tag_ids,omitempty"`

	// SourceInaccessible is set once the upstream copy disappeared.
	SourceInaccessible bool `json:"source_inaccessible"`

	InsertedAt time.Time `json:"inserted_at,omitzero"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`

	// ─────────────────────────────
	// Descriptive snapshot + aggregates
	// ─────────────────────────────

	History   History[H] `json:"history"`
	Extension E          `json:"extension"`
}

// History is the single current snapshot of an item's mutable fields.
type History[H any] struct {
	InsertedAt time.Time `json:"inserted_at,omitzero"`
	Extension  H         `json:"extension"`
}

// Page is the shape of every list endpoint response.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
