package view

import "github.com/MrSnakeDoc/curator/internal/domain"

// TagChip is a tag as rendered in the viewer and in suggestions.
type TagChip struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	Tooltip string `json:"tooltip"`
}

func TagChips(tags []domain.Tag) []TagChip {
	chips := make([]TagChip, 0, len(tags))
	for _, t := range tags {
		chips = append(chips, TagChip{ID: t.ID, Label: t.Label(), Tooltip: t.Tooltip()})
	}
	return chips
}

// UserOption is an uploader suggestion.
type UserOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

func UserOptions(users []domain.User) []UserOption {
	opts := make([]UserOption, 0, len(users))
	for _, u := range users {
		opts = append(opts, UserOption{ID: u.ID, Label: domain.DisplayName(u)})
	}
	return opts
}
