package domain

import "strings"

// compactAliases is how many aliases a chip label shows.
const compactAliases = 3

// Tag is a concept with several naming variants (original, translated, romanized...).
type Tag struct {
	ID    int64    `json:"id"`
	Alias []string `json:"alias"`
}

// Label joins the first three aliases for compact display.
func (t Tag) Label() string {
	n := min(len(t.Alias), compactAliases)
	return strings.Join(t.Alias[:n], " / ")
}

// Tooltip joins every alias.
func (t Tag) Tooltip() string {
	return strings.Join(t.Alias, " / ")
}
