package view

import (
	"html/template"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

type ProfileCounter struct {
	Label string
	Value int
}

// Profile is the header of the uploader page.
type Profile struct {
	ID         int64
	Name       string
	Account    string
	Premium    bool
	Followed   bool
	Avatar     string
	Background string
	Comment    template.HTML
	Region     string
	WebPage    string
	Twitter    string
	Counters   []ProfileCounter
}

func NewProfile(u domain.User, media Media) Profile {
	h := u.History.Extension
	e := u.Extension

	p := Profile{
		ID:         u.ID,
		Name:       domain.DisplayName(u),
		Account:    h.Account,
		Premium:    h.IsPremium,
		Followed:   e.IsFollowed,
		Avatar:     media.Raw(h.AvatarPath),
		Background: media.Raw(h.BackgroundPath),
		Comment:    SanitizeCaption(h.Comment),
		Region:     h.Region,
		WebPage:    h.WebPage,
		Twitter:    h.TwitterAccount,
	}

	counters := []struct {
		label string
		value *int
	}{
		{"Illusts", e.TotalIllusts},
		{"Manga", e.TotalManga},
		{"Novels", e.TotalNovels},
		{"Following", e.TotalFollowing},
		{"Public bookmarks", e.TotalPublicBookmarks},
	}
	for _, c := range counters {
		if c.value != nil {
			p.Counters = append(p.Counters, ProfileCounter{Label: c.label, Value: *c.value})
		}
	}

	return p
}
