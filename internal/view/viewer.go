package view

import (
	"html/template"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

// dateLayout is how item dates are printed in the viewer.
const dateLayout = "2006-01-02 15:04"

type ViewerImage struct {
	Original string // raw file, opened on click
	Large    string // 1536px, uncropped
}

// CollectionOption is one entry of the "add to collection" menu.
type CollectionOption struct {
	Name     string
	Contains bool
}

// Viewer is the content of the open overlay.
type Viewer struct {
	ID          int64
	Title       string
	Images      []ViewerImage
	Caption     template.HTML
	Views       int
	Bookmarks   int
	Date        string
	Rating      int // 0 = unrated
	UploaderID  *int64
	TagIDs      []int64
	Collections []CollectionOption
}

// NewViewer builds the overlay content for il. names lists the existing
// collections and contains reports membership of il in one of them.
func NewViewer(il domain.Illust, media Media, rating int, names []string, contains func(name string, id int64) bool) Viewer {
	h := il.History.Extension

	v := Viewer{
		ID:         il.ID,
		Title:      h.Title,
		Caption:    SanitizeCaption(h.CaptionHTML),
		Views:      il.Extension.TotalView,
		Bookmarks:  il.Extension.TotalBookmarks,
		Date:       formatDate(h.Date),
		Rating:     rating,
		UploaderID: il.ParentID,
		TagIDs:     il.TagIDs,
	}

	for _, p := range h.ImagePaths {
		v.Images = append(v.Images, ViewerImage{
			Original: media.Raw(p),
			Large:    media.Thumb(p, LargeSize, false),
		})
	}

	for _, name := range names {
		v.Collections = append(v.Collections, CollectionOption{
			Name:     name,
			Contains: contains != nil && contains(name, il.ID),
		})
	}

	return v
}

func formatDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout)
		}
	}
	return raw
}
