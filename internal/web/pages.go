package web

import (
	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/view"
)

// Layout is the data every page template reads.
type Layout struct {
	Title  string
	Active string // highlighted navigation entry
}

// CollectionSummary is one collection as listed in the drawer and on the dashboard.
type CollectionSummary struct {
	Name    string
	Count   int
	Current bool
}

type DashboardPage struct {
	Layout
	Favorites    []domain.GeneralUser
	ReloadError  string
	LastReload   string
	Collections  []CollectionSummary
	Collected    int // distinct items over all collections
	RatedItems   int
	RatingCounts []RatingCount
}

type RatingCount struct {
	Stars int
	Count int
}

// GridCell is a thumbnail with its overlay link.
type GridCell struct {
	view.GridItem
	Href   string
	Rating int
}

type PageLinkView struct {
	view.PageLink
	Href string
}

// GalleryPage is the filtered grid with its overlay.
type GalleryPage struct {
	Layout
	Path      string // form action and base of every generated link
	ReturnURL string // where state forms redirect back to

	Filter       view.Filter
	FilterError  string
	SelectedTags []view.TagChip

	Zoom              store.ZoomState
	Collections       []CollectionSummary
	CurrentCollection string
	CollectionError   string

	Cells     []GridCell
	GridError string

	Paginator view.Paginator
	PrevHref  string
	NextHref  string
	Links     []PageLinkView

	Viewer           *view.Viewer
	CloseHref        string
	UploaderFragment string
	TagsFragment     string
}

// UserPage is an uploader profile above their gallery.
type UserPage struct {
	GalleryPage
	Profile *view.Profile
}

type ErrorPage struct {
	Layout
	Status  int
	Message string
}

// UploaderFragment fills the viewer's uploader placeholder.
type UploaderFragment struct {
	User     *domain.GeneralUser
	NotFound bool
	Error    string
}

// TagsFragment fills the viewer's tag placeholder.
type TagsFragment struct {
	Tags  []view.TagChip
	Error string
}
