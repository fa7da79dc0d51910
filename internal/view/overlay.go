package view

import "github.com/MrSnakeDoc/curator/internal/domain"

type OverlayState int

const (
	OverlayClosed OverlayState = iota
	OverlayOpen
)

func (s OverlayState) String() string {
	if s == OverlayOpen {
		return "open"
	}
	return "closed"
}

// Overlay is the viewer dialog over the grid. It is open only when the
// requested item is part of the listing already fetched for the page.
type Overlay struct {
	State  OverlayState
	Illust *domain.Illust
}

// OpenOverlay selects item from page. A nil item or one missing from the
// listing yields a closed overlay.
func OpenOverlay(page domain.Page[domain.Illust], item *int64) Overlay {
	if item == nil {
		return Overlay{State: OverlayClosed}
	}
	for i := range page.Items {
		if page.Items[i].ID == *item {
			il := page.Items[i]
			return Overlay{State: OverlayOpen, Illust: &il}
		}
	}
	return Overlay{State: OverlayClosed}
}

func (o Overlay) IsOpen() bool { return o.State == OverlayOpen }
