package view

import "github.com/MrSnakeDoc/curator/internal/domain"

// GridItem is one thumbnail cell.
type GridItem struct {
	ID     int64
	Count  int
	ImgSrc string
	Title  string
}

// GridItems keeps the illusts that have at least one image and, when
// rating is set, whose stored rating equals it.
func GridItems(page domain.Page[domain.Illust], rating *int, ratings map[int64]int, media Media) []GridItem {
	items := make([]GridItem, 0, len(page.Items))
	for _, il := range page.Items {
		n := domain.ImageCount(il)
		if n == 0 {
			continue
		}
		if rating != nil && ratings[il.ID] != *rating {
			continue
		}
		items = append(items, GridItem{
			ID:     il.ID,
			Count:  n,
			ImgSrc: media.Thumb(domain.FirstImage(il), GridThumbSize, true),
			Title:  il.History.Extension.Title,
		})
	}
	return items
}
