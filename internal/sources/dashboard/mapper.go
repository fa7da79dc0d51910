package dashboard

import (
	"fmt"
	"slices"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

// maxPerPage bounds grid.per_page; the backend rejects larger pages.
const maxPerPage = 500

// Mapper validates a parsed file and converts it to domain.Dashboard.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

func (m *Mapper) Map(f File) (domain.Dashboard, error) {
	d := domain.DefaultDashboard()

	if f.Grid.PerPage < 0 || f.Grid.PerPage > maxPerPage {
		return d, fmt.Errorf("grid.per_page must be between 1 and %d, got %d", maxPerPage, f.Grid.PerPage)
	}
	if f.Grid.PerPage > 0 {
		d.Grid.PerPage = f.Grid.PerPage
	}

	for _, id := range f.FavoriteUsers {
		if id <= 0 {
			return d, fmt.Errorf("favorite_users: invalid user id %d", id)
		}
		// keep the first occurrence so display order follows the file
		if !slices.Contains(d.FavoriteUsers, id) {
			d.FavoriteUsers = append(d.FavoriteUsers, id)
		}
	}

	d.Grid.ForcedTagIDs = sortedSet(f.Grid.ForcedTagIDs)
	d.Grid.ExcludedTagIDs = sortedSet(f.Grid.ExcludedTagIDs)

	for _, id := range d.Grid.ForcedTagIDs {
		if slices.Contains(d.Grid.ExcludedTagIDs, id) {
			return d, fmt.Errorf("grid: tag %d is both forced and excluded", id)
		}
	}

	return d, nil
}

func sortedSet(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
