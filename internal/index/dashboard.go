package index

import (
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

// DashboardIndex is the in-memory snapshot of the dashboard configuration
// and the resolved favorite uploaders. Readers never block the reloader
// for long: every getter returns a copy.
type DashboardIndex struct {
	mu         sync.RWMutex
	settings   domain.Dashboard
	favorites  []domain.GeneralUser // resolved FavoriteUsers, in display order
	lastReload time.Time
	lastErr    error
}

func NewDashboardIndex() *DashboardIndex {
	return &DashboardIndex{settings: domain.DefaultDashboard()}
}

// UpdateSettings replaces the dashboard configuration.
func (idx *DashboardIndex) UpdateSettings(d domain.Dashboard) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.settings = d
}

// UpdateFavorites replaces the resolved favorite users and marks a successful reload.
func (idx *DashboardIndex) UpdateFavorites(users []domain.GeneralUser) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.favorites = slices.Clone(users)
	idx.lastReload = time.Now()
	idx.lastErr = nil
}

// RecordFailure keeps the previous snapshot and remembers why the reload failed.
func (idx *DashboardIndex) RecordFailure(err error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.lastErr = err
}

func (idx *DashboardIndex) Settings() domain.Dashboard {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	d := idx.settings
	d.FavoriteUsers = slices.Clone(d.FavoriteUsers)
	d.Grid.ForcedTagIDs = slices.Clone(d.Grid.ForcedTagIDs)
	d.Grid.ExcludedTagIDs = slices.Clone(d.Grid.ExcludedTagIDs)
	return d
}

// Grid is a shortcut for Settings().Grid.
func (idx *DashboardIndex) Grid() domain.GridSettings {
	return idx.Settings().Grid
}

func (idx *DashboardIndex) Favorites() []domain.GeneralUser {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return slices.Clone(idx.favorites)
}

// Count returns the number of resolved favorite users.
func (idx *DashboardIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.favorites)
}

func (idx *DashboardIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

func (idx *DashboardIndex) LastError() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastErr
}
