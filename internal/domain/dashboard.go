package domain

// DefaultPerPage is the gallery page size when nothing else is configured.
const DefaultPerPage = 50

// Dashboard is the runtime view of dashboard.yaml.
type Dashboard struct {
	// FavoriteUsers are uploader ids featured on the index page, in display order.
	FavoriteUsers []int64

	Grid GridSettings
}

// GridSettings are backend-specific constraints applied to every gallery listing.
type GridSettings struct {
	PerPage        int
	ForcedTagIDs   []int64 // always ANDed into tag_ids
	ExcludedTagIDs []int64 // always sent as tag_ids_exclude
}

// DefaultDashboard is used when no dashboard file is configured.
func DefaultDashboard() Dashboard {
	return Dashboard{
		Grid: GridSettings{PerPage: DefaultPerPage},
	}
}
