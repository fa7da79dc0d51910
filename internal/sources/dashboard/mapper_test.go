package dashboard

import (
	"slices"
	"testing"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

func TestMapperMap(t *testing.T) {
	tests := []struct {
		name    string
		in      File
		want    domain.Dashboard
		wantErr bool
	}{
		{
			name: "defaults",
			in:   File{},
			want: domain.DefaultDashboard(),
		},
		{
			name: "normalized",
			in: File{
				FavoriteUsers: []int64{90, 79, 90},
				Grid: Grid{
					PerPage:        30,
					ForcedTagIDs:   []int64{154, 154},
					ExcludedTagIDs: []int64{133, 13},
				},
			},
			want: domain.Dashboard{
				FavoriteUsers: []int64{90, 79},
				Grid: domain.GridSettings{
					PerPage:        30,
					ForcedTagIDs:   []int64{154},
					ExcludedTagIDs: []int64{13, 133},
				},
			},
		},
		{
			name:    "per page too large",
			in:      File{Grid: Grid{PerPage: 10_000}},
			wantErr: true,
		},
		{
			name:    "invalid favorite id",
			in:      File{FavoriteUsers: []int64{0}},
			wantErr: true,
		},
		{
			name:    "tag forced and excluded",
			in:      File{Grid: Grid{ForcedTagIDs: []int64{5}, ExcludedTagIDs: []int64{5}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMapper().Map(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Map() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !slices.Equal(got.FavoriteUsers, tt.want.FavoriteUsers) {
				t.Errorf("FavoriteUsers = %v, want %v", got.FavoriteUsers, tt.want.FavoriteUsers)
			}
			if got.Grid.PerPage != tt.want.Grid.PerPage {
				t.Errorf("PerPage = %d, want %d", got.Grid.PerPage, tt.want.Grid.PerPage)
			}
			if !slices.Equal(got.Grid.ForcedTagIDs, tt.want.Grid.ForcedTagIDs) {
				t.Errorf("ForcedTagIDs = %v, want %v", got.Grid.ForcedTagIDs, tt.want.Grid.ForcedTagIDs)
			}
			if !slices.Equal(got.Grid.ExcludedTagIDs, tt.want.Grid.ExcludedTagIDs) {
				t.Errorf("ExcludedTagIDs = %v, want %v", got.Grid.ExcludedTagIDs, tt.want.Grid.ExcludedTagIDs)
			}
		})
	}
}
