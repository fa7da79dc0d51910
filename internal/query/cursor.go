package query

// Default page sizes used by the listing endpoints.
const (
	IllustsPerPage   = 50
	UsersPerPage     = 30
	TagSuggestLimit  = 50
	UserSuggestLimit = 20
)

// Cursor is the limit/offset pair every find endpoint expects.
type Cursor struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ComputeCursor converts a 1-based page number into a cursor.
// Pages below 1 are treated as the first page.
func ComputeCursor(page, perPage int) Cursor {
	if page < 1 {
		page = 1
	}
	return Cursor{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}
}
