package query

// Range is an inclusive [min, max] bound; a nil end is open.
type Range [2]*int64

// NewRange builds a range, leaving nil ends open.
func NewRange(lo, hi *int64) Range { return Range{lo, hi} }

// IllustFindOptions are the filter fields of the illust find endpoint.
// Absent fields are omitted from the body entirely.
type IllustFindOptions struct {
	IDs           []int64      `json:"ids,omitzero"`
	ParentIDs     []int64      `json:"parent_ids,omitzero"`
	TagIDs        []int64      `json:"tag_ids,omitzero"`
	TagIDsExclude []int64      `json:"tag_ids_exclude,omitzero"`
	Search        string       `json:"search,omitzero"`
	BookmarkRange Field[Range] `json:"bookmark_range,omitzero"`
}

// IllustFindRequest is the full body sent to {base}/illust/find.
type IllustFindRequest struct {
	IllustFindOptions
	Cursor
}

// Request merges the options with the cursor for page.
func (o IllustFindOptions) Request(page, perPage int) IllustFindRequest {
	return IllustFindRequest{
		IllustFindOptions: o,
		Cursor:            ComputeCursor(page, perPage),
	}
}

// UserFindOptions are the filter fields of the user find endpoint.
type UserFindOptions struct {
	IDs    []int64 `json:"ids,omitzero"`
	Search string  `json:"search,omitzero"`
}

type UserFindRequest struct {
	UserFindOptions
	Cursor
}

func (o UserFindOptions) Request(page, perPage int) UserFindRequest {
	return UserFindRequest{
		UserFindOptions: o,
		Cursor:          ComputeCursor(page, perPage),
	}
}

// TagFindOptions are the filter fields of the tag find endpoint.
type TagFindOptions struct {
	IDs    []int64 `json:"ids,omitzero"`
	Search string  `json:"search,omitzero"`
}

type TagFindRequest struct {
	TagFindOptions
	Cursor
}

// Request takes a raw offset and limit, since tag lookups are not paged.
func (o TagFindOptions) Request(offset, limit int) TagFindRequest {
	return TagFindRequest{
		TagFindOptions: o,
		Cursor:         Cursor{Limit: limit, Offset: offset},
	}
}
