// Package view turns fetched archive data and curation state into the
// plain values the HTML templates render.
package view

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/query"
)

// Query parameter names understood by the gallery and user pages.
const (
	ParamTags        = "tags"
	ParamUsers       = "users"
	ParamSearch      = "search"
	ParamBookmarkMin = "bookmark_min"
	ParamBookmarkMax = "bookmark_max"
	ParamRating      = "rating"
	ParamPage        = "page"
	ParamItem        = "item"
)

// FilterError is a malformed query parameter.
type FilterError struct {
	Param string
	Value string
	Msg   string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Msg)
}

// Filter is the gallery state carried in the URL.
type Filter struct {
	TagIDs      []int64
	UserIDs     []int64
	Search      string
	BookmarkMin *int64
	BookmarkMax *int64
	Rating      *int // client-side filter on stored ratings
	Page        int  // 1-based
	Item        *int64
}

// ParseFilter reads a Filter from URL query values.
func ParseFilter(v url.Values) (Filter, error) {
	f := Filter{Page: 1, Search: strings.TrimSpace(v.Get(ParamSearch))}
	var err error

	if f.TagIDs, err = parseIDList(v, ParamTags); err != nil {
		return Filter{}, err
	}
	if f.UserIDs, err = parseIDList(v, ParamUsers); err != nil {
		return Filter{}, err
	}
	if f.BookmarkMin, err = parseOptionalInt(v, ParamBookmarkMin); err != nil {
		return Filter{}, err
	}
	if f.BookmarkMax, err = parseOptionalInt(v, ParamBookmarkMax); err != nil {
		return Filter{}, err
	}
	if f.BookmarkMin != nil && f.BookmarkMax != nil && *f.BookmarkMin > *f.BookmarkMax {
		return Filter{}, &FilterError{
			Param: ParamBookmarkMax,
			Value: v.Get(ParamBookmarkMax),
			Msg:   "must not be lower than " + ParamBookmarkMin,
		}
	}
	if f.Item, err = parseOptionalInt(v, ParamItem); err != nil {
		return Filter{}, err
	}

	if raw := v.Get(ParamRating); raw != "" {
		r, convErr := strconv.Atoi(raw)
		if convErr != nil || r < 1 || r > 5 {
			return Filter{}, &FilterError{Param: ParamRating, Value: raw, Msg: "must be between 1 and 5"}
		}
		f.Rating = &r
	}

	if raw := v.Get(ParamPage); raw != "" {
		p, convErr := strconv.Atoi(raw)
		if convErr != nil || p < 1 {
			return Filter{}, &FilterError{Param: ParamPage, Value: raw, Msg: "must be a positive integer"}
		}
		f.Page = p
	}

	return f, nil
}

func parseIDList(v url.Values, param string) ([]int64, error) {
	var ids []int64
	for _, raw := range v[param] {
		for part := range strings.SplitSeq(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, &FilterError{Param: param, Value: part, Msg: "not a valid id"}
			}
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func parseOptionalInt(v url.Values, param string) (*int64, error) {
	raw := strings.TrimSpace(v.Get(param))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, &FilterError{Param: param, Value: raw, Msg: "must be a non-negative integer"}
	}
	return &n, nil
}

// Options builds the backend filter. collectionIDs is non-nil when a
// collection is selected; grid adds the configured forced and excluded tags.
func (f Filter) Options(collectionIDs []int64, grid domain.GridSettings) query.IllustFindOptions {
	opts := query.IllustFindOptions{
		ParentIDs:     slices.Clone(f.UserIDs),
		TagIDsExclude: slices.Clone(grid.ExcludedTagIDs),
		Search:        f.Search,
	}

	if collectionIDs != nil {
		// an empty selected collection must match nothing, so keep a non-nil slice
		opts.IDs = append([]int64{}, collectionIDs...)
	}

	tags := slices.Clone(f.TagIDs)
	for _, id := range grid.ForcedTagIDs {
		if !slices.Contains(tags, id) {
			tags = append(tags, id)
		}
	}
	opts.TagIDs = tags

	if f.BookmarkMin != nil || f.BookmarkMax != nil {
		opts.BookmarkRange = query.Some(query.NewRange(f.BookmarkMin, f.BookmarkMax))
	}

	return opts
}

// Active reports whether any backend-side filter field is set.
func (f Filter) Active() bool {
	return len(f.TagIDs) > 0 || len(f.UserIDs) > 0 || f.Search != "" ||
		f.BookmarkMin != nil || f.BookmarkMax != nil || f.Rating != nil
}

// Values encodes the filter back to query parameters. Page 1 and unset
// fields are omitted so equal filters produce equal URLs.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if len(f.TagIDs) > 0 {
		v.Set(ParamTags, joinIDs(f.TagIDs))
	}
	if len(f.UserIDs) > 0 {
		v.Set(ParamUsers, joinIDs(f.UserIDs))
	}
	if f.Search != "" {
		v.Set(ParamSearch, f.Search)
	}
	if f.BookmarkMin != nil {
		v.Set(ParamBookmarkMin, strconv.FormatInt(*f.BookmarkMin, 10))
	}
	if f.BookmarkMax != nil {
		v.Set(ParamBookmarkMax, strconv.FormatInt(*f.BookmarkMax, 10))
	}
	if f.Rating != nil {
		v.Set(ParamRating, strconv.Itoa(*f.Rating))
	}
	if f.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(f.Page))
	}
	if f.Item != nil {
		v.Set(ParamItem, strconv.FormatInt(*f.Item, 10))
	}
	return v
}

// URL renders path with the filter's query string.
func (f Filter) URL(path string) string {
	if q := f.Values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

func (f Filter) WithPage(page int) Filter {
	f.Page = page
	f.Item = nil
	return f
}

func (f Filter) WithItem(id *int64) Filter {
	f.Item = id
	return f
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
