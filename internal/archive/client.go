// Package archive is the typed view of the archive backend's find endpoints.
package archive

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/network"
	"github.com/MrSnakeDoc/curator/internal/query"
)

// Thumbnail sizes requested from the backend.
const (
	GridThumbSize    = 512
	PreviewThumbSize = 256
	LargeSize        = 1536
)

type Client struct {
	net       *network.Client
	apiBase   string
	source    string
	mediaBase string
}

// New binds a network client to one source of the backend.
// mediaBase is the root used to build browser-facing image URLs.
func New(net *network.Client, apiBase, source, mediaBase string) *Client {
	if mediaBase == "" {
		mediaBase = apiBase
	}
	return &Client{
		net:       net,
		apiBase:   apiBase,
		source:    source,
		mediaBase: mediaBase,
	}
}

func (c *Client) Source() string { return c.source }

func (c *Client) endpoint(path string) string {
	return c.apiBase + "/" + c.source + "/" + path
}

// Thumb builds a resized image URL; an empty path yields "".
func (c *Client) Thumb(path string, size int, crop bool) string {
	return query.SrcByPath(c.mediaBase, c.source, path, size, crop)
}

// Raw builds the original image URL; an empty path yields "".
func (c *Client) Raw(path string) string {
	return query.SrcByPath(c.mediaBase, c.source, path, 0, false)
}

// FindIllusts lists illusts. A nil opts disables the query and returns
// network.ErrNoKey without contacting the backend.
func (c *Client) FindIllusts(ctx context.Context, opts *query.IllustFindOptions, page, perPage int) (domain.Page[domain.Illust], error) {
	if opts == nil {
		return network.Query[domain.Page[domain.Illust]](ctx, c.net, "", nil)
	}
	return network.Query[domain.Page[domain.Illust]](ctx, c.net, c.endpoint("illust/find"), opts.Request(page, perPage))
}

// FindUsers lists uploaders. A nil opts disables the query.
func (c *Client) FindUsers(ctx context.Context, opts *query.UserFindOptions, page, perPage int) (domain.Page[domain.User], error) {
	if opts == nil {
		return network.Query[domain.Page[domain.User]](ctx, c.net, "", nil)
	}
	return network.Query[domain.Page[domain.User]](ctx, c.net, c.endpoint("user/find"), opts.Request(page, perPage))
}

// findTags posts to the tag endpoint, which answers a bare list rather than a page.
func (c *Client) findTags(ctx context.Context, opts query.TagFindOptions, offset, limit int) ([]domain.Tag, error) {
	return network.Query[[]domain.Tag](ctx, c.net, c.endpoint("find/tag"), opts.Request(offset, limit))
}

// SearchTags returns tag suggestions for the typed text.
// An empty search returns nil without a backend call.
func (c *Client) SearchTags(ctx context.Context, search string) ([]domain.Tag, error) {
	if search == "" {
		return nil, nil
	}
	return c.findTags(ctx, query.TagFindOptions{Search: search}, 0, query.TagSuggestLimit)
}

// TagsByIDs resolves tag ids to their aliases.
func (c *Client) TagsByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return c.findTags(ctx, query.TagFindOptions{IDs: ids}, 0, len(ids))
}

// SearchUsers returns uploader suggestions for the typed text.
func (c *Client) SearchUsers(ctx context.Context, search string) ([]domain.User, error) {
	if search == "" {
		return nil, nil
	}
	page, err := c.FindUsers(ctx, &query.UserFindOptions{Search: search}, 1, query.UserSuggestLimit)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// User fetches one uploader by id. domain.ErrNotFound is returned when the
// backend answers with no match.
func (c *Client) User(ctx context.Context, id int64) (domain.User, error) {
	page, err := c.FindUsers(ctx, &query.UserFindOptions{IDs: []int64{id}}, 1, 1)
	if err != nil {
		return domain.User{}, err
	}
	if len(page.Items) == 0 {
		return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return page.Items[0], nil
}

// GeneralUser builds the uploader card: profile plus three preview thumbnails.
func (c *Client) GeneralUser(ctx context.Context, id int64) (domain.GeneralUser, error) {
	u, err := c.User(ctx, id)
	if err != nil {
		return domain.GeneralUser{}, err
	}

	works, err := c.FindIllusts(ctx, &query.IllustFindOptions{ParentIDs: []int64{u.ID}}, 1, 3)
	if err != nil {
		return domain.GeneralUser{}, fmt.Errorf("failed to fetch previews for user %d: %w", id, err)
	}

	return c.ToGeneralUser(u, works.Items), nil
}

// ToGeneralUser maps a fetched uploader and some of their works to a card.
func (c *Client) ToGeneralUser(u domain.User, works []domain.Illust) domain.GeneralUser {
	previews := make([]string, 0, len(works))
	for _, il := range works {
		if src := c.Thumb(domain.FirstImage(il), PreviewThumbSize, true); src != "" {
			previews = append(previews, src)
		}
	}

	return domain.GeneralUser{
		Source:      domain.Source(c.source),
		ID:          u.ID,
		Name:        domain.DisplayName(u),
		AvatarURL:   c.Raw(u.History.Extension.AvatarPath),
		PreviewURLs: previews,
	}
}
