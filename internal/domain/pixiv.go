package domain

// Source names the upstream a record was ingested from.
type Source string

const SourcePixiv Source = "pixiv"

// WorksExt holds the aggregate counters attached to a work.
type WorksExt struct {
	TotalBookmarks int  `json:"total_bookmarks"`
	TotalView      int  `json:"total_view"`
	IsBookmarked   bool `json:"is_bookmarked"`
}

// IllustHistory is the descriptive snapshot of an illustration.
type IllustHistory struct {
	IllustType  string   `json:"illust_type"`
	CaptionHTML string   `json:"caption_html"`
	Title       string   `json:"title"`
	Date        string   `json:"date,omitempty"`
	ImagePaths  []string `json:"image_paths,omitempty"`
}

// UserExt holds follow state and aggregate counts of an uploader.
type UserExt struct {
	IsFollowed           bool `json:"is_followed"`
	TotalFollowing       *int `json:"total_following,omitempty"`
	TotalIllustSeries    *int `json:"total_illust_series,omitempty"`
	TotalIllusts         *int `json:"total_illusts,omitempty"`
	TotalManga           *int `json:"total_manga,omitempty"`
	TotalNovelSeries     *int `json:"total_novel_series,omitempty"`
	TotalNovels          *int `json:"total_novels,omitempty"`
	TotalPublicBookmarks *int `json:"total_public_bookmarks,omitempty"`
}

// UserHistory is the descriptive snapshot of an uploader profile.
type UserHistory struct {
	Name      string `json:"name"`
	Account   string `json:"account"`
	IsPremium bool   `json:"is_premium"`

	Birth          string            `json:"birth,omitempty"`
	Region         string            `json:"region,omitempty"`
	Gender         string            `json:"gender,omitempty"`
	Comment        string            `json:"comment,omitempty"`
	TwitterAccount string            `json:"twitter_account,omitempty"`
	WebPage        string            `json:"web_page,omitempty"`
	Workspace      map[string]string `json:"workspace,omitempty"`
	BackgroundPath string            `json:"background_path,omitempty"`
	AvatarPath     string            `json:"avatar_path,omitempty"`
}

type (
	Illust = Item[WorksExt, IllustHistory]
	User   = Item[UserExt, UserHistory]
)

// ImageCount returns the number of pages an illustration has.
func ImageCount(il Illust) int {
	return len(il.History.Extension.ImagePaths)
}

// FirstImage returns the path of the cover page, or "" when the work has none.
func FirstImage(il Illust) string {
	if paths := il.History.Extension.ImagePaths; len(paths) > 0 {
		return paths[0]
	}
	return ""
}

// DisplayName falls back to the upstream id when no profile snapshot exists.
func DisplayName(u User) string {
	if name := u.History.Extension.Name; name != "" {
		return name
	}
	return u.SourceID
}
