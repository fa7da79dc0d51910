package domain

// GeneralUser is the source-agnostic uploader summary shown in the viewer
// and on the dashboard.
type GeneralUser struct {
	Source      Source   `json:"source"`
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	PreviewURLs []string `json:"previewUrls,omitempty"`
}

// Initial is the avatar fallback letter.
func (u GeneralUser) Initial() string {
	for _, r := range u.Name {
		return string(r)
	}
	return "?"
}
