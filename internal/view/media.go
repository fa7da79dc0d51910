package view

// Media builds browser-facing image URLs from stored paths.
type Media interface {
	Thumb(path string, size int, crop bool) string
	Raw(path string) string
}

// Sizes requested from the thumbnail endpoint.
const (
	GridThumbSize = 512
	LargeSize     = 1536
)
