package query

import (
	"net/url"
	"strconv"
	"strings"
)

// SrcByPath builds a browser-facing image URL for a stored media path.
//
// With size > 0 it targets the backend thumbnail endpoint, otherwise the raw
// storage endpoint. An empty path yields "" so templates can skip the <img>.
func SrcByPath(base, source, path string, size int, cropToCenter bool) string {
	if path == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteByte('/')
	b.WriteString(url.PathEscape(source))

	if size > 0 {
		b.WriteString("/thumbnail/")
	} else {
		b.WriteString("/storage/")
	}
	b.WriteString(escapePath(path))

	if size > 0 {
		q := url.Values{}
		q.Set("crop_to_center", strconv.FormatBool(cropToCenter))
		q.Set("size", strconv.Itoa(size))
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}

	return b.String()
}

func escapePath(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
