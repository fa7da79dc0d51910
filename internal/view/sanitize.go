package view

import (
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	captionPolicyOnce sync.Once
	captionPolicy     *bluemonday.Policy
)

// captionSanitizer allows basic text formatting and links, nothing else.
func captionSanitizer() *bluemonday.Policy {
	captionPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "br", "b", "i", "u", "s", "strong", "em")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		captionPolicy = p
	})
	return captionPolicy
}

// SanitizeCaption returns upstream caption HTML safe to embed as-is.
func SanitizeCaption(raw string) template.HTML {
	if raw == "" {
		return ""
	}
	return template.HTML(captionSanitizer().Sanitize(raw))
}
