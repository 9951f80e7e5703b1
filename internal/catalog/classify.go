package catalog

import "strings"

// File type labels assigned to URL materials.
const (
	FileTypeGoogleSlides = "Google Slides"
	FileTypeGoogleDocs   = "Google Docs"
	FileTypeGoogleSheets = "Google Sheets"
	FileTypeYouTube      = "YouTube Video"
	FileTypeWebURL       = "Web URL"
)

type urlRule struct {
	label string
	match func(u string) bool
}

// Evaluated in order; the first match wins.
var urlRules = []urlRule{
	{FileTypeGoogleSlides, func(u string) bool {
		return (strings.Contains(u, "docs.google.com") && strings.Contains(u, "presentation")) ||
			strings.Contains(u, "slides.google.com")
	}},
	{FileTypeGoogleDocs, func(u string) bool {
		return strings.Contains(u, "docs.google.com") && strings.Contains(u, "document")
	}},
	{FileTypeGoogleSheets, func(u string) bool {
		return strings.Contains(u, "docs.google.com") && strings.Contains(u, "spreadsheets")
	}},
	{FileTypeYouTube, func(u string) bool {
		return strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be")
	}},
}

// ClassifyURL labels a material URL by substring checks on the raw string.
func ClassifyURL(rawURL string) string {
	for _, r := range urlRules {
		if r.match(rawURL) {
			return r.label
		}
	}
	return FileTypeWebURL
}
