package catalog

import "testing"

func TestClassifyURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://docs.google.com/presentation/d/abc/edit", FileTypeGoogleSlides},
		{"https://slides.google.com/anything", FileTypeGoogleSlides},
		{"https://docs.google.com/document/d/abc", FileTypeGoogleDocs},
		{"https://docs.google.com/spreadsheets/d/abc", FileTypeGoogleSheets},
		{"https://www.youtube.com/watch?v=abc", FileTypeYouTube},
		{"https://youtu.be/abc", FileTypeYouTube},
		{"https://example.com/lesson.pdf", FileTypeWebURL},
		// Docs and Sheets need the docs.google.com host.
		{"https://example.com/document", FileTypeWebURL},
		{"https://example.com/spreadsheets", FileTypeWebURL},
		// Earlier rules win.
		{"https://docs.google.com/presentation/document", FileTypeGoogleSlides},
		{"https://docs.google.com/document?ref=youtube.com", FileTypeGoogleDocs},
	}
	for _, tc := range cases {
		if got := ClassifyURL(tc.url); got != tc.want {
			t.Errorf("ClassifyURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	valid := []string{"https://example.com", "http://a.b/c?d=e", "ftp://host/file"}
	invalid := []string{"", "example.com", "/relative/path", "https://", "::bad", "not a url"}
	for _, u := range valid {
		if err := validateFileURL(u); err != nil {
			t.Errorf("validateFileURL(%q) = %v, want nil", u, err)
		}
	}
	for _, u := range invalid {
		if err := validateFileURL(u); err == nil {
			t.Errorf("validateFileURL(%q) = nil, want error", u)
		}
	}
}
