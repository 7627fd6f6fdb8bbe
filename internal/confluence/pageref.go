package confluence

import (
	"net/url"
	"regexp"
	"strings"
)

// PageRef identifies a page either by ID or by space key and title.
type PageRef struct {
	ID       string
	SpaceKey string
	Title    string
}

// HasID reports whether the reference carries a page ID.
func (r PageRef) HasID() bool {
	return r.ID != ""
}

var (
	viewerURLPattern = regexp.MustCompile(`https?://[^\s<>"']+?/(?:pages/viewpage\.action\?[^\s<>"']*pageId=\d+|display/[^\s/<>"']+/[^\s<>"']+|spaces/[^\s/<>"']+/pages/\d+[^\s<>"']*)`)
	numericID        = regexp.MustCompile(`^\d+$`)
)

// FindViewerURL returns the first page-viewer URL contained in text.
func FindViewerURL(text string) (string, bool) {
	match := viewerURLPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.TrimRight(match, ".,;:!?)]}"), true
}

// ParsePageURL extracts a page reference from a page-viewer URL. It recognises
// ".../pages/viewpage.action?pageId=<id>", ".../display/<SPACE>/<Title>" and
// ".../spaces/<SPACE>/pages/<id>/<title>". Other shapes return ok=false.
func ParsePageURL(raw string) (PageRef, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return PageRef{}, false
	}

	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")

	if len(segments) > 0 && segments[len(segments)-1] == "viewpage.action" {
		if id := u.Query().Get("pageId"); numericID.MatchString(id) {
			return PageRef{ID: id}, true
		}
		return PageRef{}, false
	}

	for i, seg := range segments {
		switch seg {
		case "display":
			if i+2 >= len(segments) {
				return PageRef{}, false
			}
			space, err := url.PathUnescape(segments[i+1])
			if err != nil || space == "" {
				return PageRef{}, false
			}
			title, err := url.QueryUnescape(strings.Join(segments[i+2:], "/"))
			if err != nil || strings.TrimSpace(title) == "" {
				return PageRef{}, false
			}
			return PageRef{SpaceKey: space, Title: title}, true
		case "pages":
			if i >= 2 && segments[i-2] == "spaces" && i+1 < len(segments) && numericID.MatchString(segments[i+1]) {
				return PageRef{ID: segments[i+1]}, true
			}
		}
	}
	return PageRef{}, false
}
