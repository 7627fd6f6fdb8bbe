package confluence

import "time"

// Page is a content item as returned by the Confluence REST API with the
// body.storage, ancestors, children.page, space and version expansions.
type Page struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Title     string     `json:"title"`
	Space     *Space     `json:"space,omitempty"`
	Body      *Body      `json:"body,omitempty"`
	Version   *Version   `json:"version,omitempty"`
	Ancestors []Ancestor `json:"ancestors,omitempty"`
	Children  *Children  `json:"children,omitempty"`
}

// Space identifies the space a page belongs to.
type Space struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Body holds the page body representations.
type Body struct {
	Storage *Storage `json:"storage,omitempty"`
}

// Storage is the storage-format (XHTML) representation of a page body.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// Version describes the last edit of a page.
type Version struct {
	Number int    `json:"number"`
	When   string `json:"when"`
	By     *User  `json:"by,omitempty"`
}

// User is the author of a version.
type User struct {
	DisplayName string `json:"displayName"`
	AccountID   string `json:"accountId,omitempty"`
}

// Ancestor is a page on the path from the space root to a page.
type Ancestor struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Children holds the expanded child pages of a page.
type Children struct {
	Page *PageList `json:"page,omitempty"`
}

// PageList is a paginated list of pages.
type PageList struct {
	Results []Page `json:"results"`
	Start   int    `json:"start"`
	Limit   int    `json:"limit"`
	Size    int    `json:"size"`
	Links   Links  `json:"_links"`
}

// Links carries pagination links of a list response.
type Links struct {
	Next string `json:"next,omitempty"`
	Base string `json:"base,omitempty"`
}

// PageRecord is the normalized, indexable form of a page.
type PageRecord struct {
	ID           string
	Title        string
	SpaceKey     string
	SpaceName    string
	Content      string
	URL          string
	LastModified time.Time
	Author       string
	Ancestors    []Ancestor
}
