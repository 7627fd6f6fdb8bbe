package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pm-assistant/internal/contextutil"
)

const (
	pageExpand      = "body.storage,ancestors,children.page,space,version"
	childExpand     = "body.storage,ancestors,space,version"
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 50
	maxErrorBody    = 4 << 10
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	Username string
	APIToken string
	// Timeout bounds every single upstream request. Zero means 30s.
	Timeout time.Duration
	// PageLimit is the page size used when listing children. Zero means 50.
	PageLimit int
}

// Client is a client for the Confluence REST API.
type Client struct {
	BaseURL   string
	username  string
	apiToken  string
	timeout   time.Duration
	pageLimit int
	client    *http.Client
}

// NewClient creates a new Confluence client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pageLimit := opts.PageLimit
	if pageLimit <= 0 {
		pageLimit = defaultPageSize
	}
	return &Client{
		BaseURL:   strings.TrimRight(opts.BaseURL, "/"),
		username:  opts.Username,
		apiToken:  opts.APIToken,
		timeout:   timeout,
		pageLimit: pageLimit,
		client:    http.DefaultClient,
	}
}

// Configured reports whether the client has a base URL and credentials.
func (c *Client) Configured() bool {
	return c.BaseURL != "" && c.username != "" && c.apiToken != ""
}

// PageURL returns the canonical viewer link of a page.
func (c *Client) PageURL(id string) string {
	return PageURL(c.BaseURL, id)
}

// Ping checks that the API is reachable and the credentials are accepted.
func (c *Client) Ping(ctx context.Context) error {
	var spaces struct {
		Size int `json:"size"`
	}
	return c.get(ctx, "/rest/api/space", url.Values{"limit": {"1"}}, &spaces)
}

// GetByID retrieves a single page with its body, ancestors, children, space and version.
func (c *Client) GetByID(ctx context.Context, id string) (*Page, error) {
	var page Page
	if err := c.get(ctx, "/rest/api/content/"+url.PathEscape(id), url.Values{"expand": {pageExpand}}, &page); err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", id, err)
	}
	return &page, nil
}

// GetByTitle looks a page up by space key and exact title.
// It returns nil and no error when no page matches.
func (c *Client) GetByTitle(ctx context.Context, spaceKey, title string) (*Page, error) {
	query := url.Values{
		"spaceKey": {spaceKey},
		"title":    {title},
		"type":     {"page"},
		"expand":   {pageExpand},
	}
	var list PageList
	if err := c.get(ctx, "/rest/api/content", query, &list); err != nil {
		return nil, fmt.Errorf("failed to find page %q in space %s: %w", title, spaceKey, err)
	}
	if len(list.Results) == 0 {
		return nil, nil
	}
	return &list.Results[0], nil
}

// GetChildren lists the direct child pages of a page, following pagination.
func (c *Client) GetChildren(ctx context.Context, id string) ([]Page, error) {
	path := "/rest/api/content/" + url.PathEscape(id) + "/child/page"
	query := url.Values{
		"limit":  {strconv.Itoa(c.pageLimit)},
		"expand": {childExpand},
	}

	var children []Page
	for {
		var list PageList
		if err := c.get(ctx, path, query, &list); err != nil {
			return children, fmt.Errorf("failed to list children of %s: %w", id, err)
		}
		children = append(children, list.Results...)

		if list.Links.Next == "" || len(list.Results) == 0 {
			return children, nil
		}
		next, err := url.Parse(list.Links.Next)
		if err != nil {
			return children, fmt.Errorf("invalid pagination link %q: %w", list.Links.Next, err)
		}
		path = c.relativePath(next.Path)
		query = next.Query()
	}
}

// relativePath strips the base URL's context path (e.g. "/wiki") from a pagination link.
func (c *Client) relativePath(p string) string {
	base, err := url.Parse(c.BaseURL)
	if err != nil || base.Path == "" {
		return p
	}
	if strings.HasPrefix(p, base.Path+"/") {
		return strings.TrimPrefix(p, base.Path)
	}
	return p
}

// get performs an authenticated GET against the API and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	logger := contextutil.LoggerFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	logger.DebugContext(ctx, "confluence request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// PageURL builds the viewer link for a page id under baseURL.
func PageURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/pages/viewpage.action?pageId=" + url.QueryEscape(id)
}
