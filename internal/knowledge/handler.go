package knowledge

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completion_provider.go -package=mocks pm-assistant/internal/knowledge CompletionProvider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"pm-assistant/internal/confluence"
	"pm-assistant/internal/contextutil"
)

const (
	answerResults  = 3
	searchResults  = 5
	childPreview   = 5
	excerptRunes   = 1500
	snippetBefore  = 100
	snippetAfter   = 200
	lastUpdatedFmt = "2006-01-02 15:04 MST"
)

const systemPrompt = `You are a project documentation assistant. Answer the question using only the Confluence documentation provided in the context. If the documentation does not contain the answer, say so instead of guessing. Cite the titles of the pages you used.`

// CompletionProvider produces a text completion for a system instruction and a user message.
type CompletionProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Handler answers knowledge-base queries. Every path yields a user-facing string.
type Handler struct {
	store      *Store
	classifier *Classifier
	indexer    *Indexer
	completer  CompletionProvider
}

// NewHandler creates a handler. completer may be nil, in which case answers are built
// from page excerpts directly.
func NewHandler(store *Store, indexer *Indexer, completer CompletionProvider) *Handler {
	return &Handler{
		store:      store,
		classifier: NewClassifier(store),
		indexer:    indexer,
		completer:  completer,
	}
}

// Handle classifies query and answers it. handled is false when the query is not meant
// for the knowledge base.
func (h *Handler) Handle(ctx context.Context, query string) (answer string, intent Intent, handled bool) {
	logger := contextutil.LoggerFromContext(ctx)

	intent, ok := h.classifier.Classify(query)
	if !ok {
		return "", Intent{}, false
	}
	logger.InfoContext(ctx, "knowledge query classified", "intent", intent.Kind)

	switch intent.Kind {
	case KindRefresh:
		answer = h.Refresh(ctx)
	case KindStatus:
		answer = h.Status()
	case KindKnowledgeSearch, KindQuestion:
		answer = h.answer(ctx, query)
	case KindSearch:
		answer = h.search(extractSearchTerms(query))
	case KindIndexRequest:
		answer = indexInstructions
	case KindIndexURL:
		answer = h.IndexURL(ctx, intent.URL)
	}
	return answer, intent, true
}

// Refresh rebuilds the index from the configured root page and summarizes the result.
func (h *Handler) Refresh(ctx context.Context) string {
	summary, err := h.indexer.Refresh(ctx)
	if errors.Is(err, ErrNoRootPage) {
		return "I can't refresh the documentation because no root page is configured. Set CONFLUENCE_ROOT_PAGE_ID and try again."
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "refresh failed", "error", err)
		return "I couldn't refresh the Confluence documentation. " + errorMessage(err)
	}

	var b strings.Builder
	b.WriteString("**Confluence documentation refreshed**\n\n")
	fmt.Fprintf(&b, "**Main page:** %s\n", summary.Root.Title)
	fmt.Fprintf(&b, "**Child pages indexed:** %d\n", len(summary.Children))
	fmt.Fprintf(&b, "**Total pages:** %d", summary.Total())
	if n := len(summary.Failures); n > 0 {
		fmt.Fprintf(&b, "\n**Skipped branches:** %d", n)
	}
	return b.String()
}

// Status summarizes what the index currently holds.
func (h *Handler) Status() string {
	pages := h.store.All()
	if len(pages) == 0 {
		return "**Status:** Not initialized\n\nNo Confluence pages are indexed yet. Ask me to refresh the documentation or share a page link to index it."
	}

	spaceSet := make(map[string]struct{})
	var lastUpdated time.Time
	for _, p := range pages {
		name := p.SpaceName
		if name == "" {
			name = p.SpaceKey
		}
		if name != "" {
			spaceSet[name] = struct{}{}
		}
		if p.LastModified.After(lastUpdated) {
			lastUpdated = p.LastModified
		}
	}
	spaces := make([]string, 0, len(spaceSet))
	for name := range spaceSet {
		spaces = append(spaces, name)
	}
	sort.Strings(spaces)

	var b strings.Builder
	b.WriteString("**Confluence knowledge base**\n\n")
	b.WriteString("**Status:** Ready\n")
	fmt.Fprintf(&b, "**Indexed pages:** %d\n", len(pages))
	if len(spaces) > 0 {
		fmt.Fprintf(&b, "**Spaces:** %s\n", strings.Join(spaces, ", "))
	}
	if lastUpdated.IsZero() {
		b.WriteString("**Last updated:** unknown")
	} else {
		fmt.Fprintf(&b, "**Last updated:** %s", lastUpdated.UTC().Format(lastUpdatedFmt))
	}
	return b.String()
}

// IndexURL indexes the page a viewer URL points at together with its subtree.
func (h *Handler) IndexURL(ctx context.Context, rawURL string) string {
	ref, ok := confluence.ParsePageURL(rawURL)
	if !ok {
		return "I couldn't extract a page identifier from that link. Share a link such as " +
			"`.../pages/viewpage.action?pageId=123456` or `.../spaces/KEY/pages/123456/Title`."
	}

	summary, err := h.indexer.IndexRef(ctx, ref)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "index by url failed", "url", rawURL, "error", err)
		return "I couldn't index that page. " + errorMessage(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Indexed:** [%s](%s)\n", summary.Root.Title, summary.Root.URL)
	fmt.Fprintf(&b, "**Child pages indexed:** %d\n", len(summary.Children))
	fmt.Fprintf(&b, "**Total pages in index:** %d", h.store.Size())
	if len(summary.Children) > 0 {
		b.WriteString("\n\n**Child pages:**")
		for i, child := range summary.Children {
			if i == childPreview {
				fmt.Fprintf(&b, "\n- ... and %d more", len(summary.Children)-childPreview)
				break
			}
			fmt.Fprintf(&b, "\n- %s", child.Title)
		}
	}
	return b.String()
}

type groundingPage struct {
	Title   string `json:"title"`
	Space   string `json:"space,omitempty"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

func (h *Handler) answer(ctx context.Context, query string) string {
	logger := contextutil.LoggerFromContext(ctx)

	results := Search(h.store, query, "")
	if len(results) == 0 {
		return noResults(query)
	}
	if len(results) > answerResults {
		results = results[:answerResults]
	}

	grounding := make([]groundingPage, 0, len(results))
	for _, r := range results {
		grounding = append(grounding, groundingPage{
			Title:   r.Page.Title,
			Space:   r.Page.SpaceName,
			URL:     r.Page.URL,
			Content: truncateRunes(r.Page.Content, excerptRunes),
		})
	}

	var answer string
	if h.completer != nil {
		raw, err := json.Marshal(grounding)
		if err == nil {
			user := fmt.Sprintf("Documentation context:\n%s\n\nQuestion: %s", raw, query)
			answer, err = h.completer.Complete(ctx, systemPrompt, user)
		}
		if err != nil {
			logger.WarnContext(ctx, "completion failed, answering from excerpts", "error", err)
			answer = ""
		}
	}
	if strings.TrimSpace(answer) == "" {
		answer = excerptAnswer(grounding)
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(answer))
	b.WriteString("\n\n**Sources:**")
	for _, p := range grounding {
		fmt.Fprintf(&b, "\n- [%s](%s)", p.Title, p.URL)
	}
	return b.String()
}

func excerptAnswer(pages []groundingPage) string {
	var b strings.Builder
	b.WriteString("Here is what I found in the documentation:")
	for _, p := range pages {
		fmt.Fprintf(&b, "\n\n**%s**\n%s\n[View page](%s)", p.Title, p.Content, p.URL)
	}
	return b.String()
}

func (h *Handler) search(terms string) string {
	results := Search(h.store, terms, "")
	if len(results) == 0 {
		return noResults(terms)
	}

	words := queryTerms(terms)
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d result(s) for \"%s\":", len(results), terms)
	for i, r := range results {
		if i == searchResults {
			break
		}
		fmt.Fprintf(&b, "\n\n**%d. %s**", i+1, r.Page.Title)
		if r.Page.SpaceName != "" {
			fmt.Fprintf(&b, "\nSpace: %s", r.Page.SpaceName)
		}
		if snippet := snippet(r.Page.Content, words); snippet != "" {
			fmt.Fprintf(&b, "\n%s", snippet)
		}
		fmt.Fprintf(&b, "\n[View page](%s)", r.Page.URL)
	}
	if n := len(results) - searchResults; n > 0 {
		fmt.Fprintf(&b, "\n\n... and %d more results", n)
	}
	return b.String()
}

func noResults(query string) string {
	return fmt.Sprintf("I couldn't find anything in the indexed documentation matching \"%s\".\n\n"+
		"**Suggestions:**\n"+
		"- Try different or more specific keywords\n"+
		"- Check the index with \"confluence status\"\n"+
		"- Refresh the documentation with \"refresh confluence docs\"", strings.TrimSpace(query))
}

const indexInstructions = "To add a page to the knowledge base, paste its Confluence link in the chat, for example " +
	"`https://your-site.atlassian.net/wiki/spaces/KEY/pages/123456/Page+Title`. " +
	"I'll index that page and its child pages. To rebuild everything from the configured root page, say \"refresh confluence docs\"."

var searchTermsPattern = regexp.MustCompile(`(?i)\b(?:search|find|look\s+for|look\s+up)\s+(?:for\s+)?(.+?)(?:\s+(?:in|on|across|from)\s+(?:the\s+)?(?:confluence|wiki|docs|documentation))?\s*[?.!]*$`)

// extractSearchTerms pulls the search phrase out of "search for X in confluence" style
// queries. The whole query is used when the phrasing is not recognised.
func extractSearchTerms(query string) string {
	if m := searchTermsPattern.FindStringSubmatch(query); m != nil {
		if terms := strings.TrimSpace(m[1]); terms != "" {
			return terms
		}
	}
	return strings.TrimSpace(query)
}

// snippet returns a window of content around the first occurrence of any term.
func snippet(content string, terms []string) string {
	runes := []rune(content)
	lower := strings.ToLower(content)

	pos := -1
	for _, term := range terms {
		if i := strings.Index(lower, term); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}
	if pos < 0 {
		return truncateRunes(content, snippetBefore+snippetAfter)
	}

	center := len([]rune(lower[:pos]))
	start := max(0, center-snippetBefore)
	end := min(len(runes), center+snippetAfter)
	if start >= end {
		return truncateRunes(content, snippetBefore+snippetAfter)
	}

	out := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out += "..."
	}
	return out
}

// truncateRunes shortens s to at most n runes, marking the cut with an ellipsis.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-3])) + "..."
}

// errorMessage turns an upstream failure into a user-facing explanation.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, confluence.ErrNotFound):
		return "The page was not found. Check the link and make sure the configured account has access to it."
	case errors.Is(err, confluence.ErrUnauthorized):
		return "I don't have permission to access that content. Check the Confluence credentials and page restrictions."
	case errors.Is(err, confluence.ErrNotConfigured):
		return "Confluence is not configured."
	default:
		return "There was an error accessing Confluence content. Please try again."
	}
}
