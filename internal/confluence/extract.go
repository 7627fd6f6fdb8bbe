package confluence

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	taskTag       = "ac:task"
	taskStatusTag = "ac:task-status"
	taskBodyTag   = "ac:task-body"
	taskIDTag     = "ac:task-id"

	// Private-use runes delimit checklist placeholders so whitespace collapsing leaves them intact.
	markerOpen  = "\uE000"
	markerClose = "\uE001"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	markerPattern = regexp.MustCompile(markerOpen + `(\d+)` + markerClose)

	// Marker runes already present in a page would be read back as placeholders.
	markerStripper = strings.NewReplacer(markerOpen, "", markerClose, "")
)

// blockTags are elements whose boundaries separate words when the tree is flattened.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "tr": true, "td": true, "th": true, "thead": true, "tbody": true,
	"blockquote": true, "pre": true, "section": true, "article": true,
	"ac:task-list": true, "ac:layout-section": true, "ac:layout-cell": true,
}

// ExtractContent converts a storage-format page body into normalized plain text.
// Task items become "- [x] body" / "- [ ] body" lines in document order, with a
// nested task on its own line after its parent. Script and style content is dropped
// and every other whitespace run collapses to one space.
// When the body cannot be parsed the raw body is returned.
func ExtractContent(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	body = markerStripper.Replace(body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script, style").Remove()

	// Lines are rendered from the intact tree before any task is replaced.
	var checklist []string
	var groups []taskGroup
	filterTag(doc.Selection.Find("*"), taskTag).Each(func(_ int, task *goquery.Selection) {
		idx := len(checklist)
		checklist = append(checklist, checklistLine(task))
		if len(groups) > 0 && filterTag(task.Parents(), taskTag).Length() > 0 {
			groups[len(groups)-1].last = idx
			return
		}
		groups = append(groups, taskGroup{task: task, first: idx, last: idx})
	})
	for _, g := range groups {
		var markers strings.Builder
		for i := g.first; i <= g.last; i++ {
			markers.WriteString(" " + markerOpen + strconv.Itoa(i) + markerClose + " ")
		}
		g.task.ReplaceWithHtml(markers.String())
	}

	text := collapse(flatten(doc.Selection))
	if len(checklist) == 0 {
		return text
	}

	text = markerPattern.ReplaceAllStringFunc(text, func(m string) string {
		idx, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(m, markerOpen), markerClose))
		if err != nil || idx >= len(checklist) {
			return ""
		}
		return "\n" + checklist[idx] + "\n"
	})

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// taskGroup is a top-level task and the checklist indices of itself and its nested tasks.
// Nested tasks follow their parent in document order, so the indices are contiguous.
type taskGroup struct {
	task        *goquery.Selection
	first, last int
}

// checklistLine renders one task element as a markdown checklist line. Only the
// task's own body counts; nested tasks render their own lines.
func checklistLine(task *goquery.Selection) string {
	box := "[ ]"
	if taskChecked(task) {
		box = "[x]"
	}

	content := filterTag(task.Children(), taskBodyTag).First()
	if content.Length() > 0 {
		content = content.Clone()
	} else {
		content = task.Clone()
	}
	stripTaskMarkup(content)
	return strings.TrimSpace("- " + box + " " + collapse(flatten(content)))
}

// stripTaskMarkup removes nested task lists along with task ids and statuses.
func stripTaskMarkup(sel *goquery.Selection) {
	sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		switch goquery.NodeName(s) {
		case "ac:task-list", taskTag, taskIDTag, taskStatusTag:
			return true
		}
		return false
	}).Remove()
}

func taskChecked(task *goquery.Selection) bool {
	status := strings.TrimSpace(filterTag(task.Children(), taskStatusTag).First().Text())
	if status == "" {
		if v, ok := task.Attr("status"); ok {
			status = v
		} else if v, ok := task.Attr("data-status"); ok {
			status = v
		}
	}
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "complete", "completed", "checked", "done":
		return true
	}
	return false
}

func filterTag(sel *goquery.Selection, tag string) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == tag
	})
}

// flatten concatenates the text of a selection, separating block-level elements by spaces.
func flatten(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if blockTags[n.Data] {
				b.WriteByte(' ')
				defer b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// ExtractRecord maps an API page to its indexable record. It is a pure function of
// its inputs, so applying it to the same page twice yields equal records.
func ExtractRecord(page Page, baseURL string) PageRecord {
	rec := PageRecord{
		ID:    page.ID,
		Title: page.Title,
		URL:   PageURL(baseURL, page.ID),
	}
	if page.Space != nil {
		rec.SpaceKey = page.Space.Key
		rec.SpaceName = page.Space.Name
	}
	if page.Body != nil && page.Body.Storage != nil {
		rec.Content = ExtractContent(page.Body.Storage.Value)
	}
	if page.Version != nil {
		rec.LastModified = parseTimestamp(page.Version.When)
		if page.Version.By != nil {
			rec.Author = page.Version.By.DisplayName
		}
	}
	if len(page.Ancestors) > 0 {
		rec.Ancestors = make([]Ancestor, len(page.Ancestors))
		copy(rec.Ancestors, page.Ancestors)
	}
	return rec
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
}

// parseTimestamp returns the zero time when the value is missing or unparsable.
func parseTimestamp(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
