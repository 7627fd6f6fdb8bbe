package confluence

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "empty body",
			body: "",
			want: "",
		},
		{
			name: "whitespace only",
			body: "  \n\t ",
			want: "",
		},
		{
			name: "paragraphs collapse to single spaces",
			body: "<p>Hello\n\n   world</p><p>Second   paragraph</p>",
			want: "Hello world Second paragraph",
		},
		{
			name: "script and style removed",
			body: "<style>.x{color:red}</style><p>Visible</p><script>alert('x')</script>",
			want: "Visible",
		},
		{
			name: "entities decoded",
			body: "<p>Fish &amp; Chips</p>",
			want: "Fish & Chips",
		},
		{
			name: "task list becomes checklist lines",
			body: `<p>Release steps</p>` +
				`<ac:task-list>` +
				`<ac:task><ac:task-id>1</ac:task-id><ac:task-status>complete</ac:task-status><ac:task-body>Tag the build</ac:task-body></ac:task>` +
				`<ac:task><ac:task-id>2</ac:task-id><ac:task-status>incomplete</ac:task-status><ac:task-body>Announce   in <strong>channel</strong></ac:task-body></ac:task>` +
				`</ac:task-list>` +
				`<p>Done.</p>`,
			want: "Release steps\n- [x] Tag the build\n- [ ] Announce in channel\nDone.",
		},
		{
			name: "status attribute",
			body: `<ac:task status="checked"><ac:task-body>Attribute checked</ac:task-body></ac:task>` +
				`<ac:task status="unchecked"><ac:task-body>Attribute open</ac:task-body></ac:task>`,
			want: "- [x] Attribute checked\n- [ ] Attribute open",
		},
		{
			name: "nested task gets its own line",
			body: `<ac:task-list><ac:task><ac:task-id>1</ac:task-id><ac:task-status>complete</ac:task-status>` +
				`<ac:task-body>outer<ac:task-list><ac:task><ac:task-id>2</ac:task-id><ac:task-status>incomplete</ac:task-status>` +
				`<ac:task-body>inner</ac:task-body></ac:task></ac:task-list></ac:task-body></ac:task></ac:task-list>`,
			want: "- [x] outer\n- [ ] inner",
		},
		{
			name: "placeholder runes in page text are not checklist slots",
			body: "<p>literal \uE0000\uE001 text</p>" +
				`<ac:task><ac:task-status>complete</ac:task-status><ac:task-body>only task</ac:task-body></ac:task>`,
			want: "literal 0 text\n- [x] only task",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractContent(tt.body)
			if got != tt.want {
				t.Errorf("ExtractContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractContent_ChecklistCountAndOrder(t *testing.T) {
	statuses := []bool{true, false, false, true, true, false, true}

	var b strings.Builder
	b.WriteString("<h1>Checklist</h1><ac:task-list>")
	for i, done := range statuses {
		status := "incomplete"
		if done {
			status = "complete"
		}
		b.WriteString("<ac:task><ac:task-id>")
		b.WriteString(string(rune('a' + i)))
		b.WriteString("</ac:task-id><ac:task-status>")
		b.WriteString(status)
		b.WriteString("</ac:task-status><ac:task-body>item ")
		b.WriteString(string(rune('a' + i)))
		b.WriteString("</ac:task-body></ac:task>")
	}
	b.WriteString("</ac:task-list>")

	got := ExtractContent(b.String())

	var checklist []string
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "- [") {
			checklist = append(checklist, line)
		}
	}
	if len(checklist) != len(statuses) {
		t.Fatalf("ExtractContent() produced %d checklist lines, want %d:\n%s", len(checklist), len(statuses), got)
	}
	for i, done := range statuses {
		box := "- [ ] "
		if done {
			box = "- [x] "
		}
		want := box + "item " + string(rune('a'+i))
		if checklist[i] != want {
			t.Errorf("checklist[%d] = %q, want %q", i, checklist[i], want)
		}
	}
}

func TestExtractContent_NestedChecklistOrder(t *testing.T) {
	task := func(id, status, body, children string) string {
		if children != "" {
			children = "<ac:task-list>" + children + "</ac:task-list>"
		}
		return "<ac:task><ac:task-id>" + id + "</ac:task-id><ac:task-status>" + status +
			"</ac:task-status><ac:task-body>" + body + children + "</ac:task-body></ac:task>"
	}

	body := "<h1>Launch</h1><ac:task-list>" +
		task("1", "complete", "design", task("2", "incomplete", "mockups", task("3", "complete", "icons", ""))+task("4", "complete", "copy", "")) +
		task("5", "incomplete", "ship", "") +
		"</ac:task-list><p>Notes</p>"

	got := ExtractContent(body)
	want := strings.Join([]string{
		"Launch",
		"- [x] design",
		"- [ ] mockups",
		"- [x] icons",
		"- [x] copy",
		"- [ ] ship",
		"Notes",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractContent() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractRecord(t *testing.T) {
	page := Page{
		ID:    "123",
		Title: "Onboarding Guide",
		Space: &Space{Key: "ENG", Name: "Engineering"},
		Body: &Body{Storage: &Storage{
			Value:          "<p>Welcome   aboard</p>",
			Representation: "storage",
		}},
		Version: &Version{
			Number: 7,
			When:   "2024-03-01T10:15:00.000Z",
			By:     &User{DisplayName: "Dana Lee"},
		},
		Ancestors: []Ancestor{{ID: "1", Title: "Home"}, {ID: "2", Title: "Team"}},
	}

	got := ExtractRecord(page, "https://acme.atlassian.net/wiki/")
	want := PageRecord{
		ID:           "123",
		Title:        "Onboarding Guide",
		SpaceKey:     "ENG",
		SpaceName:    "Engineering",
		Content:      "Welcome aboard",
		URL:          "https://acme.atlassian.net/wiki/pages/viewpage.action?pageId=123",
		LastModified: time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC),
		Author:       "Dana Lee",
		Ancestors:    []Ancestor{{ID: "1", Title: "Home"}, {ID: "2", Title: "Team"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractRecord() mismatch (-want +got):\n%s", diff)
	}

	again := ExtractRecord(page, "https://acme.atlassian.net/wiki/")
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("ExtractRecord() not idempotent (-first +second):\n%s", diff)
	}
}

func TestExtractRecord_MissingFields(t *testing.T) {
	got := ExtractRecord(Page{ID: "9", Title: "Bare", Version: &Version{When: "not-a-date"}}, "https://wiki.example.com")

	if got.Content != "" {
		t.Errorf("ExtractRecord() Content = %q, want empty", got.Content)
	}
	if !got.LastModified.IsZero() {
		t.Errorf("ExtractRecord() LastModified = %v, want zero time", got.LastModified)
	}
	if got.SpaceKey != "" || got.SpaceName != "" {
		t.Errorf("ExtractRecord() space = %q/%q, want empty", got.SpaceKey, got.SpaceName)
	}
	if got.URL != "https://wiki.example.com/pages/viewpage.action?pageId=9" {
		t.Errorf("ExtractRecord() URL = %q", got.URL)
	}
}
