package knowledge

import (
	"regexp"
	"strings"

	"pm-assistant/internal/confluence"
)

// Kind tags the knowledge-base action a query asks for.
type Kind string

const (
	KindRefresh         Kind = "refresh"
	KindStatus          Kind = "status"
	KindKnowledgeSearch Kind = "knowledge_search"
	KindSearch          Kind = "search"
	KindQuestion        Kind = "question"
	KindIndexRequest    Kind = "index_request"
	KindIndexURL        Kind = "index_url"
)

// Intent is the result of classifying a query. URL is set only for KindIndexURL.
type Intent struct {
	Kind Kind
	URL  string
}

// Rule is one classification step. Match receives the lowercased query alongside the
// original and whether the index currently holds any pages.
type Rule struct {
	Name  string
	Match func(original, lower string, indexed bool) (Intent, bool)
}

var (
	refreshVerb   = regexp.MustCompile(`\b(refresh|reload|re-?index|re-?sync|rebuild)\b`)
	contentNoun   = regexp.MustCompile(`\b(confluence|docs|documentation|knowledge|pages?)\b`)
	statusNoun    = regexp.MustCompile(`\b(status|info|information|stats|statistics)\b`)
	indexedNoun   = regexp.MustCompile(`\b(pages|indexed|index|knowledge base|confluence)\b`)
	knowledgeWord = regexp.MustCompile(`\b(what|how|when|where|why|who|which|explain|describe|find|search|guide|process|procedure|policy|policies|documentation|docs|tell me about|show me)\b`)
	excludedTerm  = regexp.MustCompile(`\b(jira|tasks?|issues?|tickets?|bugs?|story|stories|epics?|sprints?|bitbucket|repos?|repository|repositories|commits?|branch(es)?|pull requests?|prs?)\b|\b[a-z][a-z0-9]+-\d+\b`)
	searchPhrase  = regexp.MustCompile(`\b(search|find|look for|look up)\b.+\b(in|on|across|from)\s+(the\s+)?(confluence|wiki|docs|documentation)\b`)
	docNoun       = regexp.MustCompile(`\b(confluence|wiki|docs|documentation|knowledge base)\b`)
	questionWord  = regexp.MustCompile(`\b(what|how|when|where|why|who|which)\b`)
	indexVerb     = regexp.MustCompile(`\b(index|add|include)\b.*\b(confluence|wiki|page)\b`)
)

// Rules returns the classification steps in priority order. The first matching rule wins:
// a viewer URL beats every command, refresh and status commands beat the broad knowledge
// catch-all, and issue-tracker or source-control terms keep other integrations' queries out.
func Rules() []Rule {
	return []Rule{
		{Name: "index_url", Match: func(original, _ string, _ bool) (Intent, bool) {
			if u, ok := confluence.FindViewerURL(original); ok {
				return Intent{Kind: KindIndexURL, URL: u}, true
			}
			return Intent{}, false
		}},
		{Name: "refresh", Match: func(_, lower string, _ bool) (Intent, bool) {
			return Intent{Kind: KindRefresh}, refreshVerb.MatchString(lower) && contentNoun.MatchString(lower)
		}},
		{Name: "status", Match: func(_, lower string, _ bool) (Intent, bool) {
			return Intent{Kind: KindStatus}, statusNoun.MatchString(lower) && indexedNoun.MatchString(lower)
		}},
		{Name: "knowledge_search", Match: func(_, lower string, indexed bool) (Intent, bool) {
			ok := indexed && knowledgeWord.MatchString(lower) && !excludedTerm.MatchString(lower)
			return Intent{Kind: KindKnowledgeSearch}, ok
		}},
		{Name: "search", Match: func(_, lower string, _ bool) (Intent, bool) {
			return Intent{Kind: KindSearch}, searchPhrase.MatchString(lower)
		}},
		{Name: "question", Match: func(_, lower string, _ bool) (Intent, bool) {
			return Intent{Kind: KindQuestion}, docNoun.MatchString(lower) && questionWord.MatchString(lower)
		}},
		{Name: "index_request", Match: func(_, lower string, _ bool) (Intent, bool) {
			return Intent{Kind: KindIndexRequest}, indexVerb.MatchString(lower)
		}},
	}
}

// Classifier maps free-text queries to intents.
type Classifier struct {
	store *Store
	rules []Rule
}

// NewClassifier creates a classifier that consults store for the knowledge-search rule.
func NewClassifier(store *Store) *Classifier {
	return &Classifier{store: store, rules: Rules()}
}

// Classify returns the intent of query, or false when it is not a knowledge-base query.
func (c *Classifier) Classify(query string) (Intent, bool) {
	lower := strings.ToLower(query)
	indexed := c.store != nil && c.store.Size() > 0
	for _, rule := range c.rules {
		if intent, ok := rule.Match(query, lower, indexed); ok {
			return intent, true
		}
	}
	return Intent{}, false
}
