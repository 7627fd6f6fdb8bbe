package knowledge

import (
	"sort"
	"strings"

	"pm-assistant/internal/confluence"
)

const (
	titleWeight   = 10
	contentWeight = 1
	minTokenLen   = 3
)

// SearchResult is a page record with its relevance score for one query.
type SearchResult struct {
	Page  confluence.PageRecord
	Score int
}

// Search scores indexed pages against the query terms and returns the matches ranked by
// descending score. When scopeID is set only that page and its recorded descendants are
// searched. Pages with equal scores keep their index order.
func Search(store *Store, query, scopeID string) []SearchResult {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var candidates []confluence.PageRecord
	if scopeID != "" {
		if root, ok := store.Get(scopeID); ok {
			candidates = append(candidates, root)
		}
		for _, id := range store.Descendants(scopeID) {
			if rec, ok := store.Get(id); ok {
				candidates = append(candidates, rec)
			}
		}
	} else {
		candidates = store.All()
	}

	var results []SearchResult
	for _, page := range candidates {
		if score := scorePage(page, terms); score > 0 {
			results = append(results, SearchResult{Page: page, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// queryTerms splits a query on whitespace, lowercases it and drops terms of two characters or less.
func queryTerms(query string) []string {
	var terms []string
	for _, field := range strings.Fields(strings.ToLower(query)) {
		if len([]rune(field)) >= minTokenLen {
			terms = append(terms, field)
		}
	}
	return terms
}

func scorePage(page confluence.PageRecord, terms []string) int {
	title := strings.ToLower(page.Title)
	content := strings.ToLower(page.Content)

	score := 0
	for _, term := range terms {
		score += titleWeight*strings.Count(title, term) + contentWeight*strings.Count(content, term)
	}
	return score
}
