package knowledge

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_page_source.go -package=mocks pm-assistant/internal/knowledge PageSource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"pm-assistant/internal/confluence"
	"pm-assistant/internal/contextutil"
)

// ErrNoRootPage is returned by Refresh when no root page is configured.
var ErrNoRootPage = errors.New("no root page configured")

// PageSource is the subset of the Confluence client the indexer needs.
type PageSource interface {
	Ping(ctx context.Context) error
	GetByID(ctx context.Context, id string) (*confluence.Page, error)
	GetByTitle(ctx context.Context, spaceKey, title string) (*confluence.Page, error)
	GetDescendants(ctx context.Context, rootID string, opts confluence.DescendantOptions) (confluence.Descendants, error)
}

// IndexerOptions configures an Indexer.
type IndexerOptions struct {
	// BaseURL is used to build canonical page links.
	BaseURL    string
	RootPageID string
	MaxDepth   int
	Pacing     time.Duration
}

// IndexSummary describes one indexing run.
type IndexSummary struct {
	Root     confluence.PageRecord
	Children []confluence.PageRecord
	Failures []confluence.BranchFailure
}

// Total returns the number of pages written, root included.
func (s IndexSummary) Total() int {
	return 1 + len(s.Children)
}

// Indexer fetches pages from a PageSource and writes their records into the store.
type Indexer struct {
	source PageSource
	store  *Store
	opts   IndexerOptions
	group  singleflight.Group
}

// NewIndexer creates an indexer writing into store.
func NewIndexer(source PageSource, store *Store, opts IndexerOptions) *Indexer {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = confluence.DefaultMaxDepth
	}
	return &Indexer{source: source, store: store, opts: opts}
}

// RootPageID returns the configured root page.
func (ix *Indexer) RootPageID() string {
	return ix.opts.RootPageID
}

// IndexPage fetches a page and its subtree into the live store.
func (ix *Indexer) IndexPage(ctx context.Context, id string) (IndexSummary, error) {
	return ix.indexInto(ctx, ix.store, id)
}

// IndexRef indexes the page a parsed viewer URL points at. A space and title that match
// no page yield an error wrapping confluence.ErrNotFound.
func (ix *Indexer) IndexRef(ctx context.Context, ref confluence.PageRef) (IndexSummary, error) {
	if ref.HasID() {
		return ix.IndexPage(ctx, ref.ID)
	}

	page, err := ix.source.GetByTitle(ctx, ref.SpaceKey, ref.Title)
	if err != nil {
		return IndexSummary{}, fmt.Errorf("failed to look up page %q in space %s: %w", ref.Title, ref.SpaceKey, err)
	}
	if page == nil {
		return IndexSummary{}, fmt.Errorf("page %q in space %s: %w", ref.Title, ref.SpaceKey, confluence.ErrNotFound)
	}
	return ix.IndexPage(ctx, page.ID)
}

// Refresh rebuilds the index from the configured root page. The rebuild goes into a staging
// store which replaces the live one only on success, so queries never see a partial index.
// Concurrent calls share one rebuild.
func (ix *Indexer) Refresh(ctx context.Context) (IndexSummary, error) {
	if ix.opts.RootPageID == "" {
		return IndexSummary{}, ErrNoRootPage
	}

	v, err, shared := ix.group.Do("refresh", func() (any, error) {
		staging := NewStore()
		summary, err := ix.indexInto(ctx, staging, ix.opts.RootPageID)
		if err != nil {
			return IndexSummary{}, err
		}
		ix.store.Replace(staging)
		return summary, nil
	})
	if shared {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "joined in-flight refresh")
	}
	if err != nil {
		return IndexSummary{}, err
	}
	return v.(IndexSummary), nil
}

func (ix *Indexer) indexInto(ctx context.Context, store *Store, id string) (IndexSummary, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	logger.InfoContext(ctx, "indexing page tree", "page_id", id, "max_depth", ix.opts.MaxDepth)

	page, err := ix.source.GetByID(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch page", "page_id", id, "error", err)
		return IndexSummary{}, fmt.Errorf("failed to fetch page %s: %w", id, err)
	}

	root := confluence.ExtractRecord(*page, ix.opts.BaseURL)
	store.Put(root)

	desc, err := ix.source.GetDescendants(ctx, root.ID, confluence.DescendantOptions{
		MaxDepth: ix.opts.MaxDepth,
		Pacing:   ix.opts.Pacing,
	})
	if err != nil {
		return IndexSummary{}, fmt.Errorf("failed to fetch descendants of %s: %w", root.ID, err)
	}

	summary := IndexSummary{Root: root, Failures: desc.Failures}
	for _, child := range desc.Pages {
		rec := confluence.ExtractRecord(child, ix.opts.BaseURL)
		store.Put(rec)
		store.LinkChild(root.ID, rec.ID)
		summary.Children = append(summary.Children, rec)
	}

	for _, f := range desc.Failures {
		logger.WarnContext(ctx, "skipped branch", "page_id", f.PageID, "depth", f.Depth, "error", f.Err)
	}
	logger.InfoContext(ctx, "indexed page tree",
		slog.String("page_id", root.ID),
		slog.String("title", root.Title),
		slog.Int("children", len(summary.Children)),
		slog.Int("failed_branches", len(desc.Failures)),
		slog.Duration("duration", time.Since(start)),
	)
	return summary, nil
}
