package knowledge

import (
	"context"
	"sync/atomic"

	"pm-assistant/internal/contextutil"
)

// SubsystemStatus is a snapshot of the knowledge base for health reporting.
type SubsystemStatus struct {
	Enabled    bool   `json:"enabled"`
	Connected  bool   `json:"connected"`
	Pages      int    `json:"pages"`
	RootPageID string `json:"root_page_id,omitempty"`
}

// Initializer owns the lifecycle of the knowledge base: the startup connectivity check,
// optional auto-indexing, refresh and teardown.
type Initializer struct {
	enabled   bool
	autoIndex bool
	source    PageSource
	store     *Store
	indexer   *Indexer
	connected atomic.Bool
}

// NewInitializer creates an initializer. When enabled is false Init makes no network calls.
func NewInitializer(enabled, autoIndex bool, source PageSource, store *Store, indexer *Indexer) *Initializer {
	return &Initializer{
		enabled:   enabled,
		autoIndex: autoIndex,
		source:    source,
		store:     store,
		indexer:   indexer,
	}
}

// Init checks connectivity and, when auto-indexing is on, indexes the configured root page.
// Failures are logged and leave the subsystem usable.
func (i *Initializer) Init(ctx context.Context) {
	logger := contextutil.LoggerFromContext(ctx)

	if !i.enabled {
		logger.InfoContext(ctx, "confluence integration disabled: base URL or credentials not configured")
		return
	}

	if err := i.source.Ping(ctx); err != nil {
		logger.ErrorContext(ctx, "confluence connectivity check failed", "error", err)
		return
	}
	i.connected.Store(true)
	logger.InfoContext(ctx, "connected to confluence")

	root := i.indexer.RootPageID()
	if !i.autoIndex || root == "" {
		logger.InfoContext(ctx, "confluence auto-index skipped", "auto_index", i.autoIndex, "root_page_id", root)
		return
	}

	// Refresh builds into a staging store and shares a run with any concurrent refresh.
	summary, err := i.indexer.Refresh(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "confluence auto-index failed", "root_page_id", root, "error", err)
		return
	}
	logger.InfoContext(ctx, "confluence auto-index complete", "root_page_id", root, "pages", summary.Total())
}

// Refresh rebuilds the index from the configured root page.
func (i *Initializer) Refresh(ctx context.Context) (IndexSummary, error) {
	return i.indexer.Refresh(ctx)
}

// Teardown empties the index.
func (i *Initializer) Teardown() {
	i.store.Clear()
	i.connected.Store(false)
}

// Status reports whether the subsystem is enabled and reachable and how many pages it holds.
func (i *Initializer) Status() SubsystemStatus {
	return SubsystemStatus{
		Enabled:    i.enabled,
		Connected:  i.connected.Load(),
		Pages:      i.store.Size(),
		RootPageID: i.indexer.RootPageID(),
	}
}
