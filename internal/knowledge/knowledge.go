// Package knowledge indexes Confluence page trees in memory and answers chat queries
// from them.
package knowledge

import "time"

// Options configures a Base.
type Options struct {
	// Enabled is false when Confluence is not configured; the base then stays empty.
	Enabled    bool
	AutoIndex  bool
	BaseURL    string
	RootPageID string
	MaxDepth   int
	Pacing     time.Duration
}

// Base wires the store, indexer, query handler and initializer around one page source.
type Base struct {
	Store       *Store
	Indexer     *Indexer
	Handler     *Handler
	Initializer *Initializer
}

// New builds a knowledge base. completer may be nil.
func New(source PageSource, completer CompletionProvider, opts Options) *Base {
	store := NewStore()
	indexer := NewIndexer(source, store, IndexerOptions{
		BaseURL:    opts.BaseURL,
		RootPageID: opts.RootPageID,
		MaxDepth:   opts.MaxDepth,
		Pacing:     opts.Pacing,
	})
	return &Base{
		Store:       store,
		Indexer:     indexer,
		Handler:     NewHandler(store, indexer, completer),
		Initializer: NewInitializer(opts.Enabled, opts.AutoIndex, source, store, indexer),
	}
}
