package confluence

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"pm-assistant/internal/contextutil"
)

// DefaultMaxDepth is the descent bound used when DescendantOptions.MaxDepth is not set.
const DefaultMaxDepth = 3

// DescendantOptions bounds a descendant traversal.
type DescendantOptions struct {
	// MaxDepth is the depth at which pages stop being expanded. The root is depth 0,
	// so MaxDepth 1 returns direct children only.
	MaxDepth int
	// Pacing is the minimum spacing between two child-listing requests.
	Pacing time.Duration
}

// BranchFailure records a page whose children could not be listed.
type BranchFailure struct {
	PageID string
	Depth  int
	Err    error
}

// Descendants is the result of a descendant traversal.
type Descendants struct {
	// Pages are all descendants found, in discovery order.
	Pages []Page
	// Failures are the branches that were skipped because listing them failed.
	Failures []BranchFailure
}

type pendingPage struct {
	id    string
	depth int
}

// GetDescendants walks the page tree below rootID level by level.
// A failure to list one page's children is logged and recorded in Failures and does not
// stop the traversal of its siblings. The returned error is only set when ctx is done.
func (c *Client) GetDescendants(ctx context.Context, rootID string, opts DescendantOptions) (Descendants, error) {
	logger := contextutil.LoggerFromContext(ctx)

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	limit := rate.Inf
	if opts.Pacing > 0 {
		limit = rate.Every(opts.Pacing)
	}
	pacer := rate.NewLimiter(limit, 1)

	var result Descendants
	seen := map[string]bool{rootID: true}
	queue := []pendingPage{{id: rootID, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			logger.DebugContext(ctx, "depth limit reached, not expanding page", "page_id", current.id, "depth", current.depth)
			continue
		}

		if err := pacer.Wait(ctx); err != nil {
			return result, err
		}

		children, err := c.GetChildren(ctx, current.id)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.WarnContext(ctx, "failed to fetch child pages, skipping branch", "page_id", current.id, "depth", current.depth, "error", err)
			result.Failures = append(result.Failures, BranchFailure{PageID: current.id, Depth: current.depth, Err: err})
			continue
		}

		for _, child := range children {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			result.Pages = append(result.Pages, child)
			queue = append(queue, pendingPage{id: child.ID, depth: current.depth + 1})
		}
	}

	logger.InfoContext(ctx, "descendant traversal completed", "root_id", rootID, "pages", len(result.Pages), "failures", len(result.Failures))
	return result, nil
}
