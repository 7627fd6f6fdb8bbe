package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pm-assistant/internal/contextutil"
	"pm-assistant/internal/knowledge"
	"pm-assistant/internal/service"
)

// runtime is everything a command needs.
type runtime struct {
	base    *knowledge.Base
	llm     service.LLMClient
	enabled bool
	logger  *slog.Logger
}

type builder func() (*runtime, error)

var errNotConfigured = errors.New("confluence is not configured: set CONFLUENCE_BASE_URL, CONFLUENCE_USERNAME and CONFLUENCE_API_TOKEN")

type rootOptions struct {
	timeout   time.Duration
	indexRoot bool
}

func newRootCmd(build builder) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "kbctl",
		Short:         "Query the Confluence knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().DurationVarP(&opts.timeout, "timeout", "t", 2*time.Minute, "overall deadline for the command")
	root.PersistentFlags().BoolVar(&opts.indexRoot, "index-root", true, "index the configured root page before answering")

	root.AddCommand(
		newStatusCmd(build, opts),
		newAskCmd(build, opts),
		newIndexCmd(build, opts),
	)
	return root
}

func newStatusCmd(build builder, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the knowledge base holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, build, opts, func(ctx context.Context, rt *runtime) error {
				if rt.enabled {
					prepare(ctx, rt, opts)
				}
				return printMarkdown(cmd.OutOrStdout(), rt.base.Handler.Status())
			})
		},
	}
}

func newAskCmd(build builder, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question, answered from the documentation when it applies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			return withRuntime(cmd, build, opts, func(ctx context.Context, rt *runtime) error {
				var kb service.KnowledgeBase
				if rt.enabled {
					prepare(ctx, rt, opts)
					kb = rt.base.Handler
				}
				resp, err := service.NewChatService(rt.llm, kb, nil).ProcessChat(ctx, service.ChatRequest{Message: question})
				if err != nil {
					return err
				}
				return printMarkdown(cmd.OutOrStdout(), resp.Reply)
			})
		},
	}
}

func newIndexCmd(build builder, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "index <url>",
		Short: "Index a page and its subtree by viewer URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, build, opts, func(ctx context.Context, rt *runtime) error {
				if !rt.enabled {
					return errNotConfigured
				}
				return printMarkdown(cmd.OutOrStdout(), rt.base.Handler.IndexURL(ctx, args[0]))
			})
		},
	}
}

func withRuntime(cmd *cobra.Command, build builder, opts *rootOptions, run func(context.Context, *runtime) error) error {
	rt, err := build()
	if err != nil {
		return err
	}
	defer rt.base.Initializer.Teardown()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	if rt.logger != nil {
		ctx = contextutil.WithLogger(ctx, rt.logger)
	}
	return run(ctx, rt)
}

// prepare runs the startup connectivity check and, unless disabled, indexes the root page.
// Failures are reported by the handlers themselves, so they are only logged here.
func prepare(ctx context.Context, rt *runtime, opts *rootOptions) {
	rt.base.Initializer.Init(ctx)
	if !opts.indexRoot || rt.base.Indexer.RootPageID() == "" || rt.base.Store.Size() > 0 {
		return
	}
	if _, err := rt.base.Initializer.Refresh(ctx); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "root page indexing failed", "error", err)
	}
}

func printMarkdown(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, text)
	return err
}
