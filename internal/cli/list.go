package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/coursedesk/internal/config"
	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/logging"
	"github.com/rshade/coursedesk/internal/pagination"
	"github.com/rshade/coursedesk/internal/query"
)

// NewListCmd creates the list command, which prints one page of courses.
func NewListCmd() *cobra.Command {
	var (
		params  = pagination.NewParams()
		filters filterFlags
		output  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of courses",
		Long: `Fetches one page of courses matching the filter, together with the total
count, and prints them. The server decides the order of courses.`,
		Example: `  # First page with the configured page size
  coursedesk list

  # Third page of archived courses as JSON
  coursedesk list --status archived --page 3 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("page-size") {
				params.PageSize = config.GetGlobalConfig().View.PageSize
			}
			return runList(cmd, *params, &filters, output)
		},
	}

	params.RegisterFlags(cmd.Flags())
	filters.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or yaml (default from config)")

	return cmd
}

func runList(cmd *cobra.Command, params pagination.Params, filters *filterFlags, output string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if err := params.Validate(); err != nil {
		return err
	}
	format, err := resolveFormat(output)
	if err != nil {
		return err
	}
	filter, err := filters.build(ctx, cmd)
	if err != nil {
		return err
	}
	client, err := newQueryClient(ctx)
	if err != nil {
		return err
	}

	params.Page = params.EffectivePage()
	params.PageSize = params.EffectivePageSize()

	page, total, err := fetchWithCount(ctx, client, filter, params)
	if err != nil {
		return fmt.Errorf("listing courses: %w", err)
	}

	meta := pagination.NewMeta(params, total)
	log.Debug().Ctx(ctx).
		Str("operation", "list").
		Int("page", meta.CurrentPage).
		Int("total_items", meta.TotalItems).
		Int("items", len(page.Data)).
		Msg("listed courses")

	return renderList(cmd.OutOrStdout(), format, listResult{
		Filter:     filter,
		Courses:    page.Data,
		Pagination: meta,
	})
}

// fetchWithCount runs the count and the page fetch concurrently.
func fetchWithCount(
	ctx context.Context,
	client *query.Client,
	filter course.Filter,
	params pagination.Params,
) (*query.Page, int, error) {
	var (
		page  *query.Page
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := client.Count(gctx, filter)
		total = n
		return err
	})
	g.Go(func() error {
		p, err := client.FetchPage(gctx, query.Request{
			Where:      filter,
			PageNumber: params.Page,
			PageSize:   params.PageSize,
		})
		page = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// newQueryClient validates the global config and builds an API client that
// logs through the command's logger.
func newQueryClient(ctx context.Context) (*query.Client, error) {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return query.NewClient(query.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logging.FromContext(ctx),
	})
}
