package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/coursedesk/internal/config"
	"github.com/rshade/coursedesk/internal/logging"
	"github.com/rshade/coursedesk/internal/tui"
	"github.com/rshade/coursedesk/internal/view"
)

// ErrNotInteractive is returned by browse when stdin or stdout is not a terminal.
var ErrNotInteractive = errors.New("browse needs an interactive terminal; use `coursedesk list` instead")

// NewBrowseCmd creates the interactive browse command.
func NewBrowseCmd() *cobra.Command {
	var resetPage bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse courses interactively",
		Long: `Opens an interactive table of courses. Typing in the filter bar re-queries
the server once edits pause; paging keys fetch other pages with the current filter.`,
		Example: `  coursedesk browse
  coursedesk browse --reset-page`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return ErrNotInteractive
			}
			ctrl, err := newViewController(cmd, resetPage)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			p := tea.NewProgram(tui.NewCourseModel(cmd.Context(), ctrl), tea.WithAltScreen())
			if _, err = p.Run(); err != nil {
				return fmt.Errorf("failed to run interactive TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resetPage, "reset-page", false,
		"jump back to page 1 whenever the filter changes (overrides view.reset_page_on_filter)")

	return cmd
}

// newViewController builds a view controller from the global config.
func newViewController(cmd *cobra.Command, resetPage bool) (*view.Controller, error) {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	client, err := newQueryClient(ctx)
	if err != nil {
		return nil, err
	}

	reset := cfg.View.ResetPageOnFilter
	if cmd.Flags().Changed("reset-page") {
		reset = resetPage
	}
	policy := view.KeepPage
	if reset {
		policy = view.ResetToFirstPage
	}

	logger.Debug().Ctx(ctx).
		Int("page_size", cfg.View.PageSize).
		Dur("debounce", cfg.View.Debounce).
		Stringer("page_policy", policy).
		Msg("starting course browser")

	return view.New(client, view.Options{
		PageSize:    cfg.View.PageSize,
		QuietPeriod: cfg.View.Debounce,
		PagePolicy:  policy,
		Logger:      logging.FromContext(ctx),
	})
}
