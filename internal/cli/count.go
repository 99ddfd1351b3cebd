package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCountCmd creates the count command.
func NewCountCmd() *cobra.Command {
	var (
		filters filterFlags
		output  string
	)

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print how many courses match a filter",
		Example: `  # All courses
  coursedesk count

  # Draft courses in category 2
  coursedesk count --status draft --category 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

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

			n, err := client.Count(ctx, filter)
			if err != nil {
				return fmt.Errorf("counting courses: %w", err)
			}
			return renderCount(cmd.OutOrStdout(), format, countResult{Filter: filter, Count: n})
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or yaml (default from config)")

	return cmd
}
