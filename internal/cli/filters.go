package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/logging"
)

// filterFlags holds the --category, --status and --query flags shared by
// list and count.
type filterFlags struct {
	category int64
	status   string
	query    string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.category, "category", 0, "only courses in this category id")
	cmd.Flags().StringVar(&f.status, "status", "", "only courses with this status (draft, published, archived)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "only courses whose name contains this text")
}

// build converts the flags into a course.Filter. Flags left unset impose no
// constraint; --category is only applied when given explicitly.
func (f *filterFlags) build(ctx context.Context, cmd *cobra.Command) (course.Filter, error) {
	log := logging.FromContext(ctx)

	var filter course.Filter
	if cmd.Flags().Changed("category") {
		filter = filter.WithCategory(&f.category)
	}

	status, err := course.ParseStatus(f.status)
	if err != nil {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "build_filter").
			Str("status", f.status).
			Err(err).
			Msg("invalid status filter")
		return course.Filter{}, err
	}
	filter = filter.WithStatus(status).WithQuery(f.query)

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "build_filter").
		Str("filter", filter.String()).
		Msg("built course filter")
	return filter, nil
}
