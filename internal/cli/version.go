package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/coursedesk/pkg/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("coursedesk %s\n", version.GetVersion())
			cmd.Printf("  commit: %s\n", version.GetCommit())
			cmd.Printf("  built:  %s\n", version.GetBuildDate())
		},
	}
}
