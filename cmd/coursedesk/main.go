// Command coursedesk browses and queries the course administration API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/coursedesk/internal/cli"
	"github.com/rshade/coursedesk/internal/config"
	"github.com/rshade/coursedesk/internal/query"
	"github.com/rshade/coursedesk/pkg/version"
)

// Exit codes beyond the generic failure code 1.
const (
	exitNotInteractive = 2
	exitNetwork        = 3
	exitConfig         = 4
)

func main() {
	if err := run(); err != nil {
		os.Exit(exitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already printed the error.
		return fmt.Errorf("coursedesk: %w", err)
	}
	return nil
}

// exitCode maps an error returned by run to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrNotInteractive):
		return exitNotInteractive
	case errors.Is(err, query.ErrNetwork):
		return exitNetwork
	case errors.Is(err, config.ErrInvalidConfig):
		return exitConfig
	default:
		return 1
	}
}
