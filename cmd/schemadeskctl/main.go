// Command schemadeskctl runs the schemadesk fetch, sync and publish flows
// from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	apperrors "github.com/shhac/schemadesk/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, apperrors.ErrUserCancelled) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	configPath string
	debug      bool
	yes        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "schemadeskctl",
		Short:         "Fetch, edit and publish Postman API schemas from the terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, "answer yes to confirmations")

	root.AddCommand(newFetchCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newOpenCmd(opts))
	root.AddCommand(newPublishCmd(opts))
	root.AddCommand(newPullCmd(opts))
	root.AddCommand(newPushCmd(opts))
	root.AddCommand(newClearCmd(opts))

	return root
}
