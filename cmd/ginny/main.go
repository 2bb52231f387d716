// Command ginny runs the outfit consultant in the terminal or as a web
// dashboard. Configuration is read from the environment and optional .env
// files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ginny",
		Short:         "👗 Ginny, an outfit consultant that remembers your style",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *appEnv) error {
				return app.shell(cmd).Menu(ctx)
			})
		},
	}

	root.AddCommand(newChatCommand(), newDemoCommand(), newServeCommand())
	return root
}
