package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ginny"
	"github.com/hupe1980/ginny/config"
	"github.com/hupe1980/ginny/logging"
	"github.com/hupe1980/ginny/shell/cli"
	"github.com/hupe1980/ginny/shell/web"
)

type appEnv struct {
	*ginny.App
	logger *logging.StructuredLogger
}

// withApp loads configuration, builds the App and closes it after fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *appEnv) error) error {
	cfg, loaded := config.Load()
	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, false)
	if len(loaded) > 0 {
		logger.Debug("loaded env files", "files", loaded)
	}

	app, err := ginny.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.Warn("failed to close app", "error", cerr)
		}
	}()

	return fn(cmd.Context(), &appEnv{App: app, logger: logger})
}

func (a *appEnv) shell(cmd *cobra.Command) *cli.Shell {
	status := a.Status()
	return cli.New(a.Runner(), func(o *cli.Options) {
		o.In = cmd.InOrStdin()
		o.Out = cmd.OutOrStdout()
		o.WeatherReady = status.WeatherReady
		o.MemoryReady = status.Mem0Ready
	})
}

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *appEnv) error {
				app.shell(cmd).Chat(ctx)
				return nil
			})
		},
	}
}

func newDemoCommand() *cobra.Command {
	var scriptOnly bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Play the scripted demo conversation, then chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *appEnv) error {
				app.shell(cmd).Demo(ctx, scriptOnly)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&scriptOnly, "script-only", false, "exit after the scripted utterances")
	return cmd
}

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *appEnv) error {
				srv, err := web.New(app.Runner(), func(o *web.Options) {
					o.Status = app.Status()
					o.Logger = app.logger.WithComponent("web")
				})
				if err != nil {
					return err
				}
				return srv.Run(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8501", "listen address")
	return cmd
}
