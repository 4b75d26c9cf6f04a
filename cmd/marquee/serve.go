package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/spektr-org/marquee/di"
	"github.com/spektr-org/marquee/logging"
	"github.com/spektr-org/marquee/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector := di.NewContainer(cfg)
	if _, err := di.LoadDataset(ctx, injector); err != nil {
		logging.Fatal().Err(err).Str("data", cfg.Data.Path).Msg("failed to load dataset")
	}

	hook := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
	sup := suture.New("marquee", suture.Spec{
		EventHook: hook.MustHook(),
		Timeout:   cfg.Server.ShutdownTimeout,
	})
	sup.Add(do.MustInvoke[*server.Service](injector))

	logging.Info().Str("addr", cfg.Server.Addr()).Str("data", cfg.Data.Path).Msg("serving dashboard")
	err := sup.Serve(ctx)
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		logging.Info().Msg("shut down")
		return nil
	}
	return err
}
