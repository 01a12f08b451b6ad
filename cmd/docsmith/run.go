package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/askaron/docsmith/internal/adapter"
	"github.com/askaron/docsmith/internal/config"
	"github.com/askaron/docsmith/internal/generator"
	"github.com/askaron/docsmith/internal/relay"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the webhook bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			slog.Error("Configuration invalid, refusing to start", "error", err)
			return err
		}

		client, err := relay.New(cfg.OpenRouter)
		if err != nil {
			return err
		}

		// The adapter needs the handler and the service needs the adapter;
		// the closure breaks the cycle.
		var svc *generator.Service
		handler := func(ctx context.Context, sessionID string, text string, metadata map[string]string) {
			svc.Handle(ctx, sessionID, text)
		}

		tg := adapter.NewTelegramAdapter(cfg.Telegram, cfg.Server, handler)
		svc = generator.NewService(client, tg)

		sig := NewSignalHandler(cmd.Context())
		sig.Start()

		if err := tg.Start(sig.Context()); err != nil {
			return err
		}
		slog.Info("Docsmith started", "port", cfg.Server.Port, "model", cfg.OpenRouter.Model)

		<-sig.Context().Done()
		sig.Stop()

		shutdownTTL, err := config.DurationOrDefault(cfg.Server.ShutdownTimeout, config.DefaultServerShutdownTimeout)
		if err != nil {
			shutdownTTL = 5 * time.Second
		}
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTTL)
		defer cancel()
		return tg.Stop(stopCtx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
