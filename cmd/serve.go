package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/auth"
	"github.com/sells-group/water-intel/internal/dashboard"
	"github.com/sells-group/water-intel/internal/observability"
	"github.com/sells-group/water-intel/internal/server"
)

var servePort int

// sessionSweepInterval is how often expired sessions are dropped.
const sessionSweepInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("store", "scorer"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		metrics := observability.NewMetrics()
		sc, err := initScorer(ctx, cfg, metrics)
		if err != nil {
			return err
		}

		ttl := time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute
		sessions := auth.NewSessionManager(auth.NewDirectory(cfg.Auth.AllowedEmails), ttl, nil)
		renderer := dashboard.NewRenderer(st, sc, dashboard.WithMetrics(metrics))
		srv := server.New(sessions, renderer, st, cfg.Server.AllowedOrigins, nil)

		port := server.ResolvePort(servePort, cfg.Server.Port)
		zap.L().Info("starting dashboard server",
			zap.Int("port", port),
			zap.String("store", cfg.Store.Driver),
			zap.String("provider", cfg.Scorer.Provider),
			zap.Int("allowed_emails", sessions.Directory().Len()),
		)
		return srv.Run(ctx, port, sessionSweepInterval)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
