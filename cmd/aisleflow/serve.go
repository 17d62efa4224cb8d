package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pantryops/aisleflow/internal/metrics"
	"github.com/pantryops/aisleflow/internal/rules"
	"github.com/pantryops/aisleflow/internal/server"
	"github.com/pantryops/aisleflow/internal/service"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server. Exposes organize, store and layout endpoints
under /api, a health check at /healthz and Prometheus metrics at
/metrics.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rc, err := rules.NewClassifier(rules.DefaultRules())
	if err != nil {
		return fmt.Errorf("failed to compile rules: %w", err)
	}

	met := metrics.New()
	srv, err := server.New(server.Config{
		Addr:    addr,
		Storage: store,
		Rules:   rc,
		Fallback: func() service.FallbackClassifier {
			return newFallback(met)
		},
		Metrics: met,
		Logger:  slog.Default(),
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
