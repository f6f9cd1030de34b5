package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solana-launchpad/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve quotes, curve history and creator fee claims over HTTP.

Endpoints:
  POST /v1/quote/buy, /v1/quote/sell
  POST /v1/markets/{token}/observations, GET /v1/markets/{token}/history
  GET  /v1/surfaces/{surface}/claimable, /v1/surfaces/{surface}/cooldown
  POST /v1/surfaces/{surface}/claims
  GET  /health, /metrics`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides http_addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ledgers := make([]api.Ledger, 0, len(a.ledgers))
	for _, name := range cfg.SurfaceNames() {
		ledgers = append(ledgers, a.ledgers[name])
	}
	srv := api.NewServer(a.market, ledgers, logger)

	logger.Info("launchpad starting",
		zap.String("addr", cfg.HTTPAddr),
		zap.Strings("surfaces", cfg.SurfaceNames()),
		zap.Bool("memory_storage", cfg.Storage.UseMemory),
	)
	if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
