package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chstore "solana-launchpad/internal/storage/clickhouse"
	"solana-launchpad/internal/storage/migrations"
	pgstore "solana-launchpad/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply embedded PostgreSQL and ClickHouse migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()
		if cfg.Storage.UseMemory {
			return errors.New("storage.use_memory is set; nothing to migrate")
		}

		ctx := cmd.Context()
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		if err != nil {
			return err
		}
		logger.Info("postgres migrations applied", zap.Strings("files", applied))

		if cfg.Storage.ClickhouseDSN == "" {
			return nil
		}
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()
		applied, err = migrations.RunClickhouseMigrations(ctx, conn)
		if err != nil {
			return err
		}
		logger.Info("clickhouse migrations applied", zap.Strings("files", applied))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
