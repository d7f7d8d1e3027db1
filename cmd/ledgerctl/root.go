package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/liftledger/internal/config"
	"github.com/2beens/liftledger/internal/db"
	"github.com/2beens/liftledger/internal/logging"
)

var (
	env        string
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Maintenance tool for the workout ledger",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is fine, the environment may already be set
		if err := godotenv.Load(); err != nil {
			log.Tracef("no .env loaded: %s", err)
		}
		logging.Setup(logging.LoggerSetupParams{
			LogLevel: logLevel,
		})
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(migrateCmd, recomputeCmd, modesCmd, suggestCmd, statsCmd)
}

// openPool connects to the database named by the config file and env secrets.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}

	return db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
		MaxConns:   2,
	})
}
