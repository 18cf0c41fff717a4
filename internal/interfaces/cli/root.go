// internal/interfaces/cli/root.go
package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/cafe-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

var version = "dev"

// openDatabase connects to the configured database; tests swap it for SQLite
var openDatabase = func(cfg *config.Config, log *logrus.Logger) (*gorm.DB, func() error, error) {
	conn, err := postgres.NewConnection(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return conn.GetDB(), conn.Close, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cafe",
		Short:         "Café ordering backend",
		Long:          "Backend for the café Telegram bot: menu, carts, orders and staff tools.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newHashKeyCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cafe %s\n", version)
		},
	}
}

// bootstrap loads configuration and builds the logger every command shares
func bootstrap() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	return cfg, log, nil
}

// withMigration opens the database and hands a migration helper to fn
func withMigration(fn func(cfg *config.Config, log *logrus.Logger, m *postgres.Migration) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	db, closeDB, err := openDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		if err := closeDB(); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}()

	return fn(cfg, log, postgres.NewMigration(db, log))
}
