// internal/interfaces/cli/migrate.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/postgres"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97706"))
	nameStyle   = lipgloss.NewStyle().Width(24)
	countStyle  = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newMigrateCmd() *cobra.Command {
	var (
		reset bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigration(func(cfg *config.Config, log *logrus.Logger, m *postgres.Migration) error {
				if reset {
					if cfg.IsProduction() && !force {
						return fmt.Errorf("refusing to drop tables in production (use --force)")
					}
					if err := m.DropAllTables(); err != nil {
						return err
					}
				}

				if err := migrate(m, log); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Drop every table before migrating")
	cmd.Flags().BoolVar(&force, "force", false, "Allow --reset in production")

	return cmd
}

func newSeedCmd() *cobra.Command {
	var (
		file          string
		adminID       int64
		adminUsername string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data and optionally an admin user",
		Long:  "Insert roles, order statuses, delivery methods and the starter menu. Existing rows are kept, so seeding can be repeated.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigration(func(cfg *config.Config, log *logrus.Logger, m *postgres.Migration) error {
				if file == "" {
					file = cfg.Database.SeedFile
				}

				data, err := postgres.LoadSeed(file)
				if err != nil {
					return err
				}

				ctx := cmd.Context()
				if err := m.SeedInitialData(ctx, data); err != nil {
					return err
				}

				if adminID != 0 {
					if err := m.SeedAdmin(ctx, adminID, adminUsername); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "User %d is an admin\n", adminID)
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Seed data loaded")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML seed file (default: built-in seed or DB_SEED_FILE)")
	cmd.Flags().Int64Var(&adminID, "admin-id", 0, "Telegram ID to grant the ADMIN role")
	cmd.Flags().StringVar(&adminUsername, "admin-username", "", "Username for a newly created admin")

	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show row counts for every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigration(func(cfg *config.Config, log *logrus.Logger, m *postgres.Migration) error {
				infos, err := m.GetTableInfo(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTableInfo(infos))
				return nil
			})
		},
	}
}

// migrate applies the schema; index failures only warn, as the server can run without them
func migrate(m *postgres.Migration, log *logrus.Logger) error {
	if err := m.RunAutoMigrations(); err != nil {
		return err
	}
	if err := m.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}
	return nil
}

func renderTableInfo(infos []postgres.TableInfo) string {
	out := headerStyle.Render(nameStyle.Render("TABLE")+countStyle.Render("ROWS")) + "\n"

	var total int64
	for _, info := range infos {
		count := strconv.FormatInt(info.Records, 10)
		if info.Records == 0 {
			count = emptyStyle.Render(count)
		}
		out += nameStyle.Render(info.Table) + countStyle.Render(count) + "\n"
		total += info.Records
	}

	out += headerStyle.Render(nameStyle.Render("total") + countStyle.Render(strconv.FormatInt(total, 10)))
	return out
}
