// internal/interfaces/cli/serve.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/redis"
	apphttp "github.com/your-org/cafe-backend/internal/interfaces/http"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"version":     cfg.App.Version,
				"environment": cfg.App.Environment,
			}).Infof("🚀 Starting %s", cfg.App.Name)

			db, closeDB, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB()

			if !skipMigrate {
				m := postgres.NewMigration(db, log)
				if err := migrate(m, log); err != nil {
					return err
				}
				if cfg.IsDevelopment() {
					seedDevelopment(cmd.Context(), cfg, log, m)
				}
			}

			redisClient := connectRedis(cfg, log)
			if redisClient != nil {
				defer redisClient.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := apphttp.NewServer(cfg, db, redisClient, log)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(server.Start)
			g.Go(func() error {
				<-gctx.Done()
				log.Info("👋 Shutting down gracefully...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Stop(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				return err
			}

			log.Info("✅ Server shutdown completed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")

	return cmd
}

// connectRedis returns nil when Redis is unreachable; the API then limits
// rates per instance and does not publish order events.
func connectRedis(cfg *config.Config, log *logrus.Logger) *goredis.Client {
	client, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without it")
		return nil
	}
	return client.GetClient()
}

func seedDevelopment(ctx context.Context, cfg *config.Config, log *logrus.Logger, m *postgres.Migration) {
	data, err := postgres.LoadSeed(cfg.Database.SeedFile)
	if err == nil {
		err = m.SeedInitialData(ctx, data)
	}
	if err != nil {
		log.WithError(err).Warn("Data seeding failed")
	}
}
