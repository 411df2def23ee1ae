package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"fsanano/marketplace/internal/config"
	"fsanano/marketplace/internal/handler"
	"fsanano/marketplace/internal/repository"
	"fsanano/marketplace/internal/seed"
	"fsanano/marketplace/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	log.SetLevel(cfg.Level())

	app := &cli.App{
		Name:  "marketplace",
		Usage: "serve users, orders and offers over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Value: cfg.ServerPort,
				Usage: "port to listen on",
			},
		},
		Action: func(c *cli.Context) error {
			return run(c.Context, cfg, c.String("port"), log)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, port string, log *logrus.Logger) error {
	// 2. Setup store
	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Seed it before accepting traffic
	stats, err := seed.Load(ctx, cfg.FixturesDir, repo)
	if err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	log.WithFields(logrus.Fields{
		"users":  stats.Users,
		"orders": stats.Orders,
		"offers": stats.Offers,
	}).Info("Store seeded")

	// 4. Setup Logic
	svc := service.NewMarketService(repo)
	h := handler.NewHandler(svc, log)

	// 5. Setup Server
	server := &http.Server{
		Addr:    ":" + port,
		Handler: h,
	}

	// 6. Run Server with Graceful Shutdown
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down server")
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// openStore picks PostgreSQL when a database URL is configured and process
// memory otherwise.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("Using in-memory store")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo, err := repository.NewPostgresRepository(ctx, dbPool)
	if err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	log.Info("Using PostgreSQL store")
	return repo, dbPool.Close, nil
}
