package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"handraise/internal/db"
	"handraise/internal/server"
	"handraise/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	jobRepo := store.NewJobRepository(pool)
	applicationRepo := store.NewApplicationRepository(pool)
	userRepo := store.NewUserRepository(pool)
	sessionRepo := store.NewSessionRepository(pool)
	categoryRepo := store.NewCategoryRepository(pool)
	logRepo := store.NewLogRepository(pool)

	srv, err := server.New(
		config,
		logger,
		jobRepo,
		applicationRepo,
		userRepo,
		sessionRepo,
		categoryRepo,
		logRepo,
		migrator(pool),
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func migrator(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		return store.Migrate(ctx, pool)
	}
}
