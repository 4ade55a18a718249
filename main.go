// @title Blog API
// @version 1.0
// @description Blog backend: accounts, opaque bearer tokens, posts and subscription feeds.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/blogapi/backend/internal/config"
	"github.com/blogapi/backend/internal/db"
	"github.com/blogapi/backend/internal/handler"
	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/password"
	"github.com/blogapi/backend/internal/service"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

// store is the full method set both storage backends provide.
type store interface {
	service.CredentialStore
	service.UserStore
	service.PostStore
}

var (
	_ store = (*db.Postgres)(nil)
	_ store = (*db.Memory)(nil)
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "blogapi",
		Usage: "blog backend HTTP API",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "storage",
						Value:   storagePostgres,
						Usage:   "storage backend: postgres or memory",
						EnvVars: []string{"STORAGE"},
					},
					&cli.BoolFlag{
						Name:    "migrate",
						Usage:   "apply pending migrations before serving",
						EnvVars: []string{"AUTO_MIGRATE"},
					},
				},
				Action: serve,
			},
			{
				Name:      "migrate",
				Usage:     "run goose migrations",
				ArgsUsage: "[up|down|status|version|redo|reset]",
				Action:    migrate,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format), nil
}

func serve(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo store
	switch c.String("storage") {
	case storageMemory:
		log.Warn(ctx, "using in-memory storage; data is lost on exit")
		repo = db.NewMemory()
	case storagePostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		if c.Bool("migrate") {
			sqlDB := stdlib.OpenDBFromPool(pool)
			err := db.Migrate(ctx, sqlDB, "up")
			_ = sqlDB.Close()
			if err != nil {
				return err
			}
		}
		repo = db.New(pool)
	default:
		return fmt.Errorf("%w: unknown storage %q", config.ErrInvalid, c.String("storage"))
	}

	hasher := password.NewHasher(cfg.Auth.PasswordIterations, cfg.Auth.HashConcurrency)
	postSvc := service.NewPostService(repo, cfg.Feed.MaxPageSize, log)
	svc := handler.Services{
		Auth:  service.NewAuthService(repo, hasher, log),
		Users: service.NewUserService(repo, postSvc, cfg.Feed.MaxPageSize, log),
		Posts: postSvc,
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: handler.NewRouter(svc, cfg.HTTP, cfg.Feed, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server listening", "addr", srv.Addr, "storage", c.String("storage"))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down", "timeout", cfg.HTTP.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrate(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	command := "up"
	if c.Args().Present() {
		command = c.Args().First()
	}

	pool, err := db.NewPostgresPool(c.Context, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	log.Info(c.Context, "running migrations", "command", command)
	return db.Migrate(c.Context, sqlDB, command, c.Args().Tail()...)
}
