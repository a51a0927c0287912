// Package main is the entry point for the user management API.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rolemanagement/usermanager/internal/api"
	"github.com/rolemanagement/usermanager/internal/api/handler"
	"github.com/rolemanagement/usermanager/internal/core/ports"
	"github.com/rolemanagement/usermanager/internal/core/service"
	mongostore "github.com/rolemanagement/usermanager/internal/infrastructure/db/mongo"
	redisstore "github.com/rolemanagement/usermanager/internal/infrastructure/db/redis"
	"github.com/rolemanagement/usermanager/internal/infrastructure/db/sqlite"
	"github.com/rolemanagement/usermanager/internal/pkg/config"
	"github.com/rolemanagement/usermanager/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// store bundles the persistence backend selected by STORE_DRIVER.
type store struct {
	users  ports.UserRepository
	files  ports.FileStore
	pinger handler.Pinger
	close  func(ctx context.Context) error
}

// @title                       User Management API
// @version                     1.0
// @description                 Role-based user administration with validated create and update flows.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "usermanager",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close user store")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	sessions := redisstore.NewSessionStore(rdb)

	users := service.NewUserService(st.users, st.files, log)
	auth := service.NewAuthService(st.users, users, sessions, cfg.JWTSecret, cfg.TokenTTL, log)

	if cfg.Admin.Email != "" {
		admin, err := users.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info().Str("user_id", admin.ID).Msg("admin account ready")
	}

	e := api.NewRouter(api.Dependencies{
		Log:   log,
		Users: users,
		Auth:  auth,
		Pingers: map[string]handler.Pinger{
			cfg.StoreDriver: st.pinger,
			"redis":         sessions,
		},
		CookieSecure: cfg.CookieSecure,
		Registerer:   prometheus.DefaultRegisterer,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting user management API")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{
			users:  sqlite.NewUserRepository(db),
			files:  sqlite.NewFileStore(db),
			pinger: db,
			close:  func(context.Context) error { return db.Close() },
		}, nil
	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users:  repo,
			files:  mongostore.NewFileStore(db),
			pinger: mongostore.NewPinger(client),
			close:  client.Disconnect,
		}, nil
	}
}
