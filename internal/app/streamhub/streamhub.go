package streamhub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/streamhub/streamhub/internal/cache"
	"github.com/streamhub/streamhub/internal/config"
	"github.com/streamhub/streamhub/internal/migrations"
	accessservice "github.com/streamhub/streamhub/internal/services/access"
	catalogservice "github.com/streamhub/streamhub/internal/services/catalog"
	contentservice "github.com/streamhub/streamhub/internal/services/content"
	subscriptionservice "github.com/streamhub/streamhub/internal/services/subscription"
	userservice "github.com/streamhub/streamhub/internal/services/user"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	contentService := contentservice.New(db, cacheRedis, logger)
	catalogService := catalogservice.New(db, logger)
	subscriptionService := subscriptionservice.New(db, logger)
	accessService := accessservice.New(db, logger)
	userService := userservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, contentService, catalogService, subscriptionService, accessService, userService)
	router.Get("/docs/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
