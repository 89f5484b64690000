// Package streamhub предоставляет маршруты для основного приложения.
package streamhub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	accesscheck "github.com/streamhub/streamhub/internal/http/handlers/access/check"
	accesshistory "github.com/streamhub/streamhub/internal/http/handlers/access/history"
	catalogbygenre "github.com/streamhub/streamhub/internal/http/handlers/catalog/bygenre"
	catalogbytype "github.com/streamhub/streamhub/internal/http/handlers/catalog/bytype"
	cataloglist "github.com/streamhub/streamhub/internal/http/handlers/catalog/list"
	catalogsearch "github.com/streamhub/streamhub/internal/http/handlers/catalog/search"
	contentaudit "github.com/streamhub/streamhub/internal/http/handlers/content/audit"
	contentcreate "github.com/streamhub/streamhub/internal/http/handlers/content/create"
	contentlike "github.com/streamhub/streamhub/internal/http/handlers/content/like"
	contentread "github.com/streamhub/streamhub/internal/http/handlers/content/read"
	contentremove "github.com/streamhub/streamhub/internal/http/handlers/content/remove"
	contentstats "github.com/streamhub/streamhub/internal/http/handlers/content/stats"
	contentupdate "github.com/streamhub/streamhub/internal/http/handlers/content/update"
	"github.com/streamhub/streamhub/internal/http/handlers/health"
	paymentlist "github.com/streamhub/streamhub/internal/http/handlers/payment/list"
	paymentwebhook "github.com/streamhub/streamhub/internal/http/handlers/payment/webhook"
	planlist "github.com/streamhub/streamhub/internal/http/handlers/plan/list"
	subscriptioncancel "github.com/streamhub/streamhub/internal/http/handlers/subscription/cancel"
	subscriptioncreate "github.com/streamhub/streamhub/internal/http/handlers/subscription/create"
	subscriptionread "github.com/streamhub/streamhub/internal/http/handlers/subscription/read"
	userread "github.com/streamhub/streamhub/internal/http/handlers/user/read"
	userregister "github.com/streamhub/streamhub/internal/http/handlers/user/register"
	"github.com/streamhub/streamhub/internal/http/middlewarectx"
	accessservice "github.com/streamhub/streamhub/internal/services/access"
	catalogservice "github.com/streamhub/streamhub/internal/services/catalog"
	contentservice "github.com/streamhub/streamhub/internal/services/content"
	subscriptionservice "github.com/streamhub/streamhub/internal/services/subscription"
	userservice "github.com/streamhub/streamhub/internal/services/user"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	db *repository.Storage,
	contentService *contentservice.Service,
	catalogService *catalogservice.Service,
	subscriptionService *subscriptionservice.Service,
	accessService *accessservice.Service,
	userService *userservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	healthHandler := health.New(logger, db)
	limiter := rate.NewLimiter(100, 200)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

		// Публичная витрина каталога
		r.Get("/catalog", cataloglist.New(logger, catalogService).ServeHTTP)
		r.Get("/content/type/{contentType}", catalogbytype.New(logger, catalogService).ServeHTTP)
		r.Get("/content/genre/{genre}", catalogbygenre.New(logger, catalogService).ServeHTTP)
		r.Get("/search", catalogsearch.New(logger, catalogService).ServeHTTP)
		r.Get("/stats", contentstats.New(logger, contentService).ServeHTTP)

		// Управление контентом
		r.Post("/content", contentcreate.New(logger, contentService).ServeHTTP)
		r.Get("/content/{id}", contentread.New(logger, contentService).ServeHTTP)
		r.Put("/content/{id}", contentupdate.New(logger, contentService).ServeHTTP)
		r.Delete("/content/{id}", contentremove.New(logger, contentService).ServeHTTP)
		r.Post("/content/{id}/like", contentlike.New(logger, contentService).ServeHTTP)
		r.Get("/content/{id}/audit", contentaudit.New(logger, contentService).ServeHTTP)

		// Проверка доступа и журнал
		r.Post("/content/{id}/access", accesscheck.New(logger, accessService).ServeHTTP)
		r.Get("/users/{uid}/access-logs", accesshistory.New(logger, accessService).ServeHTTP)

		// Пользователи, подписки и платежи
		r.Post("/register", userregister.New(logger, userService).ServeHTTP)
		r.Get("/users/{uid}", userread.New(logger, userService).ServeHTTP)
		r.Get("/plans", planlist.New(logger, subscriptionService).ServeHTTP)
		r.Post("/subscriptions", subscriptioncreate.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/{id}", subscriptionread.New(logger, subscriptionService).ServeHTTP)
		r.Post("/subscriptions/{id}/cancel", subscriptioncancel.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/{id}/payments", paymentlist.New(logger, subscriptionService).ServeHTTP)
		r.Post("/payments/webhook", paymentwebhook.New(logger, subscriptionService).ServeHTTP)
	})

	r.Get("/health", healthHandler.Live)
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
}
