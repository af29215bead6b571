// Package miningportal предоставляет маршруты для основного приложения.
package miningportal

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/mining-portal/internal/config"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/health"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/payment/libraryorder"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/payment/libraryverify"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/payment/ordercreate"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/payment/verify"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/profile/availability"
	profileread "github.com/magabrotheeeer/mining-portal/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/mining-portal/internal/http/handlers/profile/update"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/request/listall"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/request/listmine"
	requestread "github.com/magabrotheeeer/mining-portal/internal/http/handlers/request/read"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/request/respond"
	"github.com/magabrotheeeer/mining-portal/internal/http/handlers/request/submit"
	"github.com/magabrotheeeer/mining-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-portal/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/mining-portal/internal/services/auth"
	requestservice "github.com/magabrotheeeer/mining-portal/internal/services/request"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, authService *authservice.AuthService, requestService *requestservice.RequestService, providerClient *paymentprovider.Client) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/users/check-availability", availability.New(logger, authService).ServeHTTP)
		r.Post("/payments/order", ordercreate.New(logger, providerClient, cfg.RegistrationFee, cfg.Currency).ServeHTTP)
		r.Post("/payments/verify", verify.New(logger, cfg.KeySecret).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users/me", profileread.New(logger, authService).ServeHTTP)
			r.Get("/users/{username}", profileread.New(logger, authService).ServeHTTP)
			r.Put("/users/{username}", profileupdate.New(logger, authService).ServeHTTP)

			r.Post("/requests/{variant}", submit.New(logger, requestService, cfg.MaxSizeBytes).ServeHTTP)
			r.Get("/requests/{variant}/mine", listmine.New(logger, requestService).ServeHTTP)
			r.Get("/requests/{variant}/user/{username}", listmine.New(logger, requestService).ServeHTTP)
			// "all" регистрируется раньше "{id}", иначе chi сопоставит его как id.
			r.Get("/requests/{variant}/all", listall.New(logger, requestService).ServeHTTP)
			r.Get("/requests/{variant}/{id}", requestread.New(logger, requestService).ServeHTTP)
			r.Put("/requests/{variant}/{id}/respond", respond.New(logger, requestService).ServeHTTP)
			r.Put("/requests/{variant}/{id}/status", respond.New(logger, requestService).ServeHTTP)

			r.Post("/payments/library-order", libraryorder.New(logger, providerClient, cfg.LibraryFee, cfg.Currency).ServeHTTP)
			r.Post("/payments/library-verify", libraryverify.New(logger, authService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
