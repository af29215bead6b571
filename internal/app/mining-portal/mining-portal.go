package miningportal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/mining-portal/internal/cache"
	"github.com/magabrotheeeer/mining-portal/internal/config"
	"github.com/magabrotheeeer/mining-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/mining-portal/internal/migrations"
	"github.com/magabrotheeeer/mining-portal/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/mining-portal/internal/services/auth"
	requestservice "github.com/magabrotheeeer/mining-portal/internal/services/request"
	"github.com/magabrotheeeer/mining-portal/internal/storage/files"
	"github.com/magabrotheeeer/mining-portal/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	fileStore, err := files.New(cfg.Uploads)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.KeyID, cfg.KeySecret)

	authService := authservice.NewAuthService(db, jwtMaker, cfg.KeySecret, cfg.RegistrationFee)
	requestService := requestservice.NewRequestService(db, db, fileStore, cacheRedis, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, authService, requestService, providerClient)

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
		cache:  cacheRedis,
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
