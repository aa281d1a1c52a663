package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/SugaryLLC/sugary-web/internal/account"
	"github.com/SugaryLLC/sugary-web/internal/auth"
	"github.com/SugaryLLC/sugary-web/internal/auth/handler"
	"github.com/SugaryLLC/sugary-web/internal/auth/provider"
	"github.com/SugaryLLC/sugary-web/internal/auth/provider/google"
	"github.com/SugaryLLC/sugary-web/internal/backend"
	"github.com/SugaryLLC/sugary-web/internal/config"
	"github.com/SugaryLLC/sugary-web/internal/logger"
	"github.com/SugaryLLC/sugary-web/internal/metrics"
	"github.com/SugaryLLC/sugary-web/internal/middleware"
	"github.com/SugaryLLC/sugary-web/internal/places"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	backendClient, err := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		return nil, nil, err
	}
	if !backendClient.Configured() {
		logger.Warn("backend base URL not configured, auth actions will fail as values")
	}

	var authOpts []auth.Option
	if cfg.Google.ClientID != "" {
		// Verification is a hardening supplement; if discovery is down
		// at startup, relay tokens opaquely rather than refusing to boot.
		if verifier, err := google.NewVerifier(ctx, cfg.Google.ClientID); err != nil {
			logger.Warn("google verifier unavailable, relaying tokens unverified", "err", err.Error())
		} else {
			authOpts = append(authOpts, auth.WithGoogleVerifier(verifier))
		}
	}
	authService := auth.NewService(backendClient, authOpts...)

	var codeFlowProviders []provider.OAuthProvider
	if cfg.Google.CodeFlowConfigured() {
		googleProvider, err := google.New(ctx, cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
		if err != nil {
			return nil, nil, err
		}
		codeFlowProviders = append(codeFlowProviders, googleProvider)
	}
	registry := provider.NewRegistry(codeFlowProviders...)

	secure := cfg.Production()

	authHandler := handler.NewHandler(authService, registry, secure)
	accountHandler := account.NewHandler(backendClient)

	var placesCache *places.Cache
	if infra.Redis != nil {
		placesCache = places.NewCache(infra.Redis.Client, cfg.Places.CacheTTL)
	}
	placesHandler := places.NewHandler(places.NewClient(cfg.Places.APIKey, placesCache))

	bootstrap := middleware.NewSessionBootstrap(authService, secure, cfg.Routes.Protected, cfg.Routes.LoginPath)

	// ----------------------------
	// Router
	// ----------------------------

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(bootstrap.Handler())

	authHandler.RegisterRoutes(router)
	accountHandler.RegisterRoutes(router)
	placesHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if infra.Redis != nil {
			return infra.Redis.Close()
		}
		return nil
	}, nil
}
