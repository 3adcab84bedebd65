//	@title			Quy Do Official API
//	@version		1.0
//	@description	Backend for the Quy Do Official fan-media site: gallery storage, homepage settings, video embeds, and analytics dashboard.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ptnbk2401/quy-do-official/internal/analytics"
	"github.com/ptnbk2401/quy-do-official/internal/auth"
	"github.com/ptnbk2401/quy-do-official/internal/cache"
	"github.com/ptnbk2401/quy-do-official/internal/config"
	"github.com/ptnbk2401/quy-do-official/internal/embed"
	"github.com/ptnbk2401/quy-do-official/internal/media"
	appMiddleware "github.com/ptnbk2401/quy-do-official/internal/middleware"
	"github.com/ptnbk2401/quy-do-official/internal/response"
	"github.com/ptnbk2401/quy-do-official/internal/settings"
	"github.com/ptnbk2401/quy-do-official/internal/storage"

	_ "github.com/ptnbk2401/quy-do-official/docs/swagger"
)

func main() {
	cfg := config.Load()

	// Object storage is optional: without credentials the gallery and
	// settings endpoints degrade instead of the process refusing to start.
	var store storage.ObjectStore
	if cfg.StorageConfigured() {
		s, err := storage.NewMinioStorage(
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StorageRegion,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
		)
		if err != nil {
			log.Fatalf("object storage init failed: %v", err)
		}
		store = s
	} else {
		log.Println("object storage not configured; media features disabled")
	}

	// Wire dependencies per feature. Handlers accept nil services and
	// degrade on their own.
	var (
		settingsRepo  settings.Repository
		mediaSvc      *media.Service
		embedRegistry *embed.Registry
	)
	if store != nil {
		settingsRepo = settings.NewStoreRepository(store)
		mediaSvc = media.NewService(store)
		embedRegistry = embed.NewRegistry(store)
	}

	authHandler := auth.NewHandler(auth.NewService(cfg))
	settingsHandler := settings.NewHandler(settingsRepo, store)
	mediaHandler := media.NewHandler(mediaSvc, store)
	embedHandler := embed.NewHandler(embedRegistry)

	reportCache := cache.New()
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	reportCache.StartSweeper(sweepCtx)

	// The concrete reporting provider is wired here when configured; nil
	// keeps the dashboard up with setup guidance.
	var provider analytics.Provider
	if !cfg.AnalyticsConfigured() {
		log.Println("analytics not configured; dashboard will show setup guidance")
	}
	analyticsHandler := analytics.NewHandler(provider, reportCache)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Get("/homepage", settingsHandler.Get)
		r.Post("/homepage/refresh-urls", settingsHandler.RefreshURLs)
		r.Get("/media", mediaHandler.List)
		r.Post("/media/download", mediaHandler.DownloadURL)
		r.Get("/media/categories", mediaHandler.ListCategories)
		r.Get("/media/embeds", embedHandler.List)

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))

			r.Post("/homepage", settingsHandler.Save)
			r.Post("/homepage/upload", settingsHandler.Upload)

			r.Post("/media/upload", mediaHandler.UploadURL)
			r.Delete("/media", mediaHandler.Delete)
			r.Post("/media/delete-batch", mediaHandler.DeleteBatch)
			r.Post("/media/categories", mediaHandler.ValidateCategory)

			r.Post("/media/embeds", embedHandler.Create)
			r.Delete("/media/embeds", embedHandler.Delete)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/overview", analyticsHandler.Overview)
				r.Get("/traffic", analyticsHandler.Traffic)
				r.Get("/sources", analyticsHandler.Sources)
				r.Get("/top-pages", analyticsHandler.TopPages)
				r.Get("/cache-stats", analyticsHandler.CacheStats)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
