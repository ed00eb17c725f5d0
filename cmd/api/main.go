package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/artfolio/artfolio-api/internal/config"
	"github.com/artfolio/artfolio-api/internal/domain/auth"
	"github.com/artfolio/artfolio-api/internal/domain/catalog"
	"github.com/artfolio/artfolio-api/internal/domain/category"
	"github.com/artfolio/artfolio-api/internal/domain/gallery"
	"github.com/artfolio/artfolio-api/internal/domain/message"
	"github.com/artfolio/artfolio-api/internal/domain/project"
	"github.com/artfolio/artfolio-api/internal/domain/user"
	"github.com/artfolio/artfolio-api/internal/middleware"
	"github.com/artfolio/artfolio-api/internal/pkg/database"
	"github.com/artfolio/artfolio-api/internal/pkg/imaging"
	"github.com/artfolio/artfolio-api/internal/pkg/jwt"
	pkgresponse "github.com/artfolio/artfolio-api/internal/pkg/response"
	"github.com/artfolio/artfolio-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Artfolio API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage backend")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	categoryRepo := category.NewRepository(db)
	projectRepo := project.NewRepository(db)
	messageRepo := message.NewRepository(db)

	// ---------- Catalog hub ----------
	catalogReader := catalog.NewReader(projectRepo, categoryRepo)
	catalogHub := catalog.NewHub(catalogReader, redis)
	go catalogHub.Run()
	defer catalogHub.Shutdown()

	notifier := catalog.NewPublisher(redis, catalogHub)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService)
	categoryService := category.NewService(categoryRepo, notifier)
	projectService := project.NewService(projectRepo, store, imaging.NewProcessor(), notifier)
	messageService := message.NewService(messageRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	categoryHandler := category.NewHandler(categoryService)
	projectHandler := project.NewHandler(projectService)
	messageHandler := message.NewHandler(messageService)
	galleryHandler := gallery.NewHandler(catalogReader)
	catalogHandler := catalog.NewHandler(catalogHub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)
	adminMiddleware := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws/catalog", catalogHandler.WebSocket)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/gallery", galleryHandler.Routes())
		r.Mount("/categories", categoryHandler.PublicRoutes())
		r.Mount("/messages", messageHandler.PublicRoutes())

		r.Route("/admin", func(r chi.Router) {
			r.Mount("/projects", projectHandler.AdminRoutes(authMiddleware, adminMiddleware))
			r.Mount("/categories", categoryHandler.AdminRoutes(authMiddleware, adminMiddleware))
			r.Mount("/messages", messageHandler.AdminRoutes(authMiddleware, adminMiddleware))
		})
	})

	// Serve uploaded files directly when using local storage
	if cfg.StorageDriver == "local" {
		fs := http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.LocalPath)))
		r.Get("/files/*", func(w http.ResponseWriter, r *http.Request) {
			fs.ServeHTTP(w, r)
		})
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3Storage(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
	}
	return storage.NewLocalStorage(cfg.LocalPath, cfg.LocalBaseURL)
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
