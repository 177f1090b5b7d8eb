package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waxcrate/cache"
	"waxcrate/config"
	"waxcrate/core/auth"
	"waxcrate/core/collection"
	"waxcrate/core/spotify"
	"waxcrate/db"
	"waxcrate/logger"
	"waxcrate/model"
	"waxcrate/repository"
	"waxcrate/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until a shutdown
// signal arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutputPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})
	defer logger.Sync()

	auth.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	// Connect to the database.
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseDB()

	// GORM owns the schema; repositories run raw SQL on db.DB.
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(
		&model.User{},
		&model.Artist{},
		&model.Album{},
		&model.AlbumTrack{},
		&model.UserAlbum{},
	); err != nil {
		logger.Fatal("Failed to migrate database schema", logger.ErrorField(err))
	}

	// Redis backs the catalog response cache; the service runs without it.
	if cfg.RedisEnabled {
		if err := db.ConnectRedis(cfg); err != nil {
			logger.Warn("Redis unavailable, catalog caching disabled", logger.ErrorField(err))
		} else {
			defer db.CloseRedis()
			logger.Info("Connected to Redis")
		}
	}

	// Cover mirroring is opt-in.
	var covers *storage.CoverStore
	if cfg.MinioEnabled {
		var err error
		covers, err = storage.NewCoverStore(cfg)
		if err != nil {
			logger.Warn("MinIO unavailable, cover mirroring disabled", logger.ErrorField(err))
			covers = nil
		}
	}

	spotifyClient := spotify.NewClient(
		cfg.SpotifyClientID,
		cfg.SpotifyClientSecret,
		cfg.SpotifyAPIURL,
		cfg.SpotifyTokenURL,
		cfg.SpotifyTimeout,
	)
	var catalog collection.Catalog = spotifyClient
	if db.RedisClient != nil {
		catalog = cache.NewCachedCatalog(spotifyClient, db.RedisClient)
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	artistRepo := repository.NewMySQLArtistRepository(db.DB)
	albumRepo := repository.NewMySQLAlbumRepository(db.DB)
	uow := repository.NewMySQLUnitOfWork(db.DB)
	reconciler := collection.NewReconciler(catalog, uow)

	apiHandler := NewAPIHandler(userRepo, artistRepo, albumRepo, reconciler, catalog, spotifyClient, covers, cfg)

	router := mux.NewRouter()
	router.Use(CORSMiddleware)
	router.Use(RequestIDMiddleware)

	// Auth endpoints.
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Profile endpoints.
	router.HandleFunc("/api/profile", apiHandler.AuthMiddleware(apiHandler.ProfileHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/profile/name", apiHandler.AuthMiddleware(apiHandler.UpdateNameHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/profile/email", apiHandler.AuthMiddleware(apiHandler.UpdateEmailHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/profile/password", apiHandler.AuthMiddleware(apiHandler.UpdatePasswordHandler)).Methods(http.MethodPut)

	// Catalog endpoints.
	router.HandleFunc("/api/search/albums", apiHandler.SearchAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/catalog/albums/{spotify_album_id}", apiHandler.GetCatalogAlbumHandler).Methods(http.MethodGet)

	// Collection endpoints.
	router.HandleFunc("/api/collection", apiHandler.AuthMiddleware(apiHandler.GetCollectionHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/collection/{spotify_album_id}", apiHandler.AuthMiddleware(apiHandler.AddToCollectionHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/collection/{album_id:[0-9]+}", apiHandler.AuthMiddleware(apiHandler.GetCollectionAlbumHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/collection/{album_id:[0-9]+}", apiHandler.AuthMiddleware(apiHandler.RemoveFromCollectionHandler)).Methods(http.MethodDelete)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Re-apply LOG_LEVEL when .env changes.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if err := config.WatchEnvFile(watchCtx, ".env", func(updated *config.Config) {
		logger.SetLevel(logger.LogLevel(updated.LogLevel))
		logger.Info("Reloaded log level from .env", logger.String("level", updated.LogLevel))
	}); err != nil {
		logger.Warn("Config watcher unavailable", logger.ErrorField(err))
	}

	go func() {
		logger.Info("Waxcrate server listening", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", logger.ErrorField(err))
	}
	logger.Info("Server stopped")
}
