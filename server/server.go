package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ShelfFM/cache"
	"ShelfFM/catalog"
	"ShelfFM/config"
	"ShelfFM/core/playback"
	"ShelfFM/core/playlist"
	"ShelfFM/db"
	"ShelfFM/logger"
	"ShelfFM/model"
	"ShelfFM/repository"
	"ShelfFM/storage"
	"ShelfFM/store"

	"github.com/gorilla/mux"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutputPath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Local persistent scope (favorites, private playlists).
	localStore, err := store.Open(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer localStore.Close()

	// Media object storage is optional; when configured it must work.
	if cfg.MinioEndpoint != "" {
		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to initialize MinIO: %v", err)
		}
	}

	// The shared playlist store and its cache fail soft when absent:
	// the service runs with private playlists only.
	if cfg.DBHost != "" {
		if err := db.ConnectDB(cfg); err != nil {
			log.Printf("Shared store unavailable, continuing without it: %v", err)
		} else {
			defer db.CloseDB()
			if err := db.ConnectGormDB(cfg); err != nil {
				log.Printf("GORM connection failed, continuing without shared store: %v", err)
			} else {
				defer db.CloseGormDB()
				if err := db.AutoMigrateModels(&model.Playlist{}); err != nil {
					log.Printf("Shared store migration failed: %v", err)
				}
			}
		}
	}
	if cfg.RedisHost != "" {
		if err := cache.ConnectRedis(cfg); err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
		} else {
			defer cache.CloseRedis()
			log.Println("Successfully connected to Redis")
		}
	}

	// Catalog: loaded once at startup, reloaded on file change.
	catalogs := catalog.NewProvider(cfg.CatalogPath, cfg.CatalogURL)
	if err := catalogs.Load(); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	watcherStop := make(chan struct{})
	go func() {
		if err := catalogs.Watch(watcherStop); err != nil {
			logger.Warn("Catalog watcher stopped", logger.ErrorField(err))
		}
	}()

	// Media resolution: explicit base wins; otherwise serve through the
	// MinIO proxy when available; otherwise media is unresolvable and
	// playback never auto-starts.
	mediaBase := cfg.MediaBaseURL
	if mediaBase == "" && storage.GetMinioClient() != nil {
		mediaBase = "/media"
	}
	resolver := catalog.NewResolver(mediaBase)

	sharedRepo := repository.NewGormSharedPlaylistRepository()
	engine := playback.NewEngine(catalogs, resolver)
	playlists, err := playlist.NewManager(localStore, sharedRepo, engine, catalogs)
	if err != nil {
		log.Fatalf("Failed to initialize playlist manager: %v", err)
	}

	stateHub := NewStateHub()
	engine.Subscribe(stateHub.Broadcast)

	apiHandler := NewAPIHandler(cfg, catalogs, resolver, engine, playlists, localStore, sharedRepo, stateHub)

	router := mux.NewRouter()

	// CORS middleware.
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Catalog browsing.
	router.HandleFunc("/api/catalog", apiHandler.GetCatalogHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/catalog/tree", apiHandler.GetCatalogTreeHandler).Methods(http.MethodGet)

	// Favorites.
	router.HandleFunc("/api/favorites", apiHandler.GetFavoritesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites", apiHandler.AddFavoriteHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/favorites/{item_id}", apiHandler.RemoveFavoriteHandler).Methods(http.MethodDelete)

	// Playlists.
	router.HandleFunc("/api/playlists", apiHandler.ListPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", apiHandler.CreatePlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/import", apiHandler.ImportPlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}", apiHandler.GetPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", apiHandler.UpdatePlaylistHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}", apiHandler.DeletePlaylistHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/items", apiHandler.AddPlaylistItemHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/items/reorder", apiHandler.ReorderPlaylistHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}/items/{index}", apiHandler.RemovePlaylistItemHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/items/{index}/loop", apiHandler.TogglePlaylistItemLoopHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}/share", apiHandler.SharePlaylistHandler).Methods(http.MethodPost)

	// Playback engine.
	router.HandleFunc("/api/playback", apiHandler.GetPlaybackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playback/select", apiHandler.SelectItemHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playback/play", apiHandler.PlayPlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playback/next", apiHandler.SkipNextHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playback/previous", apiHandler.SkipPreviousHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playback/seek", apiHandler.SeekHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playback/loop", apiHandler.ToggleLoopHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playback/stop", apiHandler.StopHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playback/events", apiHandler.SurfaceEventHandler).Methods(http.MethodPost)

	// Housekeeping.
	router.HandleFunc("/api/store/validate", apiHandler.ValidateStoreHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/version", apiHandler.VersionHandler).Methods(http.MethodGet)

	// Playback session broadcast.
	router.HandleFunc("/ws/playback", apiHandler.PlaybackWSHandler)

	// Media proxy from object storage.
	router.PathPrefix("/media/").HandlerFunc(apiHandler.MediaHandler).Methods(http.MethodGet, http.MethodHead)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s...", cfg.HTTPAddr)
		log.Println("Browse the catalog via GET /api/catalog and /api/catalog/tree")
		log.Println("Manage playlists via /api/playlists endpoints")
		log.Println("Drive playback via /api/playback endpoints")
		log.Println("Observe playback state via WS /ws/playback")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")
	close(watcherStop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
