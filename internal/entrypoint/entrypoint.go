package entrypoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/bookstore"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs router on addr until SIGINT or SIGTERM, then shuts down within timeout.
func Serve(router *gin.Engine, addr string, timeout time.Duration, onShutdown ShutdownFunc) {
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s", addr)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Runs after the listener stops so no new work arrives
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// RunUI starts the catalog UI backed by the remote book service.
func RunUI(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	sqlDB, err := sessions.Open(cfg.Sessions.DBPath)
	if err != nil {
		log.Fatalf("Failed to open session database: %v", err)
	}
	defer sqlDB.Close()

	sessionManager, err := sessions.NewManager(sqlDB, cfg.Sessions.Lifetime, cfg.Sessions.SecureCookies)
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	csrfSecret, err := resolveSecret(cfg.Sessions.Secret)
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}

	client := booksapi.NewClient(cfg.BooksAPI.URL, cfg.BooksAPI.Timeout)
	store := bookstore.New(client, cfg.Catalog.RemoteWriteTimeout)
	log.Printf("Using book service at %s", client.BaseURL())

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Store:         store,
		Sessions:      sessionManager,
		PageSize:      cfg.Catalog.PageSize,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Sessions.SecureCookies,
		SessionDB:     sqlDB,
		Version:       version,
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	Serve(router, addr, shutdownTimeout(cfg), func(ctx context.Context) {
		if !store.Flush(ctx) {
			log.Printf("[STORE] Shutdown before all remote writes finished")
		}
	})
}

// RunBackend starts the REST book service.
func RunBackend(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf book service v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if cfg.Backend.Seed {
		if err := db.SeedIfEmpty(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	resetScheduler := scheduler.NewCatalogResetScheduler(db, cfg.Backend.ResetSchedule)
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	if err := resetScheduler.Start(schedulerCtx); err != nil {
		log.Fatalf("Failed to start catalog reset scheduler: %v", err)
	}

	router := http_controllers.NewBackendRouter(http_controllers.BackendRouterConfig{
		Repository: db,
		Database:   db,
		Version:    version,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Backend.Host, cfg.Backend.Port)
	Serve(router, addr, shutdownTimeout(cfg), func(ctx context.Context) {
		resetScheduler.Stop()
	})
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
}

// resolveSecret decodes a configured hex secret, falls back to the raw bytes
// of a non-hex one and generates a fresh secret when none is set.
func resolveSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	return secret, nil
}
