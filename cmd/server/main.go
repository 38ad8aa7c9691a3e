package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/profilehub/internal/common"
	"github.com/janisto/profilehub/internal/config"
	"github.com/janisto/profilehub/internal/http/v1/routes"
	appmiddleware "github.com/janisto/profilehub/internal/middleware"
	"github.com/janisto/profilehub/internal/platform/firebase"
	"github.com/janisto/profilehub/internal/respond"
	profilesvc "github.com/janisto/profilehub/internal/service/profile"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := common.Sync(); err != nil {
			appmiddleware.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := common.Err(); err != nil {
		appmiddleware.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.LoadServer()
	if err != nil {
		appmiddleware.LogFatal(context.Background(), "config load failed", err)
	}
	respond.SetDebug(!cfg.IsProduction())
	respond.Install()

	ctx := context.Background()
	fsClient, err := firebase.NewFirestoreClient(ctx, firebase.Config{
		ProjectID:                    cfg.FirebaseProjectID,
		GoogleApplicationCredentials: cfg.GoogleApplicationCredentials,
	})
	if err != nil {
		appmiddleware.LogFatal(ctx, "firestore init failed", err)
	}
	defer func() { _ = fsClient.Close() }()

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security("/api-docs"),
		appmiddleware.CORS(),
		appmiddleware.Vary(),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// Only safe behind a trusted reverse proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		appmiddleware.RequestLogger(),
		appmiddleware.AccessLogger(),
		respond.Recoverer(),
	)

	humaCfg := huma.DefaultConfig("Profile Hub API", Version)
	humaCfg.DocsPath = "/api-docs"
	api := humachi.New(router, humaCfg)

	routes.Register(api, profilesvc.NewFirestoreStore(fsClient))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		appmiddleware.LogInfo(ctx, "server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		appmiddleware.LogError(ctx, "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		appmiddleware.LogInfo(ctx, "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appmiddleware.LogError(shutdownCtx, "server shutdown error", err)
	}
	appmiddleware.LogInfo(ctx, "server exited")
}
