package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantry/internal/auth"
	"pantry/internal/config"
	"pantry/internal/db"
	"pantry/internal/expiry"
	httpx "pantry/internal/http"
	"pantry/internal/inventory"
	"pantry/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, _ := config.Load()

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	var users auth.UserStore
	var invStore inventory.Store

	if cfg.DatabaseURL != "" {
		gdb, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			zl.Fatal("db connect", zap.Error(err))
		}
		if err := db.AutoMigrate(gdb); err != nil {
			zl.Fatal("db migrate", zap.Error(err))
		}
		users = &auth.GormUserStore{DB: gdb}
		invStore = &inventory.GormStore{DB: gdb}
	} else {
		zl.Warn("DATABASE_URL not set, using in-memory stores")
		users = auth.NewMemoryUserStore()
		invStore = inventory.NewMemoryStore()
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	invSvc := inventory.NewService(invStore)
	r := httpx.NewRouter(cfg, users, invSvc, jwtSvc, zl)

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.ExpiryScanInterval > 0 {
		worker := &expiry.Worker{
			Store:    invStore,
			Interval: cfg.ExpiryScanInterval,
			Log:      zl,
		}
		go worker.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zl.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("serve", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
