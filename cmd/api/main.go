package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"prazoflow/auth"
	"prazoflow/config"
	"prazoflow/db"
	"prazoflow/httpapi"
	"prazoflow/logger"
	"prazoflow/movimentacao"
	"prazoflow/processo"
	"prazoflow/recent"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("bootstrap config: %v", err)
	}
	logg := logger.New(cfg.LogLevel)

	if err := db.Migrate(ctx, cfg.Database.DSN); err != nil {
		logg.Fatal("apply migrations", "error", err)
	}

	pool, err := db.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		logg.Fatal("bootstrap database pool", "error", err)
	}
	defer pool.Close()

	authService := auth.NewService(auth.NewRepository(pool), cfg.JWT.Secret)
	processoService := processo.NewService(processo.NewRepository(pool))
	movimentacaoService := movimentacao.NewService(pool, movimentacao.NewRepository(pool))
	recentService := recent.NewService(pool, recent.NewRepository(pool), processoService)

	server := httpapi.NewServer(authService, processoService, movimentacaoService, recentService, logg)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logg.Error("shutdown http server", "error", err)
		}
	}()

	logg.Info("http server listening", "addr", cfg.HTTP.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Fatal("http server", "error", err)
	}
}
