package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"menucraft/api/internal/app"
	"menucraft/api/internal/assets"
	"menucraft/api/internal/cache"
	"menucraft/api/internal/config"
	"menucraft/api/internal/search"
	"menucraft/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	var resolver *assets.Resolver
	if strings.TrimSpace(cfg.AssetsEndpoint) != "" {
		resolver, err = assets.New(cfg.AssetsEndpoint, cfg.AssetsBucket, cfg.AssetsAccessKey, cfg.AssetsSecretKey, cfg.AssetsUseSSL)
		if err != nil {
			log.Fatalf("assets endpoint failed: %v", err)
		}
		if err := resolver.Healthy(ctx); err != nil {
			log.Printf("WARNING: assets bucket check failed (URLs will still resolve): %v", err)
		}
	}

	dataStore := store.NewPostgresStore(db, resolver)

	var invalidator cache.Invalidator = cache.Noop{}
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisInvalidator, err := cache.NewRedisInvalidator(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisInvalidator.Close()
		invalidator = redisInvalidator
		log.Printf("Using Redis for cache tag invalidation")
	}

	pgfts := search.NewPgFTS(db)
	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
	}
	searchService := search.NewService(meiliClient, pgfts)
	if meiliClient != nil {
		defer meiliClient.Close()
	}

	service := app.New(cfg, dataStore, invalidator, searchService)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("MenuCraft API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
