package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/Ramakrishnajakkula/url-shortener/internal/app/server"
	"github.com/Ramakrishnajakkula/url-shortener/internal/app/service"
	"github.com/Ramakrishnajakkula/url-shortener/internal/cache"
	"github.com/Ramakrishnajakkula/url-shortener/internal/config"
	"github.com/Ramakrishnajakkula/url-shortener/internal/geo"
	"github.com/Ramakrishnajakkula/url-shortener/internal/logger"
	"github.com/Ramakrishnajakkula/url-shortener/internal/logship"
	"github.com/Ramakrishnajakkula/url-shortener/internal/repository"
	"github.com/Ramakrishnajakkula/url-shortener/internal/storage"
)

var buildVersion = "1.0.0"

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	options := config.Parse()

	log, err := logger.New("info")
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	var echo *zap.Logger
	if !options.Production() {
		echo = log
	}
	remote := logship.New(options.LogServerURL, echo)
	defer remote.Close()

	remote.Info("server", "Starting URL Shortener Microservice...")

	var store storage.Store
	if options.DatabaseDSN != "" {
		db, err := repository.InitDB(options.DatabaseDSN, log)
		if err != nil {
			remote.Fatal("database", "Store connection failed: "+err.Error())
			remote.Close()
			log.Fatal("cannot connect to store", zap.Error(err))
		}
		defer db.Close()

		store = repository.CreateURLRepository(db, log)
	} else {
		log.Info("no store DSN configured, using in-memory storage")

		mem, err := storage.CreateMemoryStorage()
		if err != nil {
			log.Fatal("cannot create memory storage", zap.Error(err))
		}
		store = mem
	}

	var lookupCache service.LookupCache
	if options.RedisAddr != "" {
		c, err := cache.ConnectRedis(options.RedisAddr, options.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, running without lookup cache", zap.Error(err))
		} else {
			defer c.Close()
			lookupCache = c
		}
	}

	var geoResolver geo.Resolver = geo.Stub{}
	if options.GeoIPDB != "" {
		mm, err := geo.OpenMaxMind(options.GeoIPDB)
		if err != nil {
			log.Warn("cannot open GeoIP database, falling back to stub locations", zap.Error(err))
		} else {
			defer mm.Close()
			geoResolver = mm
		}
	}

	svc := service.NewURL(store, lookupCache, geoResolver, log, remote)
	r := server.Init(options.BaseURL, buildVersion, log, svc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + options.Port,
		Handler: r,
	}

	if options.EnableHTTPS {
		manager := &autocert.Manager{
			Cache:  autocert.DirCache("cache-dir"),
			Prompt: autocert.AcceptTOS,
		}
		if u, err := url.Parse(options.BaseURL); err == nil && u.Hostname() != "" {
			manager.HostPolicy = autocert.HostWhitelist(u.Hostname())
		}
		srv.Addr = ":443"
		srv.TLSConfig = manager.TLSConfig()
	}

	errChan := make(chan error, 1)
	go func() {
		if options.EnableHTTPS {
			errChan <- srv.ListenAndServeTLS("", "")
		} else {
			errChan <- srv.ListenAndServe()
		}
	}()

	remote.Info("server", "Server running on port "+options.Port)
	log.Info("Server is running", zap.String("port", options.Port), zap.String("baseURL", options.BaseURL))

	select {
	case <-ctx.Done():
		remote.Info("server", "Shutdown signal received, shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			remote.Fatal("server", "Failed to start server: "+err.Error())
			log.Error("server stopped", zap.Error(err))
		}
	}

	// Final flush of any queued click events.
	svc.Close()
}
