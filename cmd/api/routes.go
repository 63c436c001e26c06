package main

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/events"
	"bookshelf/internal/httpx"
	"bookshelf/internal/kv"
	"bookshelf/internal/library"
	"bookshelf/internal/platform/googlebooks"

	"github.com/go-chi/chi/v5"
)

type routerDeps struct {
	cfg       config.Config
	store     kv.Store
	client    *googlebooks.Client
	publisher events.Publisher
	limiter   *httpx.RateLimitMiddleware
}

func newRateLimiter(cfg config.Config) *httpx.RateLimitMiddleware {
	return httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

func newRouter(d routerDeps) http.Handler {
	catalogSvc := catalog.NewService(d.client)
	catalogHandler := catalog.NewHTTPHandler(catalogSvc)
	proxyHandler := catalog.NewProxyHandler(d.client, nil)

	store := library.NewStore(d.store, library.WithPublisher(d.publisher))
	libraryHandler := library.NewHTTPHandler(store, catalogSvc)

	api := chi.NewRouter()
	api.Use(httpx.CORSMiddleware(d.cfg.CORSOrigins))
	api.Use(d.limiter.Middleware)
	api.Use(httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes))

	api.Get("/v1/catalog/search", catalogHandler.Search)
	api.Get("/v1/catalog/volumes/{id}", catalogHandler.Volume)
	api.Get("/v1/catalog/categories/{category}", catalogHandler.Category)
	api.Get("/v1/catalog/trending", catalogHandler.Trending)
	libraryHandler.Register(api)

	router := http.NewServeMux()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if p, ok := d.store.(kv.Pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				http.Error(w, "storage not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	// The proxy sets its own wildcard CORS headers and answers preflight itself.
	router.Handle("/api/books", d.limiter.Middleware(proxyHandler))
	router.Handle("/v1/", api)

	var h http.Handler = router
	h = httpx.SecurityHeadersMiddleware(h)
	h = httpx.AccessLogMiddleware(h)
	h = httpx.RequestIDMiddleware(h)
	h = httpx.RecoveryMiddleware(h)
	return h
}
