// Package server wires the chi router for the public HTTP API.
package server

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Ramakrishnajakkula/url-shortener/internal/app/handler"
	"github.com/Ramakrishnajakkula/url-shortener/internal/app/service"
	"github.com/Ramakrishnajakkula/url-shortener/internal/middleware"
)

// Init builds the router. baseURL is used to compose returned short links;
// version is reported by the health endpoint.
func Init(baseURL, version string, logger *zap.Logger, svc service.URLServiceIface) *chi.Mux {
	post := handler.NewPost(baseURL, svc, logger)
	get := handler.NewGet(svc, logger, version)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithGzip)

	r.Post("/shorturls", post.HandleCreate)
	r.Get("/shorturls/{shortcode}", get.Statistics)
	r.Get("/health", get.Health)
	r.Get("/{shortcode}", get.Redirect)

	r.NotFound(handler.RouteNotFound)
	r.MethodNotAllowed(handler.RouteNotFound)

	return r
}
