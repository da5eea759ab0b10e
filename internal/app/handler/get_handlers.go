package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Ramakrishnajakkula/url-shortener/internal/app/service"
	"github.com/Ramakrishnajakkula/url-shortener/internal/models"
)

const serviceName = "URL Shortener Microservice"

type GetHandler struct {
	service service.URLServiceIface
	logger  *zap.Logger
	version string
}

func NewGet(s service.URLServiceIface, l *zap.Logger, version string) *GetHandler {
	return &GetHandler{
		service: s,
		logger:  l,
		version: version,
	}
}

// Redirect handles GET /{shortcode}. The click is recorded after the lookup
// succeeds and never gates the 302.
func (h *GetHandler) Redirect(res http.ResponseWriter, req *http.Request) {
	shortcode := chi.URLParam(req, "shortcode")

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	link, err := h.service.Resolve(ctx, shortcode)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(res, http.StatusNotFound, CodeShortcodeNotFound, "The requested shortcode does not exist or has expired")
			return
		}

		h.logger.Error("cannot resolve shortcode", zap.Error(err), zap.String("shortcode", shortcode))
		writeError(res, http.StatusInternalServerError, CodeInternalError, "An internal server error occurred")
		return
	}

	h.service.RecordClick(shortcode, service.ClickInfo{
		IPAddress: clientIP(req),
		Referrer:  req.Referer(),
		UserAgent: req.UserAgent(),
	})

	http.Redirect(res, req, link.Original, http.StatusFound)
}

// Statistics handles GET /shorturls/{shortcode}. Unlike redirection it is not
// gated on the active flag or expiry.
func (h *GetHandler) Statistics(res http.ResponseWriter, req *http.Request) {
	shortcode := chi.URLParam(req, "shortcode")

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	stats, err := h.service.Statistics(ctx, shortcode)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(res, http.StatusNotFound, CodeShortcodeNotFound, "The requested shortcode does not exist")
			return
		}

		h.logger.Error("cannot load statistics", zap.Error(err), zap.String("shortcode", shortcode))
		writeError(res, http.StatusInternalServerError, CodeInternalError, "An internal server error occurred")
		return
	}

	writeJSON(res, http.StatusOK, stats)
}

// Health handles GET /health.
func (h *GetHandler) Health(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
		Version:   h.version,
	})
}

// RouteNotFound is the catch-all for unroutable paths and methods.
func RouteNotFound(res http.ResponseWriter, req *http.Request) {
	writeError(res, http.StatusNotFound, CodeRouteNotFound, "The requested route does not exist")
}
