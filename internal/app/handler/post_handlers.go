package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Ramakrishnajakkula/url-shortener/internal/app/service"
	"github.com/Ramakrishnajakkula/url-shortener/internal/models"
)

type PostHandler struct {
	baseURL    string
	urlService service.URLServiceIface
	logger     *zap.Logger
}

func NewPost(baseURL string, s service.URLServiceIface, l *zap.Logger) *PostHandler {
	return &PostHandler{
		baseURL:    baseURL,
		urlService: s,
		logger:     l,
	}
}

// HandleCreate handles POST /shorturls.
func (h *PostHandler) HandleCreate(res http.ResponseWriter, req *http.Request) {
	var request models.CreateRequest

	if err := decodeJSONBody(res, req, &request); err != nil {
		var mr *malformedRequest
		if errors.As(err, &mr) {
			writeError(res, mr.status, CodeMissingURL, mr.msg)
			return
		}

		h.logger.Error("cannot decode create request", zap.Error(err))
		writeError(res, http.StatusInternalServerError, CodeInternalError, "An internal server error occurred")
		return
	}

	if request.URL == "" {
		writeError(res, http.StatusBadRequest, CodeMissingURL, "URL is required")
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	link, err := h.urlService.Create(ctx, request.URL, request.Shortcode, request.Validity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			writeError(res, http.StatusBadRequest, CodeInvalidURL, "The provided URL format is invalid")
		case errors.Is(err, service.ErrInvalidShortcode):
			writeError(res, http.StatusBadRequest, CodeInvalidShortcode, "Shortcode must be alphanumeric and 3-20 characters long")
		case errors.Is(err, service.ErrShortcodeTaken):
			writeError(res, http.StatusConflict, CodeShortcodeCollision, "The requested shortcode is already in use")
		case errors.Is(err, service.ErrInvalidValidity):
			writeError(res, http.StatusBadRequest, CodeInvalidValidity, "Validity must be a positive number of minutes")
		default:
			h.logger.Error("cannot create short URL", zap.Error(err))
			writeError(res, http.StatusInternalServerError, CodeInternalError, "An internal server error occurred")
		}
		return
	}

	writeJSON(res, http.StatusCreated, models.CreateResponse{
		ShortLink: h.baseURL + "/" + link.Shortcode,
		Expiry:    link.Expiry.UTC().Format(time.RFC3339),
	})
}
