// Package handler maps HTTP requests onto the URL service and shapes
// responses and error bodies.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Ramakrishnajakkula/url-shortener/internal/models"
)

// Error codes of the public API.
const (
	CodeMissingURL         = "MISSING_URL"
	CodeInvalidURL         = "INVALID_URL"
	CodeInvalidShortcode   = "INVALID_SHORTCODE"
	CodeShortcodeCollision = "SHORTCODE_COLLISION"
	CodeInvalidValidity    = "INVALID_VALIDITY"
	CodeShortcodeNotFound  = "SHORTCODE_NOT_FOUND"
	CodeRouteNotFound      = "ROUTE_NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

func writeJSON(res http.ResponseWriter, status int, body any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)

	if err := json.NewEncoder(res).Encode(body); err != nil {
		// Headers are written already; nothing to do but give up on the body.
		return
	}
}

func writeError(res http.ResponseWriter, status int, code, message string) {
	writeJSON(res, status, models.ErrorBody{
		Error: models.ErrorDetail{
			Code:      code,
			Message:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// malformedRequest represents an error with a malformed HTTP request body.
type malformedRequest struct {
	status int
	msg    string
}

func (mr *malformedRequest) Error() string {
	return mr.msg
}

// decodeJSONBody decodes a JSON request body into dst, translating the
// common failure modes into client-facing messages.
func decodeJSONBody(res http.ResponseWriter, req *http.Request, dst any) error {
	ct := req.Header.Get("Content-Type")
	if ct != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
		if mediaType != "application/json" {
			return &malformedRequest{status: http.StatusUnsupportedMediaType, msg: "Content-Type header is not application/json"}
		}
	}

	req.Body = http.MaxBytesReader(res, req.Body, 1048576)

	err := json.NewDecoder(req.Body).Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError

		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.ErrUnexpectedEOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "Request body contains badly-formed JSON"}

		case errors.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.EOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "Request body must not be empty"}

		case err.Error() == "http: request body too large":
			return &malformedRequest{status: http.StatusRequestEntityTooLarge, msg: "Request body must not be larger than 1MB"}

		default:
			return err
		}
	}

	return nil
}

// clientIP extracts the client address for analytics. The router's RealIP
// middleware already rewrites RemoteAddr from proxy headers when present, so
// RemoteAddr takes precedence, then the raw headers, then the loopback
// default.
func clientIP(req *http.Request) string {
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil && host != "" {
		return host
	}
	if req.RemoteAddr != "" && net.ParseIP(req.RemoteAddr) != nil {
		return req.RemoteAddr
	}
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if rip := req.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	return "127.0.0.1"
}
