// Package models defines the request and response bodies of the HTTP API.
package models

// CreateRequest is the body of POST /shorturls.
type CreateRequest struct {
	// URL is the original URL to be shortened. Required.
	URL string `json:"url"`

	// Shortcode optionally pins a custom code instead of an allocated one.
	Shortcode string `json:"shortcode,omitempty"`

	// Validity is the validity window in minutes; nil applies the default.
	Validity *int `json:"validity,omitempty"`
}

// CreateResponse is the 201 body of POST /shorturls.
type CreateResponse struct {
	// ShortLink is the externally visible short URL (base URL + shortcode).
	ShortLink string `json:"shortLink"`

	// Expiry is the RFC 3339 timestamp after which the link stops resolving.
	Expiry string `json:"expiry"`
}

// ClickData is one click row in a statistics response. The stored IP address
// and user agent are deliberately not exposed here.
type ClickData struct {
	Timestamp string        `json:"timestamp"`
	Referrer  *string       `json:"referrer"`
	Location  ClickLocation `json:"location"`
}

type ClickLocation struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// StatisticsResponse is the 200 body of GET /shorturls/{shortcode}.
type StatisticsResponse struct {
	TotalClicks int64       `json:"totalClicks"`
	OriginalURL string      `json:"originalUrl"`
	CreatedAt   string      `json:"createdAt"`
	Expiry      string      `json:"expiry"`
	ClickData   []ClickData `json:"clickData"`
}

// HealthResponse is the 200 body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version"`
}

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
