package storage

import "time"

// Location is a best-effort geo resolution of a click's client IP.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// ShortLink is a persisted mapping from a shortcode to its original URL.
// Expired links are invisible to redirection but are never hard-deleted.
type ShortLink struct {
	ID         string    `json:"id"`
	Original   string    `json:"original_url"`
	Shortcode  string    `json:"shortcode"`
	Expiry     time.Time `json:"expiry"`
	CreatedAt  time.Time `json:"created_at"`
	ClickCount int64     `json:"click_count"`
	IsActive   bool      `json:"is_active"`
}

// Expired reports whether the link is unusable for redirection at now.
func (l *ShortLink) Expired(now time.Time) bool {
	return now.After(l.Expiry)
}

// ClickEvent is one recorded redirect attempt. Events are append-only:
// written once by the click recorder, read by statistics, never mutated.
type ClickEvent struct {
	ID        string    `json:"id"`
	Shortcode string    `json:"shortcode"`
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	Location  Location  `json:"location"`
}
