package storage

import (
	"context"
	"time"
)

// Store is the persistence surface shared by the Postgres repository and the
// in-memory fallback. It is the single source of truth for shortcode
// uniqueness; Write must fail with ErrConflict on a duplicate shortcode.
type Store interface {
	Write(ctx context.Context, link ShortLink) (*ShortLink, error)
	FindByCode(ctx context.Context, code string) (*ShortLink, error)
	FindActiveByCode(ctx context.Context, code string, now time.Time) (*ShortLink, error)
	IncrementClicks(ctx context.Context, code string) error
	WriteClickEvents(ctx context.Context, events []ClickEvent) error
	FindClickEvents(ctx context.Context, code string) ([]ClickEvent, error)
	PingContext(ctx context.Context) error
}
