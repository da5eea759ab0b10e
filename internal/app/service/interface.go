package service

import (
	"context"
	"time"

	"github.com/Ramakrishnajakkula/url-shortener/internal/models"
	"github.com/Ramakrishnajakkula/url-shortener/internal/storage"
)

// URLServiceIface is the surface the HTTP handlers depend on.
//
//go:generate mockgen -source=interface.go -destination=../../mocks/mock_service.go -package=mocks
type URLServiceIface interface {
	Create(ctx context.Context, originalURL, customCode string, validity *int) (*storage.ShortLink, error)
	Resolve(ctx context.Context, code string) (*storage.ShortLink, error)
	RecordClick(code string, info ClickInfo)
	Statistics(ctx context.Context, code string) (*models.StatisticsResponse, error)
	PingContext(ctx context.Context) error
}

// LookupCache is the optional redirect-path cache. Implementations map a
// shortcode to its original URL; a Get miss is an error.
type LookupCache interface {
	Get(ctx context.Context, shortcode string) (string, error)
	Set(ctx context.Context, shortcode, originalURL string, ttl time.Duration) error
}

// RemoteLogger ships operation records to the external log collector.
type RemoteLogger interface {
	Log(level, pkg, message string)
}
