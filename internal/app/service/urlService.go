// Package service implements the shortener's business logic: shortcode
// allocation, short-link creation, expiry-aware resolution and click
// statistics.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ramakrishnajakkula/url-shortener/internal/geo"
	"github.com/Ramakrishnajakkula/url-shortener/internal/models"
	"github.com/Ramakrishnajakkula/url-shortener/internal/storage"
	"github.com/Ramakrishnajakkula/url-shortener/internal/validate"
	"github.com/Ramakrishnajakkula/url-shortener/internal/worker"
)

// cacheTTL caps how long a resolved link may live in the lookup cache.
const cacheTTL = 10 * time.Minute

// ClickInfo carries the request attributes the analytics path records.
type ClickInfo struct {
	IPAddress string
	Referrer  string
	UserAgent string
}

type URLService struct {
	storage   storage.Store
	allocator *Allocator
	cache     LookupCache
	geo       geo.Resolver
	logger    *zap.Logger
	remote    RemoteLogger
	recorder  *worker.ClickRecorder
	clicks    chan<- storage.ClickEvent
}

// NewURL wires the service and starts the click recorder. cache and remote
// may be nil; geoResolver defaults to the stub when nil.
func NewURL(store storage.Store, cache LookupCache, geoResolver geo.Resolver, logger *zap.Logger, remote RemoteLogger) *URLService {
	if geoResolver == nil {
		geoResolver = geo.Stub{}
	}

	recorder := worker.NewClickRecorder(logger, store)

	s := &URLService{
		storage:   store,
		allocator: NewAllocator(store),
		cache:     cache,
		geo:       geoResolver,
		logger:    logger,
		remote:    remote,
		recorder:  recorder,
		clicks:    recorder.GetInChannel(),
	}

	go recorder.FlushClicks()

	return s
}

func (s *URLService) ship(level, pkg, message string) {
	if s.remote != nil {
		s.remote.Log(level, pkg, message)
	}
}

// Create validates the input, settles on a shortcode and persists the link.
// With no custom code the allocator is used; an insert-time conflict on an
// allocated code is treated as a late collision and retried with a fresh
// code rather than surfaced.
func (s *URLService) Create(ctx context.Context, originalURL, customCode string, validity *int) (*storage.ShortLink, error) {
	s.ship("info", "url-service", "URL shortening request received")

	originalURL = strings.TrimSpace(originalURL)
	if !validate.URL(originalURL) {
		s.ship("error", "url-service", "Invalid URL format provided")
		return nil, ErrInvalidURL
	}

	if !validate.Validity(validity) {
		s.ship("error", "url-service", "Invalid validity duration provided")
		return nil, ErrInvalidValidity
	}
	minutes := DefaultValidityMinutes
	if validity != nil {
		minutes = *validity
	}

	custom := customCode != ""
	code := customCode
	if custom {
		if !validate.Shortcode(customCode) {
			s.ship("error", "url-service", "Invalid custom shortcode format")
			return nil, ErrInvalidShortcode
		}

		available, err := s.allocator.IsAvailable(ctx, customCode)
		if err != nil {
			return nil, err
		}
		if !available {
			s.ship("warn", "url-service", "Custom shortcode collision detected: "+customCode)
			return nil, ErrShortcodeTaken
		}
	} else {
		var err error
		code, err = s.allocator.Generate(ctx)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	link := storage.ShortLink{
		Original:  originalURL,
		Shortcode: code,
		Expiry:    now.Add(time.Duration(minutes) * time.Minute),
		CreatedAt: now,
		IsActive:  true,
	}

	stored, err := s.storage.Write(ctx, link)
	for attempt := 0; errors.Is(err, storage.ErrConflict); attempt++ {
		if custom {
			return nil, ErrShortcodeTaken
		}
		if attempt >= s.allocator.MaxAttempts {
			return nil, ErrAllocationExhausted
		}

		s.ship("warn", "shortcode-generator", "Late shortcode collision on insert, retrying: "+link.Shortcode)
		link.Shortcode, err = s.allocator.Generate(ctx)
		if err != nil {
			return nil, err
		}
		stored, err = s.storage.Write(ctx, link)
	}
	if err != nil {
		s.ship("error", "url-service", "Error creating short URL: "+err.Error())
		return nil, err
	}

	s.warmCache(ctx, stored)
	s.ship("info", "url-service", "URL successfully shortened: "+stored.Shortcode)

	return stored, nil
}

// Resolve returns the link for a redirect. Only active, unexpired records
// resolve; everything else is ErrNotFound. Expiry is checked at read time,
// the record itself is left in place.
func (s *URLService) Resolve(ctx context.Context, code string) (*storage.ShortLink, error) {
	s.ship("debug", "url-service", "Looking up shortcode: "+code)

	if s.cache != nil {
		if original, err := s.cache.Get(ctx, code); err == nil {
			return &storage.ShortLink{Shortcode: code, Original: original}, nil
		}
	}

	link, err := s.storage.FindActiveByCode(ctx, code, time.Now())
	if errors.Is(err, storage.ErrNotFound) {
		s.ship("warn", "url-service", "Shortcode not found or expired: "+code)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.warmCache(ctx, link)
	s.ship("info", "url-service", "Successful lookup for shortcode: "+code)

	return link, nil
}

func (s *URLService) warmCache(ctx context.Context, link *storage.ShortLink) {
	if s.cache == nil {
		return
	}

	ttl := min(cacheTTL, time.Until(link.Expiry))
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, link.Shortcode, link.Original, ttl); err != nil {
		s.logger.Warn("failed to warm lookup cache", zap.Error(err), zap.String("shortcode", link.Shortcode))
	}
}

// RecordClick queues one click event for the recorder. It never blocks and
// never fails the caller: a full buffer drops the event with a warning.
func (s *URLService) RecordClick(code string, info ClickInfo) {
	country, city := s.geo.Resolve(info.IPAddress)

	event := storage.ClickEvent{
		ID:        uuid.NewString(),
		Shortcode: code,
		Timestamp: time.Now(),
		Referrer:  info.Referrer,
		UserAgent: info.UserAgent,
		IPAddress: info.IPAddress,
		Location:  storage.Location{Country: country, City: city},
	}

	select {
	case s.clicks <- event:
		s.ship("debug", "analytics-service", "Click recorded for shortcode: "+code)
	default:
		s.logger.Warn("click buffer full, dropping click", zap.String("shortcode", code))
	}
}

// Statistics assembles the click history for a shortcode. Expired and
// inactive links still report: only a code that never existed is not found.
// Stored IP addresses and user agents stay out of the response.
func (s *URLService) Statistics(ctx context.Context, code string) (*models.StatisticsResponse, error) {
	s.ship("info", "analytics-service", "Statistics requested for shortcode: "+code)

	link, err := s.storage.FindByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		s.ship("warn", "analytics-service", "Statistics requested for non-existent shortcode: "+code)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	events, err := s.storage.FindClickEvents(ctx, code)
	if err != nil {
		return nil, err
	}

	clickData := make([]models.ClickData, 0, len(events))
	for _, e := range events {
		var referrer *string
		if e.Referrer != "" {
			r := e.Referrer
			referrer = &r
		}

		clickData = append(clickData, models.ClickData{
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Referrer:  referrer,
			Location: models.ClickLocation{
				Country: e.Location.Country,
				City:    e.Location.City,
			},
		})
	}

	return &models.StatisticsResponse{
		TotalClicks: link.ClickCount,
		OriginalURL: link.Original,
		CreatedAt:   link.CreatedAt.Format(time.RFC3339),
		Expiry:      link.Expiry.Format(time.RFC3339),
		ClickData:   clickData,
	}, nil
}

func (s *URLService) PingContext(ctx context.Context) error {
	return s.storage.PingContext(ctx)
}

// Close stops the click recorder after a final flush. Call on shutdown,
// after the HTTP server has stopped accepting requests.
func (s *URLService) Close() {
	s.recorder.Stop()
}
