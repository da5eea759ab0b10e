package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps short links and click events in process memory.
// It is used when no database DSN is configured and throughout the tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	links  map[string]*ShortLink
	clicks map[string][]ClickEvent
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		links:  make(map[string]*ShortLink),
		clicks: make(map[string][]ClickEvent),
	}, nil
}

func (m *MemoryStorage) Write(ctx context.Context, link ShortLink) (*ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.Shortcode]; exists {
		return nil, ErrConflict
	}

	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	stored := link
	m.links[link.Shortcode] = &stored

	out := stored
	return &out, nil
}

func (m *MemoryStorage) FindByCode(ctx context.Context, code string) (*ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[code]
	if !exists {
		return nil, ErrNotFound
	}

	out := *link
	return &out, nil
}

func (m *MemoryStorage) FindActiveByCode(ctx context.Context, code string, now time.Time) (*ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[code]
	if !exists || !link.IsActive || link.Expired(now) {
		return nil, ErrNotFound
	}

	out := *link
	return &out, nil
}

func (m *MemoryStorage) IncrementClicks(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[code]
	if !exists {
		return ErrNotFound
	}

	link.ClickCount++
	return nil
}

func (m *MemoryStorage) WriteClickEvents(ctx context.Context, events []ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		m.clicks[e.Shortcode] = append(m.clicks[e.Shortcode], e)
	}
	return nil
}

func (m *MemoryStorage) FindClickEvents(ctx context.Context, code string) ([]ClickEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ClickEvent, len(m.clicks[code]))
	copy(events, m.clicks[code])

	// Newest first, matching the click-history index order of the SQL backend.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	return events, nil
}

func (m *MemoryStorage) PingContext(ctx context.Context) error {
	return nil
}
