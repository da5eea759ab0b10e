package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWriteAndFind(t *testing.T) {
	m, err := CreateMemoryStorage()
	require.NoError(t, err)

	ctx := context.Background()
	link := ShortLink{
		Original:  "https://example.com/page",
		Shortcode: "abc123",
		Expiry:    time.Now().Add(30 * time.Minute),
		IsActive:  true,
	}

	stored, err := m.Write(ctx, link)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())

	found, err := m.FindByCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", found.Original)

	_, err = m.FindByCode(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryWriteConflict(t *testing.T) {
	m, _ := CreateMemoryStorage()
	ctx := context.Background()

	link := ShortLink{Original: "https://a.com", Shortcode: "dup", Expiry: time.Now().Add(time.Hour), IsActive: true}
	_, err := m.Write(ctx, link)
	require.NoError(t, err)

	_, err = m.Write(ctx, ShortLink{Original: "https://b.com", Shortcode: "dup", Expiry: time.Now().Add(time.Hour), IsActive: true})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemoryFindActiveByCode(t *testing.T) {
	m, _ := CreateMemoryStorage()
	ctx := context.Background()
	now := time.Now()

	_, err := m.Write(ctx, ShortLink{Original: "https://live.com", Shortcode: "live", Expiry: now.Add(time.Hour), IsActive: true})
	require.NoError(t, err)
	_, err = m.Write(ctx, ShortLink{Original: "https://old.com", Shortcode: "old", Expiry: now.Add(-time.Minute), IsActive: true})
	require.NoError(t, err)
	_, err = m.Write(ctx, ShortLink{Original: "https://off.com", Shortcode: "off", Expiry: now.Add(time.Hour), IsActive: false})
	require.NoError(t, err)

	found, err := m.FindActiveByCode(ctx, "live", now)
	require.NoError(t, err)
	assert.Equal(t, "https://live.com", found.Original)

	_, err = m.FindActiveByCode(ctx, "old", now)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.FindActiveByCode(ctx, "off", now)
	assert.ErrorIs(t, err, ErrNotFound)

	// The expired record is still reachable without the active gate.
	kept, err := m.FindByCode(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "https://old.com", kept.Original)
}

func TestMemoryIncrementClicks(t *testing.T) {
	m, _ := CreateMemoryStorage()
	ctx := context.Background()

	_, err := m.Write(ctx, ShortLink{Original: "https://x.com", Shortcode: "x1", Expiry: time.Now().Add(time.Hour), IsActive: true})
	require.NoError(t, err)

	require.NoError(t, m.IncrementClicks(ctx, "x1"))
	require.NoError(t, m.IncrementClicks(ctx, "x1"))

	found, err := m.FindByCode(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.ClickCount)

	assert.ErrorIs(t, m.IncrementClicks(ctx, "missing"), ErrNotFound)
}

func TestMemoryClickEventsNewestFirst(t *testing.T) {
	m, _ := CreateMemoryStorage()
	ctx := context.Background()
	base := time.Now()

	events := []ClickEvent{
		{Shortcode: "c1", Timestamp: base.Add(-2 * time.Minute), Referrer: "first"},
		{Shortcode: "c1", Timestamp: base.Add(-1 * time.Minute), Referrer: "second"},
		{Shortcode: "c1", Timestamp: base, Referrer: "third"},
		{Shortcode: "other", Timestamp: base},
	}
	require.NoError(t, m.WriteClickEvents(ctx, events))

	got, err := m.FindClickEvents(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Referrer)
	assert.Equal(t, "second", got[1].Referrer)
	assert.Equal(t, "first", got[2].Referrer)

	none, err := m.FindClickEvents(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, none)
}
