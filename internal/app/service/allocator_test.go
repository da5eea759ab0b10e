package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramakrishnajakkula/url-shortener/internal/storage"
)

var alnumRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// collidingStore reports every code up to takenLen characters as taken.
type collidingStore struct {
	*storage.MemoryStorage
	takenLen int
}

func (c *collidingStore) FindByCode(ctx context.Context, code string) (*storage.ShortLink, error) {
	if len(code) <= c.takenLen {
		return &storage.ShortLink{Shortcode: code}, nil
	}
	return nil, storage.ErrNotFound
}

func TestAllocatorGenerate(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	a := NewAllocator(mem)

	code, err := a.Generate(context.Background())

	require.NoError(t, err)
	assert.Len(t, code, DefaultCodeLength)
	assert.Regexp(t, alnumRe, code)
}

func TestAllocatorGrowsOnCollisions(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	a := NewAllocator(&collidingStore{MemoryStorage: mem, takenLen: DefaultCodeLength})

	code, err := a.Generate(context.Background())

	require.NoError(t, err)
	assert.Len(t, code, DefaultCodeLength+1)
}

func TestAllocatorExhausted(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	a := NewAllocator(&collidingStore{MemoryStorage: mem, takenLen: MaxCodeLength})

	_, err := a.Generate(context.Background())

	assert.ErrorIs(t, err, ErrAllocationExhausted)
}

func TestAllocatorIsAvailable(t *testing.T) {
	mem, _ := storage.CreateMemoryStorage()
	ctx := context.Background()

	// Taken codes stay taken even once expired or deactivated.
	_, err := mem.Write(ctx, storage.ShortLink{
		Original:  "https://example.com",
		Shortcode: "gone99",
		Expiry:    time.Now().Add(-time.Hour),
		IsActive:  false,
	})
	require.NoError(t, err)

	a := NewAllocator(mem)

	available, err := a.IsAvailable(ctx, "gone99")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = a.IsAvailable(ctx, "fresh1")
	require.NoError(t, err)
	assert.True(t, available)
}
