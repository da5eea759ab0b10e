package service

import (
	"context"
	"errors"
	"math/rand"

	"github.com/Ramakrishnajakkula/url-shortener/internal/storage"
)

// Allocation and validity defaults. Exposed as named values so tests can
// construct allocators with tighter bounds.
const (
	DefaultValidityMinutes = 30
	DefaultCodeLength      = 6
	MaxCodeLength          = 10
	MaxAttemptsPerLength   = 10
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Allocator draws random shortcodes and resolves collisions against the
// store. The strategy is optimistic: the existence check narrows the race
// window, the store's unique index closes it.
type Allocator struct {
	storage storage.Store

	// Length is the starting code length; on MaxAttempts consecutive
	// collisions the allocator grows the code by one character, up to
	// MaxLength, after which allocation fails permanently.
	Length      int
	MaxLength   int
	MaxAttempts int
}

func NewAllocator(s storage.Store) *Allocator {
	return &Allocator{
		storage:     s,
		Length:      DefaultCodeLength,
		MaxLength:   MaxCodeLength,
		MaxAttempts: MaxAttemptsPerLength,
	}
}

// Generate returns a shortcode unused by any record, active or not.
func (a *Allocator) Generate(ctx context.Context) (string, error) {
	for length := a.Length; length <= a.MaxLength; length++ {
		for attempt := 0; attempt < a.MaxAttempts; attempt++ {
			code := randomCode(length)

			available, err := a.IsAvailable(ctx, code)
			if err != nil {
				return "", err
			}
			if available {
				return code, nil
			}
		}
	}

	return "", ErrAllocationExhausted
}

// IsAvailable reports whether no existing record uses code. Expired and
// inactive records still count as taken: shortcodes are never reused.
func (a *Allocator) IsAvailable(ctx context.Context, code string) (bool, error) {
	_, err := a.storage.FindByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return false, nil
}

func randomCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(code)
}
