package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramakrishnajakkula/url-shortener/internal/storage"
)

// Helper to set up a mock DB and repository
func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *URLRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := CreateURLRepository(db, zap.NewNop())
	return db, mock, repo
}

func linkColumns() []string {
	return []string{"id", "original_url", "shortcode", "expiry", "created_at", "click_count", "is_active"}
}

func TestWrite(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	link := storage.ShortLink{
		Original:  "https://example.com",
		Shortcode: "abc123",
		Expiry:    time.Now().Add(30 * time.Minute),
		IsActive:  true,
	}

	mock.ExpectExec(`INSERT INTO short_links`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := repo.Write(context.Background(), link)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, link.Original, result.Original)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteUniqueViolation(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO short_links`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.Write(context.Background(), storage.ShortLink{
		Original:  "https://example.com",
		Shortcode: "taken1",
		Expiry:    time.Now().Add(time.Hour),
		IsActive:  true,
	})

	assert.ErrorIs(t, err, storage.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCode(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows(linkColumns()).
		AddRow("id-1", "https://example.com", "abc123", now.Add(time.Hour), now, int64(5), true)

	mock.ExpectQuery(`SELECT id, original_url, shortcode, expiry, created_at, click_count, is_active\s+FROM short_links WHERE shortcode = \$1;`).
		WithArgs("abc123").
		WillReturnRows(rows)

	result, err := repo.FindByCode(context.Background(), "abc123")

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "https://example.com", result.Original)
	assert.Equal(t, int64(5), result.ClickCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCodeNotFound(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM short_links WHERE shortcode = \$1;`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(linkColumns()))

	_, err := repo.FindByCode(context.Background(), "missing")

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByCode(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows(linkColumns()).
		AddRow("id-1", "https://example.com", "abc123", now.Add(time.Hour), now, int64(0), true)

	mock.ExpectQuery(`FROM short_links WHERE shortcode = \$1 AND is_active AND expiry > \$2;`).
		WithArgs("abc123", sqlmock.AnyArg()).
		WillReturnRows(rows)

	result, err := repo.FindActiveByCode(context.Background(), "abc123", now)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "abc123", result.Shortcode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementClicks(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	mock.ExpectExec(`UPDATE short_links SET click_count = click_count \+ 1 WHERE shortcode = \$1;`).
		WithArgs("abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementClicks(context.Background(), "abc123"))

	mock.ExpectExec(`UPDATE short_links SET click_count`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.IncrementClicks(context.Background(), "missing"), storage.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteClickEvents(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	events := []storage.ClickEvent{
		{
			Shortcode: "abc123",
			Timestamp: time.Now(),
			Referrer:  "https://ref.example",
			UserAgent: "curl/8.0",
			IPAddress: "203.0.113.9",
			Location:  storage.Location{Country: "Unknown", City: "Unknown"},
		},
		{
			Shortcode: "abc123",
			Timestamp: time.Now(),
			Location:  storage.Location{Country: "Local", City: "Development"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO click_events`)
	mock.ExpectExec(`INSERT INTO click_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO click_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.WriteClickEvents(context.Background(), events))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteClickEventsEmpty(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	assert.NoError(t, repo.WriteClickEvents(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindClickEvents(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "shortcode", "clicked_at", "referrer", "user_agent", "ip_address", "country", "city"}).
		AddRow("e2", "abc123", now, "https://ref.example", "curl/8.0", "203.0.113.9", "Unknown", "Unknown").
		AddRow("e1", "abc123", now.Add(-time.Minute), nil, nil, nil, "Local", "Development")

	mock.ExpectQuery(`FROM click_events WHERE shortcode = \$1 ORDER BY clicked_at DESC;`).
		WithArgs("abc123").
		WillReturnRows(rows)

	events, err := repo.FindClickEvents(context.Background(), "abc123")

	assert.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "https://ref.example", events[0].Referrer)
	assert.Empty(t, events[1].Referrer)
	assert.Equal(t, "Local", events[1].Location.Country)

	assert.NoError(t, mock.ExpectationsWereMet())
}
