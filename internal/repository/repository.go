package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/Ramakrishnajakkula/url-shortener/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// InitDB opens the Postgres connection and applies embedded migrations.
func InitDB(dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	logger.Info("Database connected and migrations applied")
	return db, nil
}

func runMigrations(db *sql.DB) error {
	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// URLRepository is the Postgres implementation of storage.Store.
type URLRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreateURLRepository(db *sql.DB, logger *zap.Logger) *URLRepository {
	return &URLRepository{
		db:     db,
		logger: logger,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *URLRepository) Write(ctx context.Context, link storage.ShortLink) (*storage.ShortLink, error) {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO short_links(id, original_url, shortcode, expiry, created_at, click_count, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		link.ID, link.Original, link.Shortcode, link.Expiry, link.CreatedAt, link.ClickCount, link.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrConflict
		}
		r.logger.Error("short link insert failed", zap.Error(err))
		return nil, err
	}

	return &link, nil
}

func (r *URLRepository) FindByCode(ctx context.Context, code string) (*storage.ShortLink, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, original_url, shortcode, expiry, created_at, click_count, is_active
		 FROM short_links WHERE shortcode = $1;`, code)

	return scanShortLink(row)
}

func (r *URLRepository) FindActiveByCode(ctx context.Context, code string, now time.Time) (*storage.ShortLink, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, original_url, shortcode, expiry, created_at, click_count, is_active
		 FROM short_links WHERE shortcode = $1 AND is_active AND expiry > $2;`, code, now)

	return scanShortLink(row)
}

func scanShortLink(row *sql.Row) (*storage.ShortLink, error) {
	var link storage.ShortLink
	err := row.Scan(&link.ID, &link.Original, &link.Shortcode, &link.Expiry, &link.CreatedAt, &link.ClickCount, &link.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &link, nil
}

func (r *URLRepository) IncrementClicks(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE short_links SET click_count = click_count + 1 WHERE shortcode = $1;`, code)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (r *URLRepository) WriteClickEvents(ctx context.Context, events []storage.ClickEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO click_events(id, shortcode, clicked_at, referrer, user_agent, ip_address, country, city)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		_, err = stmt.ExecContext(ctx, e.ID, e.Shortcode, e.Timestamp,
			nullable(e.Referrer), nullable(e.UserAgent), nullable(e.IPAddress),
			e.Location.Country, e.Location.City)
		if err != nil {
			r.logger.Error("click event insert failed", zap.Error(err), zap.String("shortcode", e.Shortcode))
			return err
		}
	}

	return tx.Commit()
}

func (r *URLRepository) FindClickEvents(ctx context.Context, code string) ([]storage.ClickEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, shortcode, clicked_at, referrer, user_agent, ip_address, country, city
		 FROM click_events WHERE shortcode = $1 ORDER BY clicked_at DESC;`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]storage.ClickEvent, 0)
	for rows.Next() {
		var (
			e                       storage.ClickEvent
			referrer, userAgent, ip sql.NullString
		)
		err = rows.Scan(&e.ID, &e.Shortcode, &e.Timestamp, &referrer, &userAgent, &ip, &e.Location.Country, &e.Location.City)
		if err != nil {
			return nil, err
		}
		e.Referrer = referrer.String
		e.UserAgent = userAgent.String
		e.IPAddress = ip.String
		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *URLRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
