package storage

import "errors"

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned by Write when the shortcode is already taken.
// For the Postgres backend this is the unique-index violation, which is the
// authoritative guard against the check-then-insert race.
var ErrConflict = errors.New("shortcode conflict")
