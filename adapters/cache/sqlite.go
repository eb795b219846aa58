// Package cache stores fetched pages in a SQLite database so metadata
// listings are not re-downloaded on every run.
package cache

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"eurobase/internal/errors"
)

// Fetcher matches bulk.Fetcher; redeclared here so the cache does not
// depend on the packages it wraps.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Store is a SQLite-backed page cache. Expiry follows the reference
// client's session semantics: a zero expiry stores nothing, a negative
// expiry keeps pages forever, a positive expiry is a freshness window.
type Store struct {
	db     *sql.DB
	expire time.Duration
}

// Open opens (or creates) the cache database at path. Use ":memory:"
// for an in-memory cache.
func Open(path string, expire time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Config("open cache database", err)
	}

	store := &Store{db: db, expire: expire}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Config("init cache schema", err)
	}
	return store, nil
}

// initSchema creates the pages table if it doesn't exist
func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS pages (
    url        TEXT PRIMARY KEY,
    body       BLOB NOT NULL,
    fetched_at DATETIME NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached body for url if it is still fresh
func (s *Store) Get(rawURL string) ([]byte, bool, error) {
	if s.expire == 0 {
		return nil, false, nil
	}

	var body []byte
	var fetchedAt time.Time
	err := s.db.QueryRow(
		`SELECT body, fetched_at FROM pages WHERE url = ?`, rawURL,
	).Scan(&body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Internal("query cache", err)
	}

	if s.expire > 0 && time.Since(fetchedAt) > s.expire {
		return nil, false, nil
	}
	return body, true, nil
}

// Put stores a fetched body. A no-op when expiry disables storage.
func (s *Store) Put(rawURL string, body []byte) error {
	if s.expire == 0 {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO pages (url, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		rawURL, body, time.Now().UTC(),
	)
	if err != nil {
		return errors.Internal("store cache entry", err)
	}
	return nil
}

// Prune deletes entries older than the freshness window. A no-op for
// never-expiring caches.
func (s *Store) Prune() error {
	if s.expire <= 0 {
		return nil
	}
	_, err := s.db.Exec(
		`DELETE FROM pages WHERE fetched_at < ?`, time.Now().UTC().Add(-s.expire),
	)
	if err != nil {
		return errors.Internal("prune cache", err)
	}
	return nil
}

// CachingFetcher wraps a Fetcher with the page cache. Neither side knows
// about the other; the bulk provider and the data client can both be
// cached or not by composition.
type CachingFetcher struct {
	store *Store
	inner Fetcher
}

// NewCachingFetcher creates a caching wrapper
func NewCachingFetcher(store *Store, inner Fetcher) *CachingFetcher {
	return &CachingFetcher{store: store, inner: inner}
}

// Fetch implements Fetcher
func (c *CachingFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if body, ok, err := c.store.Get(rawURL); err == nil && ok {
		return body, nil
	}

	body, err := c.inner.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(rawURL, body); err != nil {
		// A failed cache write must not fail the fetch.
		return body, nil
	}
	return body, nil
}
