package transport

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver
)

// CacheFileName is the name of the SQLite database inside the cache directory.
const CacheFileName = "responses.db"

// Cache stores successful responses in SQLite.
// It is safe for concurrent use: the pool is limited to one connection,
// which serializes all reads and writes.
type Cache struct {
	db     *sql.DB
	dbPath string
	ttl    time.Duration
	now    func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets how long an entry stays valid. Zero keeps entries forever.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// withClock replaces time.Now. Used by tests to age entries.
func withClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// OpenCache opens or creates the response cache in dir.
func OpenCache(dir string, opts ...CacheOption) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, CacheFileName)
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &Cache{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := c.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

func (c *Cache) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		content_type TEXT,
		body BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at);
	`
	_, err := c.db.ExecContext(ctx, schema)
	return err
}

// CacheKey returns the cache key of a request: the hex SHA3-256 digest of
// the method and the URL separated by a space.
func CacheKey(method, rawURL string) string {
	sum := sha3.Sum256([]byte(method + " " + rawURL))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for key.
// The boolean is false when there is no entry or the entry has expired.
func (c *Cache) Get(ctx context.Context, key string) (*Response, bool, error) {
	query := `
	SELECT url, status_code, content_type, body, fetched_at
	FROM responses WHERE key = ?
	`

	var (
		resp        Response
		contentType sql.NullString
		fetchedAt   int64
	)
	err := c.db.QueryRowContext(ctx, query, key).Scan(
		&resp.URL, &resp.StatusCode, &contentType, &resp.Body, &fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	resp.ContentType = contentType.String
	resp.FetchedAt = time.Unix(0, fetchedAt)
	resp.FromCache = true

	if c.ttl > 0 && c.now().Sub(resp.FetchedAt) > c.ttl {
		return nil, false, nil
	}

	return &resp, true, nil
}

// Put stores resp under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, resp *Response) error {
	query := `
	INSERT INTO responses (key, url, status_code, content_type, body, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		url = excluded.url,
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		body = excluded.body,
		fetched_at = excluded.fetched_at
	`

	fetchedAt := resp.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = c.now()
	}

	_, err := c.db.ExecContext(ctx, query,
		key, resp.URL, resp.StatusCode, resp.ContentType, resp.Body, fetchedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM responses"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM responses").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}
