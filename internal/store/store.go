// Package store persists client records and per-client topic history
// in Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNotFound = errors.New("store: not found")

// Client is one managed website posts are generated for.
type Client struct {
	ID         string
	Name       string
	WebsiteURL string
	SitemapURL string
	CreatedAt  time.Time
}

type Store struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

// Open connects via the pgx stdlib driver. The schema is created lazily
// on first use.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS clients (
  client_id TEXT PRIMARY KEY,
  client_name TEXT NOT NULL DEFAULT '',
  website_url TEXT NOT NULL DEFAULT '',
  sitemap_url TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS topic_history (
  id SERIAL PRIMARY KEY,
  client_id TEXT NOT NULL,
  topic TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  UNIQUE (client_id, topic)
);
CREATE INDEX IF NOT EXISTS idx_topic_history_client_id ON topic_history (client_id);
`)
	})
	return s.schemaErr
}

// GetClient returns one client record or ErrNotFound.
func (s *Store) GetClient(ctx context.Context, id string) (Client, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Client{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT client_id, client_name, website_url, sitemap_url, created_at
FROM clients WHERE client_id = $1`, id)
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.WebsiteURL, &c.SitemapURL, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	if err != nil {
		return Client{}, fmt.Errorf("get client %s: %w", id, err)
	}
	return c, nil
}

// ListClients returns every client ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT client_id, client_name, website_url, sitemap_url, created_at
FROM clients ORDER BY client_name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	out := make([]Client, 0, 16)
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.WebsiteURL, &c.SitemapURL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertClient inserts or updates a client record.
func (s *Store) UpsertClient(ctx context.Context, c Client) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("client id is required")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO clients (client_id, client_name, website_url, sitemap_url)
VALUES ($1,$2,$3,$4)
ON CONFLICT (client_id)
DO UPDATE SET client_name=EXCLUDED.client_name,
  website_url=EXCLUDED.website_url,
  sitemap_url=EXCLUDED.sitemap_url`,
		c.ID, c.Name, c.WebsiteURL, c.SitemapURL)
	if err != nil {
		return fmt.Errorf("upsert client %s: %w", c.ID, err)
	}
	return nil
}

// DeleteClient removes a client and its topic history.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM topic_history WHERE client_id = $1`, id); err != nil {
		return fmt.Errorf("delete topic history %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE client_id = $1`, id); err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	return tx.Commit()
}

// AddTopic records a topic as used for the client. Duplicate topics are
// a no-op so reruns cannot bloat the history.
func (s *Store) AddTopic(ctx context.Context, clientID, topic string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO topic_history (client_id, topic)
VALUES ($1, $2)
ON CONFLICT (client_id, topic) DO NOTHING`, clientID, topic)
	if err != nil {
		return fmt.Errorf("add topic for %s: %w", clientID, err)
	}
	return nil
}

// RecentTopics returns the client's newest topics, most recent first.
func (s *Store) RecentTopics(ctx context.Context, clientID string, n int) ([]string, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT topic FROM topic_history
WHERE client_id = $1
ORDER BY created_at DESC
LIMIT $2`, clientID, n)
	if err != nil {
		return nil, fmt.Errorf("recent topics for %s: %w", clientID, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
