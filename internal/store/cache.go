package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ClientSource is the store surface CachedStore wraps.
type ClientSource interface {
	GetClient(ctx context.Context, id string) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	UpsertClient(ctx context.Context, c Client) error
	DeleteClient(ctx context.Context, id string) error
	AddTopic(ctx context.Context, clientID, topic string) error
	RecentTopics(ctx context.Context, clientID string, n int) ([]string, error)
}

// CachedStore is a read-through cache over client records. Topic
// history calls pass straight through; only client lookups are cached,
// since those repeat on every pipeline invocation.
type CachedStore struct {
	inner   ClientSource
	clients *expirable.LRU[string, Client]
}

func NewCached(inner ClientSource, size int, ttl time.Duration) *CachedStore {
	if size <= 0 {
		size = 128
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{
		inner:   inner,
		clients: expirable.NewLRU[string, Client](size, nil, ttl),
	}
}

func (c *CachedStore) GetClient(ctx context.Context, id string) (Client, error) {
	if cached, ok := c.clients.Get(id); ok {
		return cached, nil
	}
	cl, err := c.inner.GetClient(ctx, id)
	if err != nil {
		return Client{}, err
	}
	c.clients.Add(id, cl)
	return cl, nil
}

func (c *CachedStore) ListClients(ctx context.Context) ([]Client, error) {
	return c.inner.ListClients(ctx)
}

func (c *CachedStore) UpsertClient(ctx context.Context, cl Client) error {
	if err := c.inner.UpsertClient(ctx, cl); err != nil {
		return err
	}
	c.clients.Remove(cl.ID)
	return nil
}

func (c *CachedStore) DeleteClient(ctx context.Context, id string) error {
	if err := c.inner.DeleteClient(ctx, id); err != nil {
		return err
	}
	c.clients.Remove(id)
	return nil
}

func (c *CachedStore) AddTopic(ctx context.Context, clientID, topic string) error {
	return c.inner.AddTopic(ctx, clientID, topic)
}

func (c *CachedStore) RecentTopics(ctx context.Context, clientID string, n int) ([]string, error) {
	return c.inner.RecentTopics(ctx, clientID, n)
}
