package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSource struct {
	gets    int
	clients map[string]Client
}

func (s *countingSource) GetClient(ctx context.Context, id string) (Client, error) {
	s.gets++
	c, ok := s.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (s *countingSource) ListClients(ctx context.Context) ([]Client, error) { return nil, nil }

func (s *countingSource) UpsertClient(ctx context.Context, c Client) error {
	s.clients[c.ID] = c
	return nil
}

func (s *countingSource) DeleteClient(ctx context.Context, id string) error {
	delete(s.clients, id)
	return nil
}

func (s *countingSource) AddTopic(ctx context.Context, clientID, topic string) error { return nil }

func (s *countingSource) RecentTopics(ctx context.Context, clientID string, n int) ([]string, error) {
	return nil, nil
}

func TestCachedStoreServesRepeatedReadsFromCache(t *testing.T) {
	src := &countingSource{clients: map[string]Client{"c1": {ID: "c1", Name: "Acme"}}}
	c := NewCached(src, 8, time.Minute)
	ctx := context.Background()

	got, err := c.GetClient(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Name)

	_, err = c.GetClient(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, 1, src.gets)
}

func TestCachedStoreMissIsNotCached(t *testing.T) {
	src := &countingSource{clients: map[string]Client{}}
	c := NewCached(src, 8, time.Minute)
	ctx := context.Background()

	_, err := c.GetClient(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.GetClient(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 2, src.gets)
}

func TestUpsertInvalidatesCacheEntry(t *testing.T) {
	src := &countingSource{clients: map[string]Client{"c1": {ID: "c1", Name: "Old"}}}
	c := NewCached(src, 8, time.Minute)
	ctx := context.Background()

	_, err := c.GetClient(ctx, "c1")
	require.NoError(t, err)

	require.NoError(t, c.UpsertClient(ctx, Client{ID: "c1", Name: "New"}))

	got, err := c.GetClient(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "New", got.Name)
	require.Equal(t, 2, src.gets)
}

func TestDeleteInvalidatesCacheEntry(t *testing.T) {
	src := &countingSource{clients: map[string]Client{"c1": {ID: "c1"}}}
	c := NewCached(src, 8, time.Minute)
	ctx := context.Background()

	_, err := c.GetClient(ctx, "c1")
	require.NoError(t, err)

	require.NoError(t, c.DeleteClient(ctx, "c1"))

	_, err = c.GetClient(ctx, "c1")
	require.ErrorIs(t, err, ErrNotFound)
}
