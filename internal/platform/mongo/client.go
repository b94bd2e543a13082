// Package mongo connects to the MongoDB document store.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const retryInterval = 3 * time.Second

// Connect dials uri and pings the primary until it answers or timeout elapses.
// Transactions need a replica set, so the URI should name one.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pctx, readpref.Primary())
		cancel()
		if err == nil {
			slog.Info("MongoDB connection successful")
			return client, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping failed after %v: %w", timeout, err)
		}
		slog.Warn("MongoDB ping failed, retrying", "error", err, "retry_in", retryInterval)
		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// IndexSource is implemented by adapters that own collection indexes.
type IndexSource interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the indexes of every source in order.
func EnsureIndexes(ctx context.Context, sources ...IndexSource) error {
	for _, s := range sources {
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}
