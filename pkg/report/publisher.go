package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

// Key classes for the publisher TTL map.
const (
	KeyLatest   = "latest"
	KeySnapshot = "snapshot"
)

// DefaultKeyPrefix namespaces published report keys.
const DefaultKeyPrefix = "pulse:report"

// PublisherConfig configures the Redis snapshot publisher.
type PublisherConfig struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix namespaces the published keys; defaults to
	// DefaultKeyPrefix.
	KeyPrefix string

	// TTL maps key classes (KeyLatest, KeySnapshot) to expirations.
	// Missing entries inherit defaults: the latest pointer never
	// expires, snapshots expire after 24 hours.
	TTL map[string]time.Duration
}

// Publisher pushes report snapshots into Redis so dashboards and other
// consumers can read them without hitting the API server. Publishing is
// best-effort: the engine stays the source of truth.
type Publisher struct {
	client *redis.Client
	prefix string
	ttl    map[string]time.Duration
}

// NewPublisher creates a publisher and verifies connectivity.
func NewPublisher(config PublisherConfig) (*Publisher, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	ttl := map[string]time.Duration{
		KeyLatest:   0,
		KeySnapshot: 24 * time.Hour,
	}
	for class, d := range config.TTL {
		ttl[class] = d
	}

	return &Publisher{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

// Publish stores the report under the latest pointer and under a
// timestamped snapshot key derived from GeneratedAt.
func (p *Publisher) Publish(ctx context.Context, r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	latestKey := p.prefix + ":" + KeyLatest
	snapshotKey := fmt.Sprintf("%s:%d", p.prefix, r.GeneratedAt.Unix())

	if err := p.client.Set(ctx, latestKey, data, p.ttl[KeyLatest]).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", latestKey, err)
	}
	if err := p.client.Set(ctx, snapshotKey, data, p.ttl[KeySnapshot]).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", snapshotKey, err)
	}

	return nil
}

// Latest reads back the most recently published report. Returns nil
// without error when nothing has been published yet.
func (p *Publisher) Latest(ctx context.Context) (*Report, error) {
	data, err := p.client.Get(ctx, p.prefix+":"+KeyLatest).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var r Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		// If unmarshal fails, delete corrupt data
		p.client.Del(ctx, p.prefix+":"+KeyLatest)
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &r, nil
}

// SnapshotKeys lists stored snapshot keys in sorted order, excluding
// the latest pointer.
func (p *Publisher) SnapshotKeys(ctx context.Context) ([]string, error) {
	latestKey := p.prefix + ":" + KeyLatest

	var keys []string
	iter := p.client.Scan(ctx, 0, p.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if iter.Val() == latestKey {
			continue
		}
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Ping checks Redis connectivity.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client for health checks.
func (p *Publisher) Client() *redis.Client {
	return p.client
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
