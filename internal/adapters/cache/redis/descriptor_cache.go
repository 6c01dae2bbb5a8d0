package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/SscSPs/persona_ledger/internal/core/services"
	"github.com/redis/go-redis/v9"
)

const (
	descriptorKeyPrefix = "persona:descriptor:"

	// DefaultDescriptorTTL bounds how stale a cached display name can get.
	DefaultDescriptorTTL = 10 * time.Minute
)

// DescriptorCache stores persona descriptors as JSON with a TTL.
type DescriptorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// DescriptorCacheOption configures a DescriptorCache.
type DescriptorCacheOption func(*DescriptorCache)

// WithTTL overrides DefaultDescriptorTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) DescriptorCacheOption {
	return func(c *DescriptorCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewDescriptorCache constructs a cache over client.
func NewDescriptorCache(client *redis.Client, opts ...DescriptorCacheOption) *DescriptorCache {
	c := &DescriptorCache{client: client, ttl: DefaultDescriptorTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var _ services.DescriptorCache = (*DescriptorCache)(nil)

func descriptorKey(id domain.PersonaID) string {
	return descriptorKeyPrefix + id.String()
}

// Get returns the cached descriptor, or nil on a miss.
func (c *DescriptorCache) Get(ctx context.Context, id domain.PersonaID) (*portssvc.PersonaDescriptor, error) {
	raw, err := c.client.Get(ctx, descriptorKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached descriptor %s: %w", id, err)
	}

	var descriptor portssvc.PersonaDescriptor
	if err := json.Unmarshal(raw, &descriptor); err != nil {
		return nil, fmt.Errorf("decode cached descriptor %s: %w", id, err)
	}
	return &descriptor, nil
}

// Set stores descriptor under its persona id.
func (c *DescriptorCache) Set(ctx context.Context, descriptor portssvc.PersonaDescriptor) error {
	raw, err := json.Marshal(descriptor)
	if err != nil {
		return fmt.Errorf("encode descriptor %s: %w", descriptor.ID, err)
	}
	return c.client.Set(ctx, descriptorKey(descriptor.ID), raw, c.ttl).Err()
}
