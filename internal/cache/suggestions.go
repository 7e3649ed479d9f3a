package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// suggestionTTL keeps typeahead results fresh enough while absorbing
	// keystroke-by-keystroke request bursts.
	suggestionTTL = 60 * time.Second

	suggestionPrefix = "suggest:"
)

// SuggestionCache memoizes search-suggestion payloads per query string.
type SuggestionCache struct {
	client *redis.Client
}

// NewSuggestionCache returns a cache over the given Valkey client.
func NewSuggestionCache(client *redis.Client) *SuggestionCache {
	return &SuggestionCache{client: client}
}

func suggestionKey(query string) string {
	return suggestionPrefix + strings.ToLower(strings.TrimSpace(query))
}

// Get returns the cached payload for a query, or (nil, nil) on a miss.
func (c *SuggestionCache) Get(ctx context.Context, query string) (json.RawMessage, error) {
	payload, err := c.client.Get(ctx, suggestionKey(query)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("suggestion cache get: %w", err)
	}
	return payload, nil
}

// Set stores a payload for a query.
func (c *SuggestionCache) Set(ctx context.Context, query string, payload []byte) error {
	if err := c.client.Set(ctx, suggestionKey(query), payload, suggestionTTL).Err(); err != nil {
		return fmt.Errorf("suggestion cache set: %w", err)
	}
	return nil
}
