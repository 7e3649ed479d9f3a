// Package reset manages password-reset credentials. A reset generates a
// random temporary password; a marker is kept in Valkey with a TTL so a
// reset can only be redeemed within the window. Delivering the
// credential to the user is the notifier's concern, not ours.
package reset

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// TTL is how long a reset credential remains redeemable.
	TTL = time.Hour

	// keyPrefix namespaces reset markers in Valkey.
	keyPrefix = "pwreset:"

	// passwordLength is the length of generated temporary passwords.
	passwordLength = 12
)

const alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Store tracks pending password resets in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a reset store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: TTL}
}

// Begin records that a reset was issued for the user and returns the
// generated temporary password. Re-issuing overwrites the previous
// marker and restarts the window.
func (s *Store) Begin(ctx context.Context, userID uuid.UUID) (string, error) {
	password, err := GeneratePassword()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, keyPrefix+userID.String(), time.Now().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store reset marker: %w", err)
	}
	return password, nil
}

// Pending reports whether the user has an unexpired reset outstanding.
func (s *Store) Pending(ctx context.Context, userID uuid.UUID) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+userID.String()).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check reset marker: %w", err)
	}
	return true, nil
}

// Clear removes the reset marker, typically after the user sets a
// permanent password.
func (s *Store) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, keyPrefix+userID.String()).Err(); err != nil {
		return fmt.Errorf("clear reset marker: %w", err)
	}
	return nil
}

// GeneratePassword produces a cryptographically random alphanumeric
// temporary password.
func GeneratePassword() (string, error) {
	b := make([]byte, passwordLength)
	max := big.NewInt(int64(len(alphanumerics)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b[i] = alphanumerics[n.Int64()]
	}
	return string(b), nil
}
