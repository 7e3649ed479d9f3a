package reset

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client)
}

func TestBeginPendingClear(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := uuid.New()

	pending, err := s.Pending(ctx, userID)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if pending {
		t.Error("no reset issued yet, expected not pending")
	}

	password, err := s.Begin(ctx, userID)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if len(password) != passwordLength {
		t.Errorf("password length: got %d, want %d", len(password), passwordLength)
	}

	pending, err = s.Pending(ctx, userID)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if !pending {
		t.Error("expected pending after Begin")
	}

	// Other users are unaffected.
	pending, err = s.Pending(ctx, uuid.New())
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if pending {
		t.Error("reset marker must be per user")
	}

	if err := s.Clear(ctx, userID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	pending, err = s.Pending(ctx, userID)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if pending {
		t.Error("expected not pending after Clear")
	}
}

func TestMarkerExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	s := NewStore(client)

	ctx := context.Background()
	userID := uuid.New()
	if _, err := s.Begin(ctx, userID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	mr.FastForward(TTL + 1)

	pending, err := s.Pending(ctx, userID)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if pending {
		t.Error("marker must expire after the TTL")
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		password, err := GeneratePassword()
		if err != nil {
			t.Fatalf("GeneratePassword: %v", err)
		}
		if len(password) != passwordLength {
			t.Fatalf("length: got %d, want %d", len(password), passwordLength)
		}
		for _, r := range password {
			if !strings.ContainsRune(alphanumerics, r) {
				t.Fatalf("unexpected character %q in %q", r, password)
			}
		}
		if seen[password] {
			t.Fatalf("duplicate password %q across 20 generations", password)
		}
		seen[password] = true
	}
}
