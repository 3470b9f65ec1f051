package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/talentrag/internal/db"
)

// --- Mocks ---

type mockStore struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	incrByFn func(ctx context.Context, key string, val int64) error
	expireFn func(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	return m.getFn(ctx, key)
}

func (m *mockStore) IncrBy(ctx context.Context, key string, val int64) error {
	return m.incrByFn(ctx, key, val)
}

func (m *mockStore) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	return m.expireFn(ctx, key, ttl, nx)
}

// --- Tests ---

func TestIncrBy_SetsTTLByPeriod(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantTTL time.Duration
	}{
		{"daily key", "talentrag:budget:daily:2026-08-31", 48 * time.Hour},
		{"monthly key", "talentrag:budget:monthly:2026-08", 62 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTTL time.Duration
			var gotNX bool
			ms := &mockStore{
				incrByFn: func(_ context.Context, key string, val int64) error {
					if key != tt.key {
						t.Errorf("IncrBy key = %q, want %q", key, tt.key)
					}
					if val != 100 {
						t.Errorf("IncrBy val = %d, want 100", val)
					}
					return nil
				},
				expireFn: func(_ context.Context, _ string, ttl time.Duration, nx bool) error {
					gotTTL = ttl
					gotNX = nx
					return nil
				},
			}
			s := New(ms, 48*time.Hour, 62*24*time.Hour)

			if err := s.IncrBy(context.Background(), tt.key, 100); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotTTL != tt.wantTTL {
				t.Errorf("TTL = %v, want %v", gotTTL, tt.wantTTL)
			}
			if !gotNX {
				t.Error("expected EXPIRE NX")
			}
		})
	}
}

func TestIncrBy_IncrError(t *testing.T) {
	ms := &mockStore{
		incrByFn: func(_ context.Context, _ string, _ int64) error {
			return errors.New("conn refused")
		},
	}
	s := New(ms, time.Hour, time.Hour)

	if err := s.IncrBy(context.Background(), "talentrag:budget:daily:x", 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_MissingKeyIsZero(t *testing.T) {
	ms := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return nil, db.ErrKeyNotFound
		},
	}
	s := New(ms, time.Hour, time.Hour)

	val, err := s.Get(context.Background(), "talentrag:budget:daily:x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 0 {
		t.Errorf("val = %d, want 0", val)
	}
}

func TestGet_ParsesValue(t *testing.T) {
	ms := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("12345"), nil
		},
	}
	s := New(ms, time.Hour, time.Hour)

	val, err := s.Get(context.Background(), "talentrag:budget:monthly:x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 12345 {
		t.Errorf("val = %d, want 12345", val)
	}
}

func TestGet_GarbageValue(t *testing.T) {
	ms := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("not-a-number"), nil
		},
	}
	s := New(ms, time.Hour, time.Hour)

	if _, err := s.Get(context.Background(), "talentrag:budget:daily:x"); err == nil {
		t.Fatal("expected error")
	}
}
