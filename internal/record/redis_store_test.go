package record

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"shopfront/pkg/domain"
)

func testRecord() SessionRecord {
	return SessionRecord{
		User:   domain.User{ID: "user-1", Name: "Ada", Email: "ada@example.com"},
		Tokens: domain.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
	}
}

func TestRedisStoreSaveLoadClear(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisStore(redis.Addr(), "")
	ctx := context.Background()

	if _, present, err := s.Load(ctx); err != nil || present {
		t.Fatalf("expected empty store, present=%v err=%v", present, err)
	}

	if err := s.Save(ctx, testRecord()); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec, present, err := s.Load(ctx)
	if err != nil || !present {
		t.Fatalf("load: present=%v err=%v", present, err)
	}
	if rec.User.ID != "user-1" || rec.Tokens.AccessToken != "access-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, present, _ := s.Load(ctx); present {
		t.Fatalf("expected record gone after clear")
	}
}

func TestRedisStoreNeverHoldsHalfARecord(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisStore(redis.Addr(), "")
	ctx := context.Background()

	if err := s.Save(ctx, testRecord()); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Simulate an operator deleting one half out-of-band: a load must then
	// report no session at all rather than a torn one.
	redis.Del(userKey)
	if _, present, err := s.Load(ctx); err != nil || present {
		t.Fatalf("half a record must read as no session, present=%v err=%v", present, err)
	}
}

func TestRedisStoreClearIsIdempotent(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisStore(redis.Addr(), "")
	ctx := context.Background()

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}
}
