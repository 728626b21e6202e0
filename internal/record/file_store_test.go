package record

import (
	"context"
	"testing"
)

func TestFileStoreSaveLoadClear(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
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
	if rec.User.Email != "ada@example.com" || rec.Tokens.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, present, _ := s.Load(ctx); present {
		t.Fatalf("expected record gone after clear")
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear must be idempotent: %v", err)
	}
}

func TestFileStoreSaveReplacesPreviousRecord(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, testRecord()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	next := testRecord()
	next.Tokens.AccessToken = "access-2"
	if err := s.Save(ctx, next); err != nil {
		t.Fatalf("second save: %v", err)
	}
	rec, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Tokens.AccessToken != "access-2" {
		t.Fatalf("expected replaced record, got %+v", rec.Tokens)
	}
}

func TestFileStoreRequiresStateDir(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatalf("expected error for blank state dir")
	}
}
