package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopfront/internal/cart"
	"shopfront/internal/record"
	"shopfront/pkg/domain"
)

func TestNewRequiresAPIBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for missing API base URL")
	}
}

func TestLoginWiresTokenIntoProductRequests(t *testing.T) {
	var productAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"user":   domain.User{ID: "user-1", Email: "ada@example.com"},
				"tokens": domain.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
			})
		case "/products/published":
			productAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode([]domain.Product{{ID: "p1", PriceMinor: 1500}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	core, err := New(Config{
		APIBaseURL: srv.URL,
		Records:    record.NewMemoryStore(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer core.Close()

	ctx := context.Background()
	if err := core.Session.Login(ctx, "ada@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	products, err := core.API.PublishedProducts(ctx)
	if err != nil {
		t.Fatalf("published products: %v", err)
	}
	if productAuth != "Bearer access-1" {
		t.Fatalf("expected product request to carry session token, got %q", productAuth)
	}

	core.Cart.Add(cart.LineInput{
		ProductID:      products[0].ID,
		DisplayName:    products[0].Name,
		UnitPriceMinor: products[0].PriceMinor,
		Thumbnail:      products[0].Thumbnail,
		Quantity:       2,
	})
	if got := core.Cart.SelectedTotal(); got != 3000 {
		t.Fatalf("expected selected total 3000, got %d", got)
	}
}

func TestRecordStoreSelection(t *testing.T) {
	if _, err := newRecordStore(Config{SessionStore: "memory"}); err != nil {
		t.Fatalf("memory store: %v", err)
	}
	if _, err := newRecordStore(Config{SessionStore: "file", StateDir: t.TempDir()}); err != nil {
		t.Fatalf("file store: %v", err)
	}
	if _, err := newRecordStore(Config{SessionStore: "sqlite"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
