package app

import (
	"fmt"
	"time"

	"shopfront/internal/api"
	"shopfront/internal/cart"
	"shopfront/internal/events"
	"shopfront/internal/imagecache"
	"shopfront/internal/record"
	"shopfront/internal/session"
)

// Config holds runtime configuration for the storefront core.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration

	SessionStore  string
	StateDir      string
	RedisAddr     string
	RedisPassword string
	DatabaseURL   string

	AMQPURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Records overrides the configured record store (used by tests).
	Records record.Store
}

// App wires the storefront core: the API client, the session and cart
// stores, and the optional activity stream and thumbnail warmer.
type App struct {
	API     *api.Client
	Session *session.Store
	Cart    *cart.Store
	Images  *imagecache.Warmer

	publisher *events.Publisher
}

// New constructs the storefront core from configuration.
func New(cfg Config) (*App, error) {
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL required")
	}

	records := cfg.Records
	if records == nil {
		var err error
		records, err = newRecordStore(cfg)
		if err != nil {
			return nil, err
		}
	}

	client := api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout))
	sessionStore := session.NewStore(client, records)
	client.SetTokenSource(sessionStore.AccessToken)
	cartStore := cart.NewStore()

	a := &App{
		API:     client,
		Session: sessionStore,
		Cart:    cartStore,
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewPublisher(cfg.AMQPURL)
		if err != nil {
			return nil, fmt.Errorf("init activity publisher: %w", err)
		}
		a.publisher = publisher
		cartStore.Subscribe(func() {
			user, _ := sessionStore.User()
			publisher.Publish("cart.updated", user.ID, cartStore.Count())
		})
		sessionStore.Subscribe(func() {
			user, _ := sessionStore.User()
			publisher.Publish("session.updated", user.ID, 0)
		})
	}

	if cfg.MinioEndpoint != "" {
		objects, err := imagecache.NewMinioStore(
			cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			return nil, fmt.Errorf("init thumbnail cache: %w", err)
		}
		a.Images = imagecache.NewWarmer(objects)
	}

	return a, nil
}

func newRecordStore(cfg Config) (record.Store, error) {
	switch cfg.SessionStore {
	case "", "memory":
		return record.NewMemoryStore(), nil
	case "file":
		return record.NewFileStore(cfg.StateDir)
	case "redis":
		return record.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword), nil
	case "postgres":
		store, err := record.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres record store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

// Close releases the activity stream connection, if any.
func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
}
