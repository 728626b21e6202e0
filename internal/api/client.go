package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"shopfront/pkg/domain"
)

const defaultTimeout = 10 * time.Second

// TokenSource yields the current access token, or "" when logged out.
type TokenSource func() string

// Client calls the remote commerce API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	products   singleflight.Group
}

// APIError represents a commerce API error response.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Option customizes a Client.
type Option func(*Client)

// WithTokenSource attaches the current access token to every request.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) { c.tokens = src }
}

// WithTimeout overrides the default HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient constructs a commerce API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource installs the token source after construction. The session
// store is built after the client, so wiring closes the loop here.
func (c *Client) SetTokenSource(src TokenSource) {
	c.tokens = src
}

type authResponse struct {
	User   domain.User      `json:"user"`
	Tokens domain.TokenPair `json:"tokens"`
}

// SignUp registers a new account and returns the user with its token pair.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (domain.User, domain.TokenPair, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/signup", payload, &resp); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return resp.User, resp.Tokens, nil
}

// Login exchanges credentials for the user record and a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", payload, &resp); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return resp.User, resp.Tokens, nil
}

// Refresh trades a refresh token for a fresh pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (domain.User, domain.TokenPair, error) {
	payload := map[string]string{"refreshToken": refreshToken}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/refresh", payload, &resp); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return resp.User, resp.Tokens, nil
}

// Logout notifies the API that the session ended. Callers treat this as
// best-effort; the session store clears local state regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil)
}

// PublishedProducts lists the published catalog. The API answers with either
// a single product object or an array; both normalize to a slice here.
func (c *Client) PublishedProducts(ctx context.Context) ([]domain.Product, error) {
	var payload productPayload
	if err := c.doJSON(ctx, http.MethodGet, "/products/published", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// ProductByID fetches one product. Concurrent fetches for the same ID share
// a single request.
func (c *Client) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	v, err, _ := c.products.Do(id, func() (any, error) {
		var p domain.Product
		path := "/products/" + url.PathEscape(id)
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &p); err != nil {
			return domain.Product{}, err
		}
		return p, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

// SearchByCategory lists products in a category.
func (c *Client) SearchByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var payload productPayload
	path := "/products/search/" + url.PathEscape(category)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// productPayload absorbs the API's duck-typed product responses: a bare
// object and an array both decode into Items.
type productPayload struct {
	Items []domain.Product
}

func (p *productPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(data, &p.Items)
	}
	var single domain.Product
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	p.Items = []domain.Product{single}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
			Error   string `json:"error"`
			Code    string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg, Code: strings.TrimSpace(errResp.Code)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
