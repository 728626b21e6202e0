package domain

import "time"

type StockStatus string

const (
	StockAvailable StockStatus = "available"
	StockDepleted  StockStatus = "depleted"
)

// User is the storefront account record returned by the commerce API.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// TokenPair holds the credential tokens issued on login/signup.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Product is read-only catalog data fetched from the commerce API.
// The cart copies what it needs out of a Product; it never mutates one.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	PriceMinor  int64       `json:"priceMinor"`
	Thumbnail   string      `json:"thumbnail"`
	Images      []string    `json:"images,omitempty"`
	Colors      []string    `json:"colors,omitempty"`
	Sizes       []string    `json:"sizes,omitempty"`
	Quantity    int         `json:"quantity"`
	Stock       StockStatus `json:"stock"`
	Published   bool        `json:"published"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// VariantKey is the set of customization choices that, together with the
// product ID, identifies one cart line. Absent dimensions are empty strings.
type VariantKey struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// CartLine is one aggregated cart entry.
type CartLine struct {
	ProductID      string     `json:"productId"`
	Variant        VariantKey `json:"variant"`
	DisplayName    string     `json:"displayName"`
	UnitPriceMinor int64      `json:"unitPriceMinor"`
	Thumbnail      string     `json:"thumbnail"`
	Quantity       int        `json:"quantity"`
	Selected       bool       `json:"selected"`
}
