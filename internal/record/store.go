package record

import (
	"context"
	"time"

	"shopfront/pkg/domain"
)

// SessionRecord is the durable copy of the session: the token pair and the
// user record travel together. A store never holds one without the other.
type SessionRecord struct {
	User    domain.User      `json:"user"`
	Tokens  domain.TokenPair `json:"tokens"`
	SavedAt time.Time        `json:"savedAt"`
}

// Store persists session records. Save replaces any previous record; Clear
// removes both logical records in one step.
type Store interface {
	Save(ctx context.Context, rec SessionRecord) error
	Load(ctx context.Context) (SessionRecord, bool, error)
	Clear(ctx context.Context) error
}
