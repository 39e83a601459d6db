package credstore

import (
	"context"

	"github.com/Smital-1903/docview-watchlist-truedata/internal/model"
)

// Store persists the credential record across restarts. Implementations
// are key-value collaborators; the core only ever reads or replaces the
// whole record.
type Store interface {
	// Load returns the stored credentials. ok is false when none exist.
	Load(ctx context.Context) (creds model.Credentials, ok bool, err error)

	// Save replaces the stored credentials.
	Save(ctx context.Context, creds model.Credentials) error

	// Clear removes the stored credentials. Clearing an empty store is
	// a no-op.
	Clear(ctx context.Context) error
}
