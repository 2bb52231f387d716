package core

import "context"

// PreferenceStore is the long-term memory of free-text user preference
// statements, partitioned by user identifier. Implementations must be safe for
// concurrent use across sessions; conflicting writes are resolved by the
// backend. Failures wrap ErrProviderUnavailable.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Put(ctx context.Context, userID, statement string) error
}
