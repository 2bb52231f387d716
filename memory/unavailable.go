package memory

import (
	"context"
	"errors"

	"github.com/hupe1980/ginny/core"
)

var _ core.PreferenceStore = UnavailableStore{}

// ErrMissingCredential is the cause reported by UnavailableStore when no API
// key was configured.
var ErrMissingCredential = errors.New("missing credential")

// UnavailableStore fails every call with core.ErrProviderUnavailable.
type UnavailableStore struct {
	// Reason is reported as the cause; defaults to ErrMissingCredential.
	Reason error
}

// Get always fails.
func (u UnavailableStore) Get(context.Context, string) ([]string, error) {
	return nil, core.NewProviderError("mem0", "get", u.reason())
}

// Put always fails.
func (u UnavailableStore) Put(context.Context, string, string) error {
	return core.NewProviderError("mem0", "put", u.reason())
}

func (u UnavailableStore) reason() error {
	if u.Reason != nil {
		return u.Reason
	}
	return ErrMissingCredential
}
