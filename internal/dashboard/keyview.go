package dashboard

import (
	"context"
	"time"

	"github.com/paytrack/paytrackctl/internal/api"
	"github.com/paytrack/paytrackctl/internal/format"
)

// copiedAckDuration is how long the "copied" acknowledgment stays
// visible after copying the key.
const copiedAckDuration = 1200 * time.Millisecond

// KeyAPI is the slice of the API client the key view needs.
type KeyAPI interface {
	FetchKey(ctx context.Context) (*api.APIKey, error)
	GenerateKey(ctx context.Context) (*api.APIKey, error)
	RegenerateKey(ctx context.Context) (*api.APIKey, error)
	RevokeKey(ctx context.Context) error
}

// KeyView drives the API key screen: one key per tenant, generated when
// absent, regenerated in place, revoked to a cleared state.
type KeyView struct {
	client KeyAPI
	now    func() time.Time

	key         *api.APIKey
	saving      bool
	err         string
	copiedUntil time.Time
}

// NewKeyView creates a key view. A nil clock uses time.Now.
func NewKeyView(client KeyAPI, clock func() time.Time) *KeyView {
	if clock == nil {
		clock = time.Now
	}
	return &KeyView{client: client, now: clock}
}

// Load fetches the current key record. A failed fetch clears local key
// state, matching the backend's 404 for key-less tenants.
func (v *KeyView) Load(ctx context.Context) error {
	key, err := v.client.FetchKey(ctx)
	if err != nil {
		v.key = nil
		v.err = err.Error()
		return err
	}
	v.key = key
	v.err = ""
	return nil
}

// Key returns the current key record, or nil when none exists.
func (v *KeyView) Key() *api.APIKey {
	return v.key
}

// HasKey reports whether a key record is present. Generate is only
// offered when this is false.
func (v *KeyView) HasKey() bool {
	return v.key != nil
}

// Saving reports whether a mutation is in flight.
func (v *KeyView) Saving() bool {
	return v.saving
}

// Err returns the last captured error message, empty when clear.
func (v *KeyView) Err() string {
	return v.err
}

// MaskedKey returns the key for display with only the first and last
// four characters visible; keys of eight characters or fewer are fully
// starred.
func (v *KeyView) MaskedKey() string {
	if v.key == nil {
		return ""
	}
	return format.Mask(v.key.Key)
}

// Generate creates the tenant's first key and adopts the server record.
func (v *KeyView) Generate(ctx context.Context) error {
	return v.mutate(func() (*api.APIKey, error) {
		return v.client.GenerateKey(ctx)
	})
}

// Regenerate replaces the current key and adopts the server record.
func (v *KeyView) Regenerate(ctx context.Context) error {
	return v.mutate(func() (*api.APIKey, error) {
		return v.client.RegenerateKey(ctx)
	})
}

// Revoke soft-deletes the key and clears local state.
func (v *KeyView) Revoke(ctx context.Context) error {
	v.saving = true
	defer func() { v.saving = false }()

	if err := v.client.RevokeKey(ctx); err != nil {
		v.err = err.Error()
		return err
	}
	v.key = nil
	v.err = ""
	return nil
}

// Copy returns the raw key for the caller to place on the clipboard and
// starts the transient acknowledgment window. Returns false when no key
// is available.
func (v *KeyView) Copy() (string, bool) {
	if v.key == nil || v.key.Key == "" {
		return "", false
	}
	v.copiedUntil = v.now().Add(copiedAckDuration)
	return v.key.Key, true
}

// Copied reports whether the acknowledgment window is still open.
func (v *KeyView) Copied() bool {
	return v.now().Before(v.copiedUntil)
}

func (v *KeyView) mutate(call func() (*api.APIKey, error)) error {
	v.saving = true
	defer func() { v.saving = false }()

	key, err := call()
	if err != nil {
		v.err = err.Error()
		return err
	}
	v.key = key
	v.err = ""
	return nil
}
