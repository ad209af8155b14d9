// Package dashboard holds the view controllers behind the CLI screens:
// tenant configuration, wallet + transactions, and the API key. Each
// controller owns its slice of state, fetches through the API client,
// and follows one mutation protocol: set the saving flag, issue the
// request, adopt the server's authoritative response on success or
// capture the error message on failure, then clear the flag.
package dashboard

import (
	"context"

	"github.com/paytrack/paytrackctl/internal/api"
)

// ConfigAPI is the slice of the API client the config view needs.
type ConfigAPI interface {
	FetchDashboard(ctx context.Context) (*api.Dashboard, error)
	UpdateConfig(ctx context.Context, update api.ConfigUpdate) (*api.TenantConfig, error)
}

// ConfirmFunc asks the user to confirm enabling automatic payouts to
// the described method. Returning false cancels the save.
type ConfirmFunc func(methodLabel string) bool

// ConfigDraft is the editable copy of the tenant configuration. It is
// distinct from the committed config: the draft is what the user is
// typing, the committed value is what the server last acknowledged.
type ConfigDraft struct {
	CallbackURL   string
	AutoPayout    bool
	PaymentMethod api.PaymentMethod
}

// ConfigView drives the configuration screen.
type ConfigView struct {
	client ConfigAPI

	dashboard *api.Dashboard
	draft     ConfigDraft
	editing   bool
	saving    bool
	err       string
}

// NewConfigView creates a config view over the given API slice.
func NewConfigView(client ConfigAPI) *ConfigView {
	return &ConfigView{client: client}
}

// Load fetches the tenant profile + config and hydrates the draft from
// the committed values.
func (v *ConfigView) Load(ctx context.Context) error {
	d, err := v.client.FetchDashboard(ctx)
	if err != nil {
		v.err = err.Error()
		return err
	}
	v.dashboard = d
	v.err = ""
	v.resetDraft()
	return nil
}

// Dashboard returns the loaded tenant profile, or nil before Load.
func (v *ConfigView) Dashboard() *api.Dashboard {
	return v.dashboard
}

// Committed returns the last server-acknowledged configuration.
func (v *ConfigView) Committed() *api.TenantConfig {
	if v.dashboard == nil {
		return nil
	}
	return &v.dashboard.Config
}

// Draft returns the current editable copy.
func (v *ConfigView) Draft() ConfigDraft {
	return v.draft
}

// Err returns the last captured error message, empty when clear.
func (v *ConfigView) Err() string {
	return v.err
}

// Saving reports whether a save request is in flight.
func (v *ConfigView) Saving() bool {
	return v.saving
}

// Editing reports whether the view is in edit mode.
func (v *ConfigView) Editing() bool {
	return v.editing
}

// BeginEdit enters edit mode with a fresh draft from the committed
// config.
func (v *ConfigView) BeginEdit() {
	v.resetDraft()
	v.editing = true
	v.err = ""
}

// CancelEdit leaves edit mode, discarding the draft.
func (v *ConfigView) CancelEdit() {
	v.resetDraft()
	v.editing = false
	v.err = ""
}

// SetCallbackURL updates the draft callback URL.
func (v *ConfigView) SetCallbackURL(url string) {
	v.draft.CallbackURL = url
}

// SetPaymentMethod updates the draft payout destination.
func (v *ConfigView) SetPaymentMethod(m api.PaymentMethod) {
	v.draft.PaymentMethod = m
	if m.Empty() {
		// The auto-payout toggle is disabled without a payout method.
		v.draft.AutoPayout = false
	}
}

// SetAutoPayout updates the draft toggle. Enabling it with no payout
// method configured is refused and reports false.
func (v *ConfigView) SetAutoPayout(enabled bool) bool {
	if enabled && v.draft.PaymentMethod.Empty() {
		return false
	}
	v.draft.AutoPayout = enabled
	return true
}

// Save pushes the draft as a full-replace update. Enabling auto payout
// (a false→true transition against the committed config) with a payout
// method set requires confirm to approve first; a declined confirmation
// issues no request. The server's returned config becomes the committed
// value.
func (v *ConfigView) Save(ctx context.Context, confirm ConfirmFunc) (saved bool, err error) {
	committed := v.Committed()
	enabling := v.draft.AutoPayout && (committed == nil || !committed.AutoPayout)
	if enabling && v.draft.PaymentMethod.Empty() {
		// Auto payout cannot be enabled without a payout method.
		v.draft.AutoPayout = false
		enabling = false
	}
	if enabling && confirm != nil && !confirm(v.draft.PaymentMethod.Label()) {
		return false, nil
	}
	return true, v.performSave(ctx)
}

func (v *ConfigView) performSave(ctx context.Context) error {
	v.saving = true
	defer func() { v.saving = false }()

	update := api.ConfigUpdate{
		CallbackURL: nullable(v.draft.CallbackURL),
		PaymentMethod: api.PaymentMethodUpdate{
			MpesaNumber:   nullable(v.draft.PaymentMethod.MpesaNumber),
			PaybillNumber: nullable(v.draft.PaymentMethod.PaybillNumber),
			AccountNumber: nullable(v.draft.PaymentMethod.AccountNumber),
		},
		AutoPayout: v.draft.AutoPayout && !v.draft.PaymentMethod.Empty(),
	}

	updated, err := v.client.UpdateConfig(ctx, update)
	if err != nil {
		v.err = err.Error()
		return err
	}

	if v.dashboard == nil {
		v.dashboard = &api.Dashboard{}
	}
	v.dashboard.Config = *updated
	v.editing = false
	v.err = ""
	v.resetDraft()
	return nil
}

func (v *ConfigView) resetDraft() {
	if v.dashboard == nil {
		v.draft = ConfigDraft{}
		return
	}
	cfg := v.dashboard.Config
	draft := ConfigDraft{
		AutoPayout:    cfg.AutoPayout,
		PaymentMethod: cfg.PaymentMethod,
	}
	if cfg.CallbackURL != nil {
		draft.CallbackURL = *cfg.CallbackURL
	}
	v.draft = draft
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
