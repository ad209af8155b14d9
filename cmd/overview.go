package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paytrack/paytrackctl/internal/api"
	"github.com/paytrack/paytrackctl/internal/dashboard"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show tenant profile, configuration, and key status together",
	Long: `Fetch the tenant configuration and API key concurrently and render
one combined screen.

Examples:
  paytrackctl overview`,
	RunE: runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	configView := dashboard.NewConfigView(app.client)
	keyView := dashboard.NewKeyView(app.client, nil)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return configView.Load(ctx)
	})
	g.Go(func() error {
		err := keyView.Load(ctx)
		// A 404 means the tenant has no key yet, a normal overview
		// state. Anything else is a real failure.
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) && reqErr.Status == 404 {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return apiError("failed to load overview", err)
	}

	renderDashboard(configView.Dashboard())

	app.printer.Header("API Key")
	if keyView.HasKey() {
		key := keyView.Key()
		app.printer.Field("Key", keyView.MaskedKey())
		if key.Revoked() {
			app.printer.Field("Status", app.printer.StatusBadge("revoked")+" revoked")
		} else {
			app.printer.Field("Status", app.printer.StatusBadge("active")+" active")
		}
	} else {
		app.printer.Field("Status", "no key; run 'paytrackctl key generate'")
	}

	return nil
}
