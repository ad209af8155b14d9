package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paytrack/paytrackctl/internal/api"
	"github.com/paytrack/paytrackctl/internal/dashboard"
	"github.com/paytrack/paytrackctl/internal/format"
	"github.com/paytrack/paytrackctl/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit tenant configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the tenant profile and configuration",
	Long: `Fetch the tenant profile, wallet balance, and gateway configuration.

Examples:
  paytrackctl config show
  paytrackctl config show --json`,
	RunE: runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit callback and payout configuration",
	Long: `Update the tenant configuration with a full-replace save.

Only the flags you pass change; everything else keeps its current value.
Enabling auto payout asks for confirmation since payouts then leave the
wallet automatically every Friday. Enabling it without a payout method
configured is refused.

Examples:
  paytrackctl config edit --callback-url https://callback.acme.co/hook
  paytrackctl config edit --mpesa-number 254712345678 --auto-payout
  paytrackctl config edit --auto-payout=false`,
	RunE: runConfigEdit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)

	configShowCmd.Flags().Bool("json", false, "output as JSON")

	configEditCmd.Flags().String("callback-url", "", "webhook callback URL (empty string clears it)")
	configEditCmd.Flags().String("mpesa-number", "", "direct M-Pesa payout number")
	configEditCmd.Flags().String("paybill-number", "", "B2B paybill number")
	configEditCmd.Flags().String("account-number", "", "B2B account number")
	configEditCmd.Flags().Bool("auto-payout", false, "enable or disable automatic payouts")
	configEditCmd.Flags().BoolP("yes", "y", false, "skip the auto-payout confirmation prompt")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	view := dashboard.NewConfigView(app.client)
	if err := view.Load(cmd.Context()); err != nil {
		return apiError("failed to load configuration", err)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view.Dashboard())
	}

	renderDashboard(view.Dashboard())
	app.printer.PrintHints("config show")
	return nil
}

func renderDashboard(d *api.Dashboard) {
	p := app.printer

	p.Header("Tenant")
	p.Field("Name", d.Name)
	if d.ID != "" {
		p.Field("ID", shortID(d.ID))
	}
	p.Field("Balance", format.KES(d.WalletBalance))

	p.Header("Configuration")
	cfg := d.Config
	if cfg.AccountNo != "" {
		p.Field("Account", format.Mask(cfg.AccountNo))
	}
	callback := "not set"
	if cfg.CallbackURL != nil && *cfg.CallbackURL != "" {
		callback = *cfg.CallbackURL
	}
	p.Field("Callback", callback)
	autoPayout := "Disabled"
	if cfg.AutoPayout {
		autoPayout = "Enabled"
	}
	p.Field("Auto payout", p.StatusBadge(strings.ToLower(autoPayout))+" "+autoPayout)

	pm := cfg.PaymentMethod
	if pm.Empty() {
		p.Field("Payout method", "not configured")
		return
	}
	if pm.MpesaNumber != "" {
		p.Field("M-Pesa", format.Mask(pm.MpesaNumber))
	}
	if pm.PaybillNumber != "" {
		p.Field("Paybill", format.MaskShort(pm.PaybillNumber))
	}
	if pm.AccountNumber != "" {
		p.Field("Account No.", format.MaskShort(pm.AccountNumber))
	}
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	view := dashboard.NewConfigView(app.client)
	if err := view.Load(cmd.Context()); err != nil {
		return apiError("failed to load configuration", err)
	}
	view.BeginEdit()

	if cmd.Flags().Changed("callback-url") {
		url, _ := cmd.Flags().GetString("callback-url")
		view.SetCallbackURL(url)
	}

	method := view.Draft().PaymentMethod
	if cmd.Flags().Changed("mpesa-number") {
		method.MpesaNumber, _ = cmd.Flags().GetString("mpesa-number")
	}
	if cmd.Flags().Changed("paybill-number") {
		method.PaybillNumber, _ = cmd.Flags().GetString("paybill-number")
	}
	if cmd.Flags().Changed("account-number") {
		method.AccountNumber, _ = cmd.Flags().GetString("account-number")
	}
	view.SetPaymentMethod(method)

	if cmd.Flags().Changed("auto-payout") {
		enable, _ := cmd.Flags().GetBool("auto-payout")
		if !view.SetAutoPayout(enable) {
			return &output.CLIError{
				Summary:    "cannot enable auto payout",
				Detail:     "no payout method is configured",
				Suggestion: "Set one with --mpesa-number or --paybill-number/--account-number",
				ExitCode:   output.ExitUsageError,
			}
		}
	}

	skipConfirm, _ := cmd.Flags().GetBool("yes")
	confirm := func(methodLabel string) bool {
		if skipConfirm {
			return true
		}
		app.printer.Warning("Auto payout sends the wallet balance automatically every Friday to %s.", methodLabel)
		answer, err := promptLine(cmd, "Enable automatic payouts? [y/N]: ")
		if err != nil {
			return false
		}
		answer = strings.ToLower(answer)
		return answer == "y" || answer == "yes"
	}

	saved, err := view.Save(cmd.Context(), confirm)
	if err != nil {
		return apiError("failed to save configuration", err)
	}
	if !saved {
		app.printer.Info("Cancelled; configuration unchanged")
		return nil
	}

	app.printer.Success("Configuration saved")
	renderDashboard(view.Dashboard())
	return nil
}

// apiError wraps an API client failure in a structured CLI error.
func apiError(summary string, err error) error {
	return &output.CLIError{
		Summary:  summary,
		Detail:   err.Error(),
		ExitCode: output.ExitAPIError,
	}
}

// shortID trims a UUID to its leading segment for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
