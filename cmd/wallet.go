package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paytrack/paytrackctl/internal/dashboard"
	"github.com/paytrack/paytrackctl/internal/format"
	"github.com/paytrack/paytrackctl/internal/output"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show wallet balance and transactions",
	Long: `Fetch the wallet summary and transaction history.

Transactions arrive newest-first in pages; by default only the first
page is shown. --pages follows the pagination cursor for a fixed number
of pages, --all follows it to the end.

Examples:
  paytrackctl wallet                 # First page
  paytrackctl wallet --pages 3       # First three pages
  paytrackctl wallet --all --json    # Everything, as JSON`,
	RunE: runWallet,
}

func init() {
	rootCmd.AddCommand(walletCmd)

	walletCmd.Flags().Bool("all", false, "follow pagination to the last page")
	walletCmd.Flags().Int("pages", 1, "number of pages to fetch")
	walletCmd.Flags().Int("limit", 0, "transactions per page (server default when 0, capped at 100)")
	walletCmd.Flags().Bool("json", false, "output as JSON")
}

func runWallet(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	pages, _ := cmd.Flags().GetInt("pages")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if limit < 0 || limit > 100 {
		return &output.CLIError{
			Summary:  fmt.Sprintf("invalid limit %d", limit),
			Detail:   "the backend accepts 1-100 transactions per page",
			ExitCode: output.ExitUsageError,
		}
	}
	if limit == 0 {
		limit = cfg.Wallet.PageSize
	}
	if all {
		pages = 0
	}

	view := dashboard.NewWalletView(app.client, limit)
	if err := view.LoadAll(cmd.Context(), pages); err != nil {
		return apiError("failed to load wallet", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"wallet":       view.Wallet(),
			"transactions": view.Transactions(),
			"has_more":     view.HasMore(),
		})
	}

	renderWallet(view)
	return nil
}

func renderWallet(view *dashboard.WalletView) {
	p := app.printer
	wallet := view.Wallet()

	p.Header("Paytrack Wallet")
	p.Field("Tenant", wallet.Name)
	p.Field("Account", view.MaskedAccount())
	p.Field("Balance", p.Bold(format.KES(wallet.Balance)))
	p.Field("Credits", format.KES(wallet.Totals.Credit))
	p.Field("Debits", format.KES(wallet.Totals.Debit))
	p.Field("Gateway", "M-Pesa")

	txns := view.Transactions()
	p.Header("Transactions")
	if len(txns) == 0 {
		p.Print("No transactions yet.")
		return
	}

	table := output.NewQuietTable([]string{"REF", "TYPE", "AMOUNT", "STATUS", "COUNTERPARTY", "DATE"}, p.IsQuiet())
	for _, t := range txns {
		table.AddRow([]string{
			t.TransactionRef,
			t.Type,
			format.KES(t.Amount.Float()),
			p.StatusBadge(t.Status) + " " + t.Status,
			dashboard.Counterparty(t),
			formatDate(t.CreatedAt),
		})
	}
	table.Render()

	if view.HasMore() {
		p.Info("More transactions available; rerun with --all or --pages %d", view.PagesFetched()+1)
	} else {
		p.Print("No more transactions")
	}
}

// formatDate renders an RFC 3339 timestamp in the local timezone,
// falling back to the raw string for anything unparseable.
func formatDate(raw string) string {
	if raw == "" {
		return "-"
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return ts.Local().Format("2006-01-02 15:04")
}
