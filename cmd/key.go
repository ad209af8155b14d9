package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paytrack/paytrackctl/internal/api"
	"github.com/paytrack/paytrackctl/internal/dashboard"
	"github.com/paytrack/paytrackctl/internal/output"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the tenant API key",
	Long: `Inspect and manage the tenant's API key.

A tenant holds at most one key. Generate creates the first key,
regenerate replaces it in place, and revoke soft-deletes it. The key
value is always shown masked; use 'key copy' to get the raw value.`,
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current API key (masked)",
	RunE:  runKeyShow,
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the tenant's first API key",
	RunE:  runKeyGenerate,
}

var keyRegenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Replace the current API key",
	RunE:  runKeyRegenerate,
}

var keyRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke the current API key",
	RunE:  runKeyRevoke,
}

var keyCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Print the raw key for piping to a clipboard tool",
	Long: `Print the unmasked key value to stdout.

Pipe it straight into your clipboard tool:
  paytrackctl key copy | xclip -selection clipboard
  paytrackctl key copy | pbcopy`,
	RunE: runKeyCopy,
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyGenerateCmd)
	keyCmd.AddCommand(keyRegenerateCmd)
	keyCmd.AddCommand(keyRevokeCmd)
	keyCmd.AddCommand(keyCopyCmd)

	keyShowCmd.Flags().Bool("json", false, "output as JSON")
	keyRevokeCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}

func runKeyShow(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	view := dashboard.NewKeyView(app.client, nil)
	if err := view.Load(cmd.Context()); err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) && reqErr.Status == 404 {
			app.printer.Print("No key found.")
			app.printer.Info("Create one with 'paytrackctl key generate'")
			return nil
		}
		return apiError("failed to fetch key", err)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		masked := *view.Key()
		masked.Key = view.MaskedKey()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(masked)
	}

	renderKey(view)
	app.printer.PrintHints("key show")
	return nil
}

func renderKey(view *dashboard.KeyView) {
	p := app.printer
	key := view.Key()

	p.Header("API Key")
	p.Field("Key", view.MaskedKey())
	p.Field("Created", formatDate(key.CreatedAt))
	if key.Revoked() {
		p.Field("Revoked", formatDate(*key.RevokedAt))
		p.Field("Status", p.StatusBadge("revoked")+" revoked")
	} else {
		p.Field("Status", p.StatusBadge("active")+" active")
	}
}

func runKeyGenerate(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	view := dashboard.NewKeyView(app.client, nil)
	// Generate is only offered for key-less tenants; the backend
	// rejects a second key with 400.
	if err := view.Generate(cmd.Context()); err != nil {
		return apiError("failed to generate key", err)
	}

	app.printer.Success("API key generated")
	renderKey(view)
	app.printer.PrintHints("key generate")
	return nil
}

func runKeyRegenerate(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	view := dashboard.NewKeyView(app.client, nil)
	if err := view.Regenerate(cmd.Context()); err != nil {
		return apiError("failed to regenerate key", err)
	}

	app.printer.Success("API key regenerated; the previous key no longer works")
	renderKey(view)
	app.printer.PrintHints("key regenerate")
	return nil
}

func runKeyRevoke(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	skipConfirm, _ := cmd.Flags().GetBool("yes")
	if !skipConfirm {
		answer, err := promptLine(cmd, "Revoke the API key? Integrations using it will stop working. [y/N]: ")
		if err != nil {
			return err
		}
		answer = strings.ToLower(answer)
		if answer != "y" && answer != "yes" {
			app.printer.Info("Cancelled; key unchanged")
			return nil
		}
	}

	view := dashboard.NewKeyView(app.client, nil)
	if err := view.Revoke(cmd.Context()); err != nil {
		return apiError("failed to revoke key", err)
	}

	app.printer.Success("API key revoked")
	app.printer.PrintHints("key revoke")
	return nil
}

func runKeyCopy(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	view := dashboard.NewKeyView(app.client, nil)
	if err := view.Load(cmd.Context()); err != nil {
		return apiError("failed to fetch key", err)
	}

	if key := view.Key(); key != nil && key.Revoked() {
		return &output.CLIError{
			Summary:    "key is revoked",
			Suggestion: "Replace it with 'paytrackctl key regenerate'",
			ExitCode:   output.ExitGeneral,
		}
	}
	raw, ok := view.Copy()
	if !ok {
		return &output.CLIError{
			Summary:    "no key to copy",
			Suggestion: "Create one with 'paytrackctl key generate'",
			ExitCode:   output.ExitGeneral,
		}
	}

	// Raw key on stdout only; the acknowledgment goes to stderr so
	// piping stays clean.
	fmt.Fprintln(cmd.OutOrStdout(), raw)
	app.printer.Warning("Copied")
	return nil
}
