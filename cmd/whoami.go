package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in tenant",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	user := app.auth.User()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"user":     user,
			"base_url": app.client.BaseURL(),
			"state":    app.auth.State().String(),
		})
	}

	if user != nil {
		app.printer.Field("Tenant", user.Name)
		app.printer.Field("Email", user.Email)
		if user.ID != "" {
			app.printer.Field("ID", user.ID)
		}
	}
	app.printer.Field("Backend", app.client.BaseURL())
	return nil
}
