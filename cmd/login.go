package cmd

import (
	"github.com/spf13/cobra"

	"github.com/paytrack/paytrackctl/internal/output"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the Paytrack dashboard",
	Long: `Authenticate against the Paytrack backend and persist the session.

The session token is stored in the per-user config directory and survives
across invocations for seven days.

Examples:
  paytrackctl login --email ops@acme.co --password secret
  paytrackctl login --email ops@acme.co     # prompts for the password`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("email", "", "tenant account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if password == "" {
		var err error
		password, err = promptLine(cmd, "Password: ")
		if err != nil {
			return err
		}
	}
	if password == "" {
		return &output.CLIError{
			Summary:  "password required",
			ExitCode: output.ExitUsageError,
		}
	}

	if err := app.auth.Login(cmd.Context(), email, password); err != nil {
		return &output.CLIError{
			Summary:    "login failed",
			Detail:     err.Error(),
			Suggestion: "Check the email and password, or sign up with 'paytrackctl signup'",
			ExitCode:   output.ExitAuthError,
		}
	}

	user := app.auth.User()
	if user != nil && user.Name != "" {
		app.printer.Success("Signed in as %s <%s>", user.Name, user.Email)
	} else {
		app.printer.Success("Signed in as %s", email)
	}
	app.printer.PrintHints("login")
	return nil
}
