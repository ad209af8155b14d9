package cmd

import (
	"github.com/spf13/cobra"

	"github.com/paytrack/paytrackctl/internal/output"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new tenant account",
	Long: `Create a tenant account on the Paytrack backend and sign in.

Examples:
  paytrackctl signup --name "Acme Ltd" --email ops@acme.co`,
	RunE: runSignup,
}

func init() {
	rootCmd.AddCommand(signupCmd)

	signupCmd.Flags().String("name", "", "tenant display name")
	signupCmd.Flags().String("email", "", "tenant account email")
	signupCmd.Flags().String("password", "", "account password (prompted when omitted)")
	_ = signupCmd.MarkFlagRequired("name")
	_ = signupCmd.MarkFlagRequired("email")
}

func runSignup(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
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

	if err := app.auth.Signup(cmd.Context(), name, email, password); err != nil {
		return &output.CLIError{
			Summary:  "signup failed",
			Detail:   err.Error(),
			ExitCode: output.ExitAuthError,
		}
	}

	app.printer.Success("Account created for %s", name)
	app.printer.PrintHints("signup")
	return nil
}
