package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	Long: `Remove the stored session token and profile from disk.

This is a local operation; no request is made to the backend.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	app.auth.Logout()
	app.printer.Success("Signed out")
	return nil
}
