// Package cmd contains all CLI commands for paytrackctl
package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paytrack/paytrackctl/internal/api"
	"github.com/paytrack/paytrackctl/internal/auth"
	"github.com/paytrack/paytrackctl/internal/config"
	"github.com/paytrack/paytrackctl/internal/output"
	"github.com/paytrack/paytrackctl/internal/session"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	colorMode string
	cfg       *config.Config
	logger    *slog.Logger
	app       *appContext
	version   = "dev"
)

// appContext wires the session store, API client, and auth controller
// together. It is built once per invocation in PersistentPreRunE and
// injected into commands through the package; nothing reads the session
// store around it.
type appContext struct {
	printer *output.Printer
	client  *api.Client
	auth    *auth.Controller
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paytrackctl",
	Short: "Paytrack tenant dashboard CLI",
	Long: `paytrackctl is the terminal dashboard for Paytrack payment-gateway tenants.

It signs in against the Paytrack backend, keeps the session on disk, and
exposes the tenant's wallet, configuration, and API key.

Example usage:
  paytrackctl login --email ops@acme.co     # Sign in
  paytrackctl wallet                        # Balance + transactions
  paytrackctl wallet --all                  # Follow pagination to the end
  paytrackctl config edit --auto-payout     # Enable automatic payouts
  paytrackctl key generate                  # Create an API key`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .paytrackctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, never")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.color", rootCmd.PersistentFlags().Lookup("color"))
}

// initApp reads configuration and builds the session store, API client,
// and auth controller for this invocation.
func initApp() error {
	var err error

	// Setup logger
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Load configuration
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Logging.Level == "debug" || verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	mode, err := output.ParseColorMode(colorMode)
	if err != nil {
		return err
	}
	printer := output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: cfg.Output.Colors,
		Quiet:        quiet,
	})

	store := session.NewStore(
		session.NewFileSink(cfg.CredentialsPath()),
		session.NewCookieSink(cfg.CookieJarPath()),
		logger,
	)

	var ctrl *auth.Controller
	client := api.New(
		cfg.API.BaseURL,
		&http.Client{Timeout: cfg.API.Timeout},
		func() string {
			if ctrl == nil {
				return ""
			}
			return ctrl.Token()
		},
		logger,
	)
	ctrl = auth.NewController(store, client, logger)
	ctrl.Hydrate()

	app = &appContext{printer: printer, client: client, auth: ctrl}

	logger.Debug("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"session_dir", cfg.Session.Dir,
		"state", ctrl.State().String(),
	)

	return nil
}

// requireAuth fails with a sign-in hint when no session is held.
func requireAuth() error {
	if app.auth.State() != auth.StateAuthenticated {
		return &output.CLIError{
			Summary:    "not signed in",
			Detail:     "no session token found",
			Suggestion: "Run 'paytrackctl login' to sign in",
			ExitCode:   output.ExitAuthError,
		}
	}
	return nil
}

// promptLine reads one line from the command's stdin.
func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
