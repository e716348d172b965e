package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"einvoice/internal/api"
	"einvoice/internal/auth"
	"einvoice/internal/config"
	"einvoice/internal/logger"
)

var version = "1.0.0"

// cfg is set by Execute before any command runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "einvoice",
	Short: "Command-line client for the e-invoicing platform",
	Long: `einvoice manages German e-invoices from the terminal: create and import
invoices, extract data from scans with OCR, validate against the XRechnung
rules, generate XRechnung XML and ZUGFeRD PDFs, and export to DATEV.

Connection settings come from ~/.config/einvoice/config.yaml, the
environment (EINVOICE_API_URL, EINVOICE_TOKEN, EINVOICE_API_KEY) and the
flags below, in increasing order of precedence. After 'einvoice auth login'
the stored session is used automatically.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with the loaded configuration.
func Execute(loaded *config.Config) {
	log := logger.WithComponent("cmd")

	if loaded != nil {
		cfg = loaded
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "", "Backend base URL (default from config, then "+config.DefaultAPIURL+")")
	pf.String("token", "", "Bearer access token (overrides the stored session)")
	pf.String("api-key", "", "API key sent as X-API-Key")
	pf.Int("timeout", 0, "Request timeout in seconds (default from config)")
	pf.Bool("json", false, "Print raw JSON instead of formatted output")
}

// settings resolves connection settings from flags on top of the loaded config.
func settings(cmd *cobra.Command) (apiURL, token, apiKey string, timeout time.Duration) {
	apiURL, token, apiKey, timeout = cfg.APIURL, cfg.Token, cfg.APIKey, cfg.Timeout

	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		apiURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		token = v
	}
	if v, _ := cmd.Flags().GetString("api-key"); v != "" {
		apiKey = v
	}
	if v, _ := cmd.Flags().GetInt("timeout"); v > 0 {
		timeout = time.Duration(v) * time.Second
	}
	return apiURL, token, apiKey, timeout
}

// newClient builds an API client. With requireAuth, a token or API key must be
// available, either explicitly or from the stored session.
func newClient(cmd *cobra.Command, requireAuth bool) (*api.Client, error) {
	log := logger.WithComponent("cmd")
	apiURL, token, apiKey, timeout := settings(cmd)

	if token == "" && apiKey == "" {
		creds, err := auth.NewStore(cfg.CredentialsFile).Load()
		switch {
		case err == nil:
			if urlFlag, _ := cmd.Flags().GetString("api-url"); urlFlag == "" && creds.APIURL != "" {
				apiURL = creds.APIURL
			}
			token = creds.AccessToken
		case requireAuth:
			return nil, err
		}
	}

	if requireAuth && apiKey == "" {
		if err := auth.CheckToken(token, time.Now()); err != nil {
			return nil, err
		}
	}

	log.Debug().
		Str("api_url", apiURL).
		Bool("token", token != "").
		Bool("api_key", apiKey != "").
		Dur("timeout", timeout).
		Msg("Creating API client")

	return api.New(api.Config{
		BaseURL:   apiURL,
		Token:     token,
		APIKey:    apiKey,
		Timeout:   timeout,
		UserAgent: "einvoice-cli/" + version,
	})
}

// createCommandContext creates a context with timeout and signal handling.
// A zero timeout only cancels on interrupt.
func createCommandContext(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// commandContext is createCommandContext with the configured request timeout.
func commandContext(cmd *cobra.Command, log zerolog.Logger) (context.Context, context.CancelFunc) {
	_, _, _, timeout := settings(cmd)
	return createCommandContext(timeout, log)
}
