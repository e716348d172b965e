package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"einvoice/internal/auth"
	"einvoice/internal/logger"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in, log out and show the current user",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Long: `Log in with email and password. The password is read without echo.
The access token is stored in the credentials file (mode 0600) and used by
all other commands until it expires.`,
	Example: `  einvoice auth login --email buchhaltung@example.de
  einvoice auth login --api-url https://api.example.de`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := auth.NewStore(cfg.CredentialsFile)
		if err := store.Clear(); err != nil {
			return err
		}
		return printDone(cmd, "Logged out.")
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runAuthWhoami,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authWhoamiCmd)

	authLoginCmd.Flags().String("email", "", "Account email (prompted if empty)")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("auth")

	email, _ := cmd.Flags().GetString("email")
	out := cmd.ErrOrStderr()
	if email == "" {
		var err error
		email, err = auth.PromptLine(bufio.NewReader(os.Stdin), out, "Email: ")
		if err != nil {
			return fmt.Errorf("reading email: %w", err)
		}
	}
	password, err := auth.PromptPassword(out)
	if err != nil {
		return err
	}

	client, err := newClient(cmd, false)
	if err != nil {
		return handleAPIError(err, "logging in", log)
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	token, err := client.Login(ctx, email, password)
	if err != nil {
		return handleAPIError(err, "logging in", log)
	}

	creds := &auth.Credentials{
		APIURL:      client.BaseURL(),
		AccessToken: token.AccessToken,
		Email:       email,
		SavedAt:     time.Now().UTC(),
	}
	if err := auth.NewStore(cfg.CredentialsFile).Save(creds); err != nil {
		return err
	}

	log.Info().Str("email", email).Str("api_url", creds.APIURL).Msg("Logged in")

	msg := fmt.Sprintf("Logged in as %s.", email)
	if exp, err := auth.TokenExpiry(token.AccessToken); err == nil && !exp.IsZero() {
		msg += fmt.Sprintf(" Session valid until %s.", exp.Local().Format("02.01.2006 15:04"))
	}
	return printDone(cmd, "%s", msg)
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("auth")

	client, err := newClient(cmd, true)
	if err != nil {
		return handleAPIError(err, "loading user", log)
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	user, err := client.Me(ctx)
	if err != nil {
		return handleAPIError(err, "loading user", log)
	}

	return printResult(cmd, user, func() string {
		s := fmt.Sprintf("%s <%s>\n", user.FullName, user.Email)
		if user.Company != "" {
			s += "Company: " + user.Company + "\n"
		}
		if user.Plan != "" {
			s += "Plan:    " + user.Plan + "\n"
		}
		return s
	})
}
