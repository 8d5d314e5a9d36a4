package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/calendar-mcp/internal/config"
	"github.com/teemow/calendar-mcp/internal/google"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Obtain a Google refresh token",
		Long: `Run the one-time OAuth consent flow for Google Calendar and Google Tasks.

Open the printed URL in a browser and grant access. The callback is served
on the host and port of GOOGLE_REDIRECT_URL (default http://localhost:8080/oauth/callback).
The resulting refresh token is printed so it can be added to your .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(nil)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runAuth(ctx, cfg, cmd.OutOrStdout())
		},
	}
}

func runAuth(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if err := cfg.ValidateClient(); err != nil {
		return err
	}

	flow, err := google.NewAuthFlow(cfg.OAuthConfig())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Visit this URL to authorize the application:\n\n%s\n\n", flow.URL())
	fmt.Fprintf(out, "Waiting for the authorization callback on %s ...\n", flow.Addr())

	token, err := flow.Run(ctx)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	fmt.Fprintf(out, "\nAuthorization successful. Add this line to your .env file:\n\n")
	fmt.Fprintf(out, "%s=%s\n", config.EnvRefreshToken, token.RefreshToken)
	return nil
}
