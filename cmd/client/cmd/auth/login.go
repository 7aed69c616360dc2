package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"markd/cmd/client/cmd/types"
	"markd/internal/app/client"
	"markd/internal/hub"
)

var email string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the markd hub",
	Long: `Authenticate with email and password.

The resulting session is stored locally and reused by all other
commands until it is revoked or you run auth logout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		if email == "" {
			fmt.Print("Email: ")
			if _, err := fmt.Scanln(&email); err != nil {
				return fmt.Errorf("cannot read email: %w", err)
			}
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("cannot read password: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		principal, err := app.Login(ctx, email, string(password))
		if err != nil {
			if hub.IsUnauthenticated(err) {
				return fmt.Errorf("wrong email or password")
			}
			return fmt.Errorf("sign-in failed: %w", err)
		}

		color.Green("Signed in as %s", principal.DisplayName())
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&email, "email", "e", "", "account email")
}
