package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"markd/cmd/client/cmd/types"
	"markd/internal/app/client"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and clear local credentials",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Logout(ctx); err != nil {
			// Local credentials are gone either way, the hub just was
			// not told about it.
			fmt.Printf("Warning: hub did not confirm sign-out: %v\n", err)
		}

		fmt.Println("Signed out.")
		return nil
	},
}
