package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"markd/cmd/client/cmd/types"
	"markd/internal/app/client"
	"markd/internal/hub"
)

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		principal, err := app.Whoami(ctx)
		if err != nil {
			if hub.IsUnauthenticated(err) {
				return fmt.Errorf("not signed in, run: markd auth login")
			}
			return err
		}

		fmt.Printf("%s <%s>\n", principal.DisplayName(), principal.Email)
		return nil
	},
}
