package bookmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"markd/cmd/client/cmd/types"
	"markd/internal/app/client"
	"markd/internal/hub"
)

var RmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Remove(ctx, args[0]); err != nil {
			if hub.IsUnauthenticated(err) {
				return fmt.Errorf("not signed in, run: markd auth login")
			}
			return fmt.Errorf("cannot delete bookmark: %w", err)
		}

		fmt.Println("Deleted.")
		return nil
	},
}
