package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"markd/cmd/client/cmd/types"
	"markd/internal/app/client"
	"markd/internal/domain/bookmark"
	"markd/internal/hub"
)

var AddCmd = &cobra.Command{
	Use:   "add <url> <title>",
	Short: "Save a new bookmark",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		saved, err := app.Add(ctx, args[0], args[1])
		if err != nil {
			switch {
			case errors.Is(err, bookmark.ErrFieldsMissing),
				errors.Is(err, bookmark.ErrInvalidURL),
				errors.Is(err, bookmark.ErrTitleTooLong):
				return err
			case hub.IsUnauthenticated(err):
				return fmt.Errorf("not signed in, run: markd auth login")
			default:
				return fmt.Errorf("cannot save bookmark: %w", err)
			}
		}

		color.Green("Saved %s (%s)", saved.Title, saved.ID)
		return nil
	},
}
