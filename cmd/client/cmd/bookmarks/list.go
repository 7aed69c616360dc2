package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"markd/cmd/client/cmd/types"
	"markd/internal/app/client"
	"markd/internal/domain/bookmark"
	"markd/internal/hub"
)

var listFormat string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		list, err := app.List(ctx)
		if err != nil {
			if hub.IsUnauthenticated(err) {
				return fmt.Errorf("not signed in, run: markd auth login")
			}
			return fmt.Errorf("cannot load bookmarks: %w", err)
		}

		switch listFormat {
		case "json":
			return printJSON(list)
		default:
			return printTable(list)
		}
	},
}

func printTable(list []bookmark.Bookmark) error {
	if len(list) == 0 {
		fmt.Println("No bookmarks yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tURL\tADDED\t\n")
	for _, b := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", b.ID, b.Title, b.URL, b.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func printJSON(list []bookmark.Bookmark) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format: table or json")
}
