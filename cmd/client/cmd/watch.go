package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"markd/internal/hub"
	"markd/internal/liveview"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the bookmark list live",
	Long: `Watch prints the current bookmark list and keeps it up to date
from the hub's change feed. Edits made in the browser or on another
device show up as they happen. Press Ctrl+C to stop.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		session, err := app.Watch(ctx)
		if err != nil {
			if hub.IsUnauthenticated(err) {
				return fmt.Errorf("not signed in, run: markd auth login")
			}
			return fmt.Errorf("cannot start watching: %w", err)
		}
		defer session.Close()

		render(session.View())

		for {
			select {
			case <-ctx.Done():
				fmt.Println()
				return nil
			case _, open := <-session.Updates():
				if !open {
					return fmt.Errorf("change feed ended")
				}
				render(session.View())
			}
		}
	},
}

func render(view *liveview.View) {
	list := view.Bookmarks()

	color.Cyan("-- %s | %d bookmark(s) --", time.Now().Format("15:04:05"), len(list))
	if len(list) == 0 {
		fmt.Println("No bookmarks yet.")
		return
	}
	for _, b := range list {
		fmt.Fprintf(os.Stdout, "%s  %s  %s\n", b.ID, b.Title, b.URL)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
