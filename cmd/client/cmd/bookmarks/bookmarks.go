package bookmarks

import "github.com/spf13/cobra"

var BookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Manage your bookmark list",
}
