package cmd

import (
	"markd/cmd/client/cmd/auth"
	"markd/cmd/client/cmd/bookmarks"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.WhoamiCmd)

	rootCmd.AddCommand(bookmarks.BookmarksCmd)
	bookmarks.BookmarksCmd.AddCommand(bookmarks.ListCmd)
	bookmarks.BookmarksCmd.AddCommand(bookmarks.AddCmd)
	bookmarks.BookmarksCmd.AddCommand(bookmarks.RmCmd)
}
