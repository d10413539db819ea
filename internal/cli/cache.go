package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout/cache"
)

func newCacheCmd() *cobra.Command {
	var watchlistPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}
	cmd.PersistentFlags().StringVarP(&watchlistPath, "watchlist", "w", "watchlist.toml", "path to the watchlist file")

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openFileStore(watchlistPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Dir())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openFileStore(watchlistPath)
			if err != nil {
				return err
			}
			n, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached results\n", n)
			return nil
		},
	})

	return cmd
}

// openFileStore resolves the cache directory the same way check does, but
// without requiring the watchlist to exist: cache management should work even
// with no watchlist in the current directory.
func openFileStore(watchlistPath string) (*cache.FileStore, error) {
	dir := ""
	if wl, err := LoadWatchlist(watchlistPath); err == nil {
		dir = wl.CacheDir
	}
	if dir == "" {
		var err error
		dir, err = defaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	return cache.NewFileStore(dir)
}
