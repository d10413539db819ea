package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout"
	_ "github.com/pkgscout/pkgscout/all"
	"github.com/pkgscout/pkgscout/cache"
)

func newCheckCmd() *cobra.Command {
	var (
		watchlistPath string
		asJSON        bool
		newerOnly     bool
		fresh         bool
		noCache       bool
		concurrency   int
		deadline      time.Duration
		ttl           time.Duration
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check every watchlist package for newer upstream versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			wl, err := LoadWatchlist(watchlistPath)
			if err != nil {
				return err
			}
			pkgs := wl.Resolve()
			if len(pkgs) == 0 {
				return fmt.Errorf("watchlist %s contains no packages", watchlistPath)
			}

			// Flags win over watchlist settings, watchlist over defaults.
			if concurrency == 0 {
				concurrency = wl.Concurrency
			}
			if concurrency == 0 {
				concurrency = 8
			}
			if ttl == 0 {
				ttl = time.Duration(wl.CacheTTL)
			}
			if timeout == 0 {
				timeout = time.Duration(wl.Timeout)
			}
			if timeout == 0 {
				timeout = 30 * time.Second
			}

			opts := pkgscout.BatchOptions{
				CheckOptions: pkgscout.CheckOptions{
					Client:  pkgscout.DefaultClient(),
					Timeout: timeout,
				},
				Concurrency: concurrency,
				TTL:         ttl,
				Fresh:       fresh,
				Logger:      logger,
			}
			if deadline > 0 {
				opts.Deadline = time.Now().Add(deadline)
			}

			if !noCache {
				store, err := openStore(wl)
				if err != nil {
					return err
				}
				opts.Cache = cache.New(store)
			}

			// Ctrl-C stops dispatching new checks; in-flight ones drain and
			// the partial report is still printed.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Debug("starting batch", "packages", len(pkgs), "concurrency", concurrency)
			report := pkgscout.CheckAll(ctx, pkgs, opts)
			if newerOnly {
				report = report.NewerOnly()
			}

			if asJSON {
				raw, err := report.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			}
			for _, line := range report.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&watchlistPath, "watchlist", "w", "watchlist.toml", "path to the watchlist file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "render the report as JSON")
	cmd.Flags().BoolVar(&newerOnly, "newer-only", false, "report only packages with a newer upstream version")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "bypass cached results (results are still stored)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache entirely")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of packages checked in parallel")
	cmd.Flags().DurationVar(&deadline, "deadline", 0, "stop dispatching new checks after this long (0 = no limit)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "how long cached results stay valid")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-package check timeout")

	return cmd
}

// openStore picks the cache backend: Redis when the watchlist names a server,
// otherwise a per-user file store.
func openStore(wl *Watchlist) (cache.Store, error) {
	if wl.Redis != "" {
		client := redis.NewClient(&redis.Options{Addr: wl.Redis})
		return cache.NewRedisStore(client, "pkgscout:"), nil
	}
	dir := wl.CacheDir
	if dir == "" {
		var err error
		dir, err = defaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	return cache.NewFileStore(dir)
}

func defaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache dir: %w", err)
	}
	return filepath.Join(base, "pkgscout"), nil
}
