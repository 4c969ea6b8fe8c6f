package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcanvas/pkg/cache"
	"github.com/matzehuels/graphcanvas/pkg/errors"
)

// cacheCommand manages the rendered-artifact cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered-artifact cache",
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCache opens the local cache directory. Redis-backed caches expire
// entries themselves and are not managed here.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	if c.Config.Cache.RedisAddr != "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "the redis cache at %s manages its own expiry", c.Config.Cache.RedisAddr)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "locate cache directory")
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number and size of cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			entries, size, err := fc.Stats()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "scan cache")
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprint(entries))
			printKeyValue("Size", humanize.Bytes(uint64(size)))
			return nil
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			n, err := fc.Prune()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "prune cache")
			}
			printSuccess("Pruned %s", plural(n, "entry"))
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			printSuccess("Cleared %s", plural(n, "entry"))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "locate cache directory")
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
