/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/cppbind/core/cache"
	"github.com/tristendillon/cppbind/core/logger"
	"github.com/tristendillon/cppbind/core/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input-path> <module-name> [binding-type-or-template-dir]",
	Short: "Generates bindings and regenerates them when headers change",
	Long: `Runs generate once, then watches <input-path> and regenerates the bindings
whenever a header is written, created or removed. Unchanged headers are not
parsed again.`,
	Args: rangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("watch called")

		gen, cfg, closeParser, err := newGenerator(cmd, args)
		if err != nil {
			return err
		}
		defer closeParser()

		parseCache := cache.NewParseCache(cache.DefaultCacheConfig())
		gen.WithCache(parseCache)

		fw, err := watcher.NewFileWatcher(args[0], cfg)
		if err != nil {
			return err
		}
		defer fw.Close()

		generate := func() error {
			manifest, err := gen.Generate(args[0], args[1])
			if err != nil {
				return err
			}
			manifest.PrintTree(logger.DEBUG)
			return nil
		}
		fw.OnStart = generate
		fw.OnChange = generate
		fw.OnHeaderEvent = parseCache.InvalidateFile

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("Watching %s for header changes (Ctrl+C to stop)", args[0])
		if err := fw.Watch(ctx); err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
		logger.Info("Stopped watching %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addGenerateFlags(watchCmd)
}
