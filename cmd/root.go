/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/logger"
)

var ErrInsufficientArgs = errors.New("insufficient arguments")

var rootCmd = &cobra.Command{
	Use:   "cppbind",
	Short: "Generates language bindings from C++ headers.",
	Long: `cppbind walks a directory of C++ headers, extracts the public classes and
methods of each one and renders binding source files (Boost.Python, pybind11,
sol2 or your own templates) plus a module file that registers them all.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetErrorWriter()
		logger.SetVerbose(verbose)
		if logfile != "" {
			closer, err := logger.SetLogFile(logfile)
			if err != nil {
				return err
			}
			logCloser = closer
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

var (
	cfgFile   string
	logfile   string
	verbose   bool
	logCloser io.Closer
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: cppbind.cfg, .yaml, .yml or .toml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}

// rangeArgs is cobra.RangeArgs reporting ErrInsufficientArgs, so a short
// command line prints the usage and exits non-zero.
func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min {
			return fmt.Errorf("%w: %s needs at least %d, got %d", ErrInsufficientArgs, cmd.Name(), min, len(args))
		}
		if max >= 0 && len(args) > max {
			return fmt.Errorf("%s accepts at most %d args, received %d", cmd.Name(), max, len(args))
		}
		return nil
	}
}

// loadConfig reads the configuration and applies the flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var overrides []config.Override
	flags := cmd.Flags()

	if flags.Changed("output") {
		overrides = append(overrides, func(c *config.Config) { c.OutputDir = outputDir })
	}
	if flags.Changed("prefix") {
		overrides = append(overrides, func(c *config.Config) { c.Prefix = prefix })
	}
	if flags.Changed("frontend") {
		overrides = append(overrides, func(c *config.Config) { c.Frontend = frontendName })
	}

	cfg, err := config.Load(cfgFile, overrides...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
