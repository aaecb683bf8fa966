/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/logger"
	"github.com/tristendillon/cppbind/core/template_engine"
)

var (
	force       bool
	bindingType string
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Initialize a cppbind project",
	Long: `Writes a default cppbind.cfg into <dir> and copies the templates of a built-in
binding type into <dir>/templates so they can be customised.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := args[0]

		cfgPath := filepath.Join(dir, config.ConfigFileNames[0])
		if _, err := os.Stat(cfgPath); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", cfgPath)
		}

		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		cfg := config.Default()
		if env := os.Getenv(config.ClangPathEnv); env != "" {
			cfg.ClangPath = env
		}
		templateDir := filepath.Join(dir, cfg.TemplateDir, bindingType)
		if err := template_engine.GenerateFolder(bindingType, templateDir); err != nil {
			return fmt.Errorf("failed to copy templates: %w", err)
		}
		if err := cfg.Write(cfgPath); err != nil {
			return err
		}

		fmt.Printf("Successfully initialized %s with %s templates\n", dir, bindingType)
		fmt.Printf("Next Steps:\n")
		fmt.Printf("  - cd %s\n", dir)
		if cfg.ClangPath == "" {
			fmt.Printf("  - set CLANG_PATH in %s (or FRONTEND = %s)\n", config.ConfigFileNames[0], config.FrontendTreeSitter)
		}
		fmt.Printf("  - cppbind generate <headers> <module> %s\n", bindingType)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
	initCmd.Flags().StringVar(&bindingType, "type", template_engine.DefaultBindingType, "Built-in binding type to copy")
}
