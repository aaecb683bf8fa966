/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/generator"
	"github.com/tristendillon/cppbind/core/logger"
	"github.com/tristendillon/cppbind/core/template_engine"
)

var (
	outputDir    string
	prefix       string
	frontendName string
)

var generateCmd = &cobra.Command{
	Use:   "generate <input-path> <module-name> [binding-type-or-template-dir]",
	Short: "Generates binding files for a directory of headers",
	Long: `Parses every header under <input-path>, writes one binding file per header
into the output directory and a module file named after <module-name>.

The optional third argument selects the templates: a directory holding
exportfile.tmpl and exportmodule.tmpl, a directory of that name under the
configured template dir, or a built-in binding type (see "cppbind templates").`,
	Args: rangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("generate called")

		gen, _, closeParser, err := newGenerator(cmd, args)
		if err != nil {
			return err
		}
		defer closeParser()

		manifest, err := gen.Generate(args[0], args[1])
		if err != nil {
			return err
		}
		manifest.PrintTree(logger.DEBUG)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides OUTPUT_DIR)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix of generated file names (overrides PREFIX)")
	cmd.Flags().StringVar(&frontendName, "frontend", "", fmt.Sprintf("Parser front-end, %s or %s (overrides FRONTEND)", config.FrontendClang, config.FrontendTreeSitter))
}

// newGenerator wires configuration, front-end and templates for the
// generate and watch commands. The input path is checked before templates
// are loaded. The returned func releases the front-end.
func newGenerator(cmd *cobra.Command, args []string) (*generator.BindingGenerator, *config.Config, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := generator.CheckInput(args[0]); err != nil {
		return nil, nil, nil, err
	}

	bindingType := ""
	if len(args) > 2 {
		bindingType = args[2]
	}
	templates, err := template_engine.NewTemplateEngine().LoadBindingType(bindingType, cfg.TemplateDir)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("Using templates %s from %s", templates.Name, templates.Source)

	parser, err := newParser(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	closeParser := func() {
		if err := parser.Close(); err != nil {
			logger.Debug("Failed to close front-end: %v", err)
		}
	}
	return generator.NewBindingGenerator(cfg, parser, templates), cfg, closeParser, nil
}
