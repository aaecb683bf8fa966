/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/tristendillon/cppbind/core/ast"
	"github.com/tristendillon/cppbind/core/logger"
)

var (
	inspectAll bool
	inspectAST bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <header>...",
	Short: "Prints the classes and methods extracted from headers",
	Long: `Parses each header with the configured front-end and prints the classes and
methods a binding would be generated for. Nothing is written to disk.`,
	Args: rangeArgs(1, -1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("inspect called")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		parser, err := newParser(cfg)
		if err != nil {
			return err
		}
		defer parser.Close()

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Header", "Class", "Method", "Access", "Flags", "Annotations"})
		table.SetAutoMergeCells(true)
		table.SetRowLine(true)

		opts := ast.ExtractOptions{PublicOnly: cfg.PublicOnly && !inspectAll, IncludeStructs: cfg.IncludeStructs}
		for _, path := range args {
			unit, err := parser.Parse(path)
			if err != nil {
				return err
			}
			if err := unit.Check(cfg.Strict); err != nil {
				return err
			}

			if inspectAST {
				fmt.Print(ast.Dump(unit.Root))
				continue
			}

			for _, class := range ast.ExtractClasses(unit.Root, opts) {
				if len(class.Methods) == 0 {
					table.Append([]string{path, class.QualifiedName, "", "", "", strings.Join(class.Annotations, ", ")})
					continue
				}
				for _, m := range class.Methods {
					table.Append([]string{path, class.QualifiedName, m.Name, m.Access, methodFlags(m.IsVirtual, m.IsPureVirtual, m.IsStatic), strings.Join(m.Annotations, ", ")})
				}
			}
		}

		if !inspectAST {
			table.Render()
		}
		return nil
	},
}

func methodFlags(virtual, pure, static bool) string {
	var flags []string
	if pure {
		flags = append(flags, "pure virtual")
	} else if virtual {
		flags = append(flags, "virtual")
	}
	if static {
		flags = append(flags, "static")
	}
	return strings.Join(flags, " ")
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectAll, "all", false, "Include protected and private methods")
	inspectCmd.Flags().BoolVar(&inspectAST, "ast", false, "Dump the declaration tree instead of the table")
	inspectCmd.Flags().StringVar(&frontendName, "frontend", "", "Parser front-end (overrides FRONTEND)")
}
