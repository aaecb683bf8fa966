package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/cppbind/core/template_engine"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Lists the built-in binding types",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := template_engine.ListBindingTypes()
		if err != nil {
			return err
		}
		for _, name := range names {
			marker := ""
			if name == template_engine.DefaultBindingType {
				marker = " (default)"
			}
			fmt.Printf("%s%s\n", name, marker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
