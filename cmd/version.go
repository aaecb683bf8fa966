/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/cppbind/core/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of cppbind",
	Long:  `Displays the version of cppbind.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cppbind %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
