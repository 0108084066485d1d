package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arvel0/canopy/pkg/claude"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the Claude model identifiers",
	Run: func(cmd *cobra.Command, args []string) {
		for _, model := range claude.Models {
			if model == claude.DefaultVisionModel {
				fmt.Printf("%s  (default for vision)\n", model)
				continue
			}
			fmt.Println(model)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
