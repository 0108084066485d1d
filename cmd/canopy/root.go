package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvel0/canopy/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Canopy runs Claude-backed prompt nodes",
	Long: `Canopy is a node pack for graph-based hosts. It exposes text and image
nodes backed by the Anthropic Messages API, runnable from the command line,
over HTTP, or as an MCP server.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "canopy.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig resolves the persistent flags shared by every command.
func loadConfig(cmd *cobra.Command) (config.Config, bool, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, debug, err
	}
	return cfg, debug, nil
}
