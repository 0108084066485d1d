package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvel0/canopy/internal/cli"
	"github.com/arvel0/canopy/pkg/ports"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored invocation results",
	Long:  `List, inspect, and remove invocation results. Requires a configured Redis store; the in-memory store does not outlive the invoking process.`,
}

var resultsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored invocation IDs",
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		ids, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing results: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No stored results found.")
			return
		}

		fmt.Println("Stored Results:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var resultsInspectCmd = &cobra.Command{
	Use:   "inspect <invocation-id>",
	Short: "Inspect a stored result",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)

		result, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading result '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling result: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var resultsRmCmd = &cobra.Command{
	Use:   "rm <invocation-id>",
	Short: "Remove a stored result",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			fmt.Printf("Error deleting result '%s': %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Printf("Result '%s' removed.\n", args[0])
	},
}

// getStore builds the result store from the configured backend.
func getStore(cmd *cobra.Command) ports.ResultStore {
	cfg, debug, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := cli.CreateLogger(cfg, debug)
	host, err := cli.CreateHost(cli.HostOptions{Config: cfg, Debug: debug}, logger)
	if err != nil {
		fmt.Printf("Error initializing host: %v\n", err)
		os.Exit(1)
	}
	return host.Store()
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsLsCmd)
	resultsCmd.AddCommand(resultsInspectCmd)
	resultsCmd.AddCommand(resultsRmCmd)
}
