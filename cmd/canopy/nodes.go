package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arvel0/canopy/internal/cli"
)

// nodesCmd represents the nodes command
var nodesCmd = &cobra.Command{
	Use:   "nodes [name]",
	Short: "List the available nodes",
	Long:  `Lists the registered nodes. With --schema, prints the full input and output declarations as YAML.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, debug, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		withSchema, _ := cmd.Flags().GetBool("schema")

		logger := cli.CreateLogger(cfg, debug)
		host, err := cli.CreateHost(cli.HostOptions{Config: cfg, Debug: debug}, logger)
		if err != nil {
			fmt.Printf("Error initializing host: %v\n", err)
			os.Exit(1)
		}

		if len(args) == 1 {
			manifest, err := host.Node(args[0])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			out, err := yaml.Marshal(manifest)
			if err != nil {
				fmt.Printf("Error encoding manifest: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(string(out))
			return
		}

		manifests, err := host.Nodes()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if withSchema {
			out, err := yaml.Marshal(manifests)
			if err != nil {
				fmt.Printf("Error encoding manifests: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(string(out))
			return
		}

		for _, m := range manifests {
			fmt.Printf("%s  (%s)\n", m.Name, m.Category)
		}
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
	nodesCmd.Flags().Bool("schema", false, "Print the full node schemas as YAML")
}
