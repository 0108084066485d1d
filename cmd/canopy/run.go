package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arvel0/canopy/internal/cli"
	"github.com/arvel0/canopy/pkg/observability"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <node>",
	Short: "Invoke a single node",
	Long: `Invokes a registered node with inputs from --set flags and prints the
outputs. Image inputs are loaded from a file via --image. The API key falls
back to the environment variable named in the config when not set explicitly.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, debug, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		sets, _ := cmd.Flags().GetStringArray("set")
		imagePath, _ := cmd.Flags().GetString("image")
		jsonMode, _ := cmd.Flags().GetBool("json")

		inputs, err := cli.ParseInputs(sets)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if _, ok := inputs["model"]; !ok && cfg.DefaultModel != "" {
			inputs["model"] = cfg.DefaultModel
		}
		if imagePath != "" {
			img, err := cli.LoadImage(imagePath)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			inputs["image"] = img
		}

		logger := cli.CreateLogger(cfg, debug)

		opts := cli.HostOptions{Config: cfg, Debug: debug}
		var recorder *observability.Recorder
		if debug {
			recorder = observability.NewRecorder()
			hooks := recorder.Hooks()
			opts.ExtraHooks = &hooks
		}

		host, err := cli.CreateHost(opts, logger)
		if err != nil {
			fmt.Printf("Error initializing host: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := cli.NewSignalContext(cmd.Context())
		defer stop()

		result, err := host.Invoke(ctx, args[0], inputs)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if jsonMode {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding result: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
			return
		}

		render := cli.NewRenderer()
		for name, value := range result.Outputs {
			text, ok := value.(string)
			if !ok {
				text = fmt.Sprintf("%v", value)
			}
			rendered, err := render(fmt.Sprintf("## %s\n\n%s", name, text))
			if err != nil {
				rendered = text
			}
			fmt.Print(strings.TrimLeft(rendered, "\n"))
		}
		cli.PrintSystemMessage("Invocation %s stored.", result.InvocationID)
		if recorder != nil {
			snap := recorder.Snapshot()
			cli.PrintSystemMessage("Model time: %s across %d call(s).", snap.TotalModelTime(), len(snap.ModelCalls))
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArray("set", nil, "Node input as key=value (repeatable)")
	runCmd.Flags().String("image", "", "Path to an image file for the node's image input")
	runCmd.Flags().Bool("json", false, "Print the raw result as JSON")
}
