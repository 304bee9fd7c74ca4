package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "sdkgen",
	Short: "Runtime-reflection SDK generator",
	Long:  "sdkgen reconstructs type layouts and callable wrappers from a reflection dump and emits SDK sources",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(verbosity, nil)
	},
}

func main() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
