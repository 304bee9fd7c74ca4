package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sdkgen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sdkgen", version)
	},
}
