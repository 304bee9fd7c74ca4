package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sdkgen/internal/sdk"
	"sdkgen/internal/unitgraph"
)

var graphFlags struct {
	in  string
	out string
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the unit dependency order as Graphviz DOT",
	RunE: func(cmd *cobra.Command, args []string) error {
		ar, err := sdk.LoadArchive(filepath.Join(graphFlags.in, sdk.ArchiveName))
		if err != nil {
			return err
		}
		return os.WriteFile(graphFlags.out, []byte(unitgraph.DOT(ar)), 0644)
	},
}

func init() {
	f := graphCmd.Flags()
	f.StringVar(&graphFlags.in, "in", "sdk", "directory holding the model archive")
	f.StringVar(&graphFlags.out, "out", "unitorder.dot", "output DOT file")
}
