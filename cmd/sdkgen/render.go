package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"sdkgen/internal/emit"
	"sdkgen/internal/funcmodel"
	"sdkgen/internal/sdk"
)

// emitOptions rebuilds emit options from a saved archive.
func emitOptions(ar *sdk.Archive) emit.Options {
	return emit.Options{
		Short: ar.Short,
		Func: funcmodel.Options{
			BoolType:   ar.BoolType,
			UseStrings: ar.UseStrings,
			XorStrings: ar.XorStrings,
		},
	}
}

var renderFlags struct {
	in      string
	out     string
	emitAll bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Re-emit SDK sources from a saved model archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		ar, err := sdk.LoadArchive(filepath.Join(renderFlags.in, sdk.ArchiveName))
		if err != nil {
			return err
		}
		opts := emitOptions(ar)
		opts.EmitEmpty = renderFlags.emitAll
		for _, u := range ar.Units {
			if _, err := emit.Render(u, renderFlags.out, opts); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.in, "in", "sdk", "directory holding the model archive")
	f.StringVar(&renderFlags.out, "out", "sdk", "output directory")
	f.BoolVar(&renderFlags.emitAll, "emit-empty", false, "emit artifacts for empty units too")
}
