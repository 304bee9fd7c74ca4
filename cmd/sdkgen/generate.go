package main

import (
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sdkgen/internal/config"
	"sdkgen/internal/emit"
	"sdkgen/internal/engine"
	"sdkgen/internal/memprobe"
	"sdkgen/internal/objects"
	"sdkgen/internal/sdk"
)

var generateFlags struct {
	dump    string
	pid     int
	config  string
	out     string
	emitAll bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Reconstruct the SDK model from a reflection dump and emit sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.dump, "dump", "", "reflection dump (JSON)")
	f.IntVar(&generateFlags.pid, "pid", 0, "live process to probe for virtual-slot scanning")
	f.StringVar(&generateFlags.config, "config", "", "generator configuration (TOML)")
	f.StringVar(&generateFlags.out, "out", "sdk", "output directory")
	f.BoolVar(&generateFlags.emitAll, "emit-empty", false, "emit artifacts for empty units too")
	generateCmd.MarkFlagRequired("dump")
}

func runGenerate() error {
	start := time.Now()

	cfg := config.Default()
	if generateFlags.config != "" {
		var err error
		cfg, err = config.Load(generateFlags.config)
		if err != nil {
			return err
		}
	}

	table, err := objects.LoadDump(generateFlags.dump)
	if err != nil {
		return err
	}

	var probe memprobe.Probe
	if generateFlags.pid > 0 {
		pp, err := memprobe.OpenProcess(generateFlags.pid)
		if err != nil {
			return err
		}
		defer pp.Close()
		probe = pp
	}

	pass, err := engine.New(table, cfg, probe)
	if err != nil {
		return err
	}
	ar, err := pass.Run()
	if err != nil {
		return err
	}

	opts := emitOptions(ar)
	opts.EmitEmpty = generateFlags.emitAll || cfg.EmitEmpty

	written := 0
	for _, u := range ar.Units {
		ok, err := emit.Render(u, generateFlags.out, opts)
		if err != nil {
			return err
		}
		if ok {
			written++
		}
	}

	if err := ar.Save(filepath.Join(generateFlags.out, sdk.ArchiveName)); err != nil {
		return err
	}

	color.Green("generated %d of %d units in %s", written, len(ar.Units), time.Since(start).Round(time.Millisecond))
	return nil
}
