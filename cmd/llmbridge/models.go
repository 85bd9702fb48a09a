package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"llmbridge/internal/registry"
)

func newModelsCmd() *cobra.Command {
	o := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List model files in the models directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o)
			if err != nil {
				return err
			}
			dir := cfg.ModelsDir
			models, err := registry.LoadDir(dir)
			if err != nil {
				return err
			}
			if len(models) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no models in %s\n", dir)
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tNAME\tSIZE")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%s\t%.1f MiB\n", m.ID, m.Name, float64(m.SizeBytes)/(1<<20))
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Config file (.yaml, .json or .toml); its models_dir is used")
	f.StringVar(&o.flags.ModelsDir, "models-dir", defaultConfig().ModelsDir, "Directory holding *.gguf / *.bin model files")
	return cmd
}
