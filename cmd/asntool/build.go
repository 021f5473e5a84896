package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	buildOutDir  string
	buildOutName string
)

var buildCmd = &cobra.Command{
	Use:   "build <file.yaml>...",
	Short: "Encode YAML documents back into .asn files",
	Long: `Build reads documents produced by extract and writes .asn files.

Section headers are written in section order and entries in global index
order, so sections may list their entry ranges in any order. The entry count
in the header is recomputed from each section's NumEntries.

In strict mode (the default) the section ranges must cover the entry table
without gaps or overlaps and every section must list exactly NumEntries
entries. Use --strict=false to build them anyway: counts are trusted, gaps
stay zeroed and entries sharing a slot are overwritten in section order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cfg, buildOutDir, buildOutName, len(args))
		if err != nil {
			return err
		}

		stats := newRunStats()
		options := codecOptions(cfg)

		err = forEachInput(args, progressEnabled(cfg), func(input string) error {
			result, err := buildFile(input, resolver, options)
			if err != nil {
				return err
			}
			slog.Info("Built", "input", input, "output", result.Output, "entries", result.Directory.EntryCount)
			stats.add(result.Directory, result.Read, result.Written)
			return nil
		})
		if err != nil {
			return err
		}

		stats.print()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutDir, "out-dir", "o", "", "directory to write archives to (default is the input's directory)")
	buildCmd.Flags().StringVarP(&buildOutName, "out-name", "n", "", "name of the output archive (single input only)")
}
