package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	extractOutDir  string
	extractOutName string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.asn>...",
	Short: "Decode .asn files into editable YAML documents",
	Long: `Extract decodes each .asn file into a YAML document with one "Section <n>"
mapping per section. Entries are written as "<index>,<name>,<hex id>" lines.

The document is written next to the input unless --out-dir (or output_dir in
the configuration) is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cfg, extractOutDir, extractOutName, len(args))
		if err != nil {
			return err
		}

		stats := newRunStats()
		options := codecOptions(cfg)

		err = forEachInput(args, progressEnabled(cfg), func(input string) error {
			result, err := extractFile(input, resolver, options)
			if err != nil {
				return err
			}
			slog.Info("Extracted", "input", input, "output", result.Output, "entries", result.Directory.EntryCount)
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
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutDir, "out-dir", "o", "", "directory to write documents to (default is the input's directory)")
	extractCmd.Flags().StringVarP(&extractOutName, "out-name", "n", "", "name of the output document (single input only)")
}
