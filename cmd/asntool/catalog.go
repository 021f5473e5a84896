package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jchantrell/asntool/internal/asn"
	"github.com/jchantrell/asntool/internal/database"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog <file.asn>...",
	Short: "Import .asn files into the SQLite catalog",
	Long: `Catalog decodes each .asn file and stores its sections and entries in the
catalog database so entries can be searched across files with the query
command. Files whose content was already imported are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		db, err := database.NewDatabase(ctx, database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer db.Close()

		stats := newRunStats()
		options := codecOptions(cfg)
		skipped := 0

		err = forEachInput(args, progressEnabled(cfg), func(input string) error {
			imported, dir, err := catalogFile(ctx, db, input, options)
			if err != nil {
				return err
			}
			if !imported {
				skipped++
			}
			stats.add(dir, 0, 0)
			return nil
		})
		if err != nil {
			return err
		}

		stats.print()
		fmt.Printf("Skipped (already imported): %d\n", skipped)
		fmt.Println("Try running: asntool query --sources")
		return nil
	},
}

// catalogFile decodes one archive and imports it
func catalogFile(ctx context.Context, db *database.Database, input string, options *asn.CodecOptions) (bool, *asn.Directory, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return false, nil, fmt.Errorf("reading archive: %w", err)
	}

	dir, err := asn.Decode(data, options)
	if err != nil {
		return false, nil, fmt.Errorf("decoding archive: %w", err)
	}

	imported, err := db.ImportDirectory(ctx, input, database.Fingerprint(data), dir)
	if err != nil {
		return false, nil, fmt.Errorf("importing archive: %w", err)
	}

	slog.Info("Cataloged", "input", input, "entries", dir.EntryCount, "imported", imported)
	return imported, dir, nil
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
