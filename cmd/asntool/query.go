package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jchantrell/asntool/internal/asn"
	"github.com/jchantrell/asntool/internal/database"
	"github.com/jchantrell/asntool/internal/paths"
	"github.com/jchantrell/asntool/internal/utils"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [SQL]",
	Short: "Query the entry catalog",
	Long: `Query lists imported files, finds entries by name across every imported
file, or runs SQL directly against the catalog (tables: _sources, sections,
entries).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		listSources, err := cmd.Flags().GetBool("sources")
		if err != nil {
			return fmt.Errorf("failed to get sources flag: %w", err)
		}
		find, err := cmd.Flags().GetString("find")
		if err != nil {
			return fmt.Errorf("failed to get find flag: %w", err)
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"sources", listSources,
			"find", find)

		db, err := openCatalog(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		// Handle --sources flag
		if listSources {
			sources, err := db.ListSources(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%-40s %-16s %10s  %s\n", "Path", "Fingerprint", "Entries", "Imported")
			fmt.Println(strings.Repeat("-", 90))
			for _, s := range sources {
				fmt.Printf("%-40s %-16s %10s  %s\n", s.Path, s.Fingerprint, utils.Number(s.EntryCount), s.ImportedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		}

		// Handle --find flag
		if find != "" {
			pattern := find
			if !strings.ContainsAny(pattern, "%_") {
				pattern = "%" + pattern + "%"
			}

			matches, err := db.FindEntries(ctx, pattern)
			if err != nil {
				return err
			}

			for _, m := range matches {
				fmt.Printf("%s\t%s\t%s\t%s\n", m.SourcePath, asn.SectionKey(m.SectionIdx), m.SectionName, asn.FormatEntryLine(m.Entry))
			}
			slog.Info("Entries found", "pattern", pattern, "count", len(matches))
			return nil
		}

		// Handle SQL query execution
		if len(args) > 0 {
			query := args[0]
			slog.Debug("Executing SQL query", "query", query)

			rows, err := db.Query(ctx, query)
			if err != nil {
				return fmt.Errorf("executing query: %w", err)
			}
			defer rows.Close()

			columns, err := rows.Columns()
			if err != nil {
				return fmt.Errorf("getting column names: %w", err)
			}

			fmt.Println(strings.Join(columns, "\t"))
			separators := make([]string, len(columns))
			for i, col := range columns {
				separators[i] = strings.Repeat("-", len(col))
			}
			fmt.Println(strings.Join(separators, "\t"))

			for rows.Next() {
				values := make([]interface{}, len(columns))
				valuePtrs := make([]interface{}, len(columns))
				for i := range values {
					valuePtrs[i] = &values[i]
				}

				if err := rows.Scan(valuePtrs...); err != nil {
					return fmt.Errorf("scanning row: %w", err)
				}

				fields := make([]string, len(values))
				for i, val := range values {
					switch v := val.(type) {
					case nil:
						fields[i] = "NULL"
					case []byte:
						fields[i] = string(v)
					default:
						fields[i] = fmt.Sprint(v)
					}
				}
				fmt.Println(strings.Join(fields, "\t"))
			}

			if err := rows.Err(); err != nil {
				return fmt.Errorf("iterating rows: %w", err)
			}

			return nil
		}

		return fmt.Errorf("no query provided, use --sources to list imported files or --find <name> to search entries")
	},
}

var errNoCatalog = errors.New("catalog not found")

// openCatalog opens an existing catalog. Unlike the catalog command it never
// creates the database file.
func openCatalog(ctx context.Context, path string) (*database.Database, error) {
	if !paths.FileExists(path) {
		return nil, fmt.Errorf("%w: %s, run `asntool catalog` first", errNoCatalog, path)
	}

	db, err := database.NewDatabase(ctx, database.DefaultDatabaseOptions(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("sources", false, "List imported files")
	queryCmd.Flags().String("find", "", "Find entries by name (substring, or a LIKE pattern with % and _)")
}
