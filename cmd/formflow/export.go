package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	formflow "github.com/petrijr/formflow"
	"github.com/petrijr/formflow/pkg/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored responses as CSV or JSON",
	Long: `Reads responses from the database given with --db and writes them
to stdout or to the file given with --out.`,
	Run: func(cmd *cobra.Command, args []string) {
		dbPath, _ := cmd.Flags().GetString("db")
		format, _ := cmd.Flags().GetString("format")
		surveyID, _ := cmd.Flags().GetString("survey")
		completedOnly, _ := cmd.Flags().GetBool("completed-only")
		timestamps, _ := cmd.Flags().GetBool("timestamps")
		metadata, _ := cmd.Flags().GetBool("metadata")
		outPath, _ := cmd.Flags().GetString("out")

		if dbPath == "" {
			fmt.Println("Error: --db is required for export")
			os.Exit(1)
		}

		opts := export.Options{IncludeTimestamps: timestamps, IncludeMetadata: metadata}
		if err := runExport(dbPath, format, surveyID, completedOnly, opts, outPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", "csv", "Output format: csv or json")
	exportCmd.Flags().String("survey", "", "Only export responses for this survey id")
	exportCmd.Flags().Bool("completed-only", false, "Only export completed responses")
	exportCmd.Flags().Bool("timestamps", false, "Include start/end time columns")
	exportCmd.Flags().Bool("metadata", false, "Include response metadata")
	exportCmd.Flags().StringP("out", "o", "", "Write output to a file instead of stdout")
}

func runExport(dbPath, format, surveyID string, completedOnly bool, opts export.Options, outPath string) error {
	ctx := context.Background()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	eng, err := formflow.NewSQLiteEngine(db)
	if err != nil {
		return err
	}

	responses, err := eng.ListResponses(ctx, formflow.ResponseListOptions{
		SurveyID:      surveyID,
		CompletedOnly: completedOnly,
	})
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		return export.WriteCSV(out, responses, opts)
	case "json":
		return export.WriteJSON(out, responses, opts)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
