package main

import (
	"fmt"
	"log"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oraload/oraload/internal/config"
	"github.com/oraload/oraload/internal/db"
	"github.com/oraload/oraload/internal/domain"
	"github.com/oraload/oraload/internal/header"
	"github.com/oraload/oraload/internal/importer"
)

var importFlags struct {
	dataFolder     string
	ddlFolder      string
	tables         []string
	keepDateSuffix bool
	dryRun         bool
	createSQL      bool
	batchSize      int
	maxRetries     int
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import data files from a folder into database tables",
	RunE:  runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFlags.dataFolder, "datafolder", "", "folder to scan for data files (required)")
	f.StringVar(&importFlags.ddlFolder, "ddl-folder", "", "folder with .sql / .md schema documents")
	f.StringSliceVar(&importFlags.tables, "table", nil, "explicit target table names, paired with files in scan order")
	f.BoolVar(&importFlags.keepDateSuffix, "keep-date-suffix", false, "keep date suffixes in resolved table names")
	f.BoolVar(&importFlags.dryRun, "dry-run", false, "validate files without writing to the database")
	f.BoolVar(&importFlags.createSQL, "create-sql", false, "write INSERT statement files instead of executing")
	f.IntVar(&importFlags.batchSize, "batch-size", 0, "override the configured batch size")
	f.IntVar(&importFlags.maxRetries, "max-retries", -1, "override the configured retry count")
	_ = importCmd.MarkFlagRequired("datafolder")
}

func runImport(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if importFlags.batchSize > 0 {
		settings.Import.BatchSize = importFlags.batchSize
	}
	if importFlags.maxRetries >= 0 {
		settings.Import.MaxRetries = importFlags.maxRetries
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	executing := !importFlags.dryRun && !importFlags.createSQL

	var gateway db.Gateway
	if executing {
		conn, err := db.NewConnection(ctx, settings.Database)
		if err != nil {
			return err
		}
		gateway = db.NewGateway(conn)
		defer gateway.Close()
	}

	var sink *importer.SQLSink
	if importFlags.createSQL {
		sink, err = importer.NewSQLSink(settings.SQLOutputDir)
		if err != nil {
			return err
		}
	}

	engine := importer.NewEngine(gateway, header.New(settings.Header), settings.Import, sink, log.Default())
	runner := importer.NewRunner(engine, log.Default())

	report, err := runner.Run(ctx, importer.RunOptions{
		DataFolder:     importFlags.dataFolder,
		DDLFolder:      importFlags.ddlFolder,
		Tables:         importFlags.tables,
		KeepDateSuffix: importFlags.keepDateSuffix,
		DryRun:         importFlags.dryRun,
		CreateSQL:      importFlags.createSQL,
	})
	if err != nil {
		return err
	}

	printReport(report)
	if report.Failed() {
		return fmt.Errorf("run %s finished with failures", report.RunID)
	}
	return nil
}

// printReport renders the per-file outcomes and run totals.
func printReport(report *domain.RunReport) {
	fmt.Println()
	for _, res := range report.Results {
		label := statusColor(res.Status).Sprintf("%-18s", res.Status)
		fmt.Printf("%s %s -> %s (%d/%d rows", label, res.File, res.Table, res.RowsCommitted, res.RowsAttempted)
		if res.RowsSkipped > 0 {
			fmt.Printf(", %d skipped", res.RowsSkipped)
		}
		if res.Retries > 0 {
			fmt.Printf(", %d retries", res.Retries)
		}
		fmt.Print(")")
		if res.Err != nil {
			fmt.Printf(": %v", res.Err)
		}
		fmt.Println()
	}
	for _, err := range report.Errors {
		color.Yellow("warning: %v", err)
	}

	attempted, committed, failed := report.Totals()
	fmt.Printf("\nrun %s: %d files, %d rows attempted, %d committed, %d failed (%s)\n",
		report.RunID, len(report.Results), attempted, committed, failed,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}

func statusColor(status domain.ImportStatus) *color.Color {
	switch status {
	case domain.StatusSucceeded:
		return color.New(color.FgGreen)
	case domain.StatusPartiallyFailed, domain.StatusSkippedDuplicate:
		return color.New(color.FgYellow)
	case domain.StatusFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgCyan)
	}
}
