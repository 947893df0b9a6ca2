package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oraload/oraload/internal/config"
	"github.com/oraload/oraload/internal/header"
	"github.com/oraload/oraload/internal/naming"
	"github.com/oraload/oraload/internal/reader"
)

var previewRows int

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Show how one data file would be interpreted",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewRows, "rows", 5, "number of data rows to show")
}

func runPreview(_ *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	file, err := reader.ReadFile(args[0])
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(file.Name, filepath.Ext(file.Name))
	target, err := naming.Resolve(stem, false, "")
	if err != nil {
		return err
	}
	base, stripped, suffix := naming.StripDateSuffix(stem)

	detector := header.New(settings.Header)
	hasHeader := detector.Detect(file.FirstRow())

	fmt.Printf("file:    %s (%s, %d bytes, %d rows)\n", file.Name, file.Format, file.Size, len(file.Rows))
	fmt.Printf("table:   %s\n", color.CyanString(target.Name))
	if stripped {
		fmt.Printf("         date suffix %q stripped from %q\n", suffix, base+suffix)
	}
	fmt.Printf("header:  %v\n", hasHeader)

	rows := file.Rows
	if hasHeader && len(rows) > 0 {
		fmt.Printf("columns: %s\n", strings.Join(rows[0], ", "))
		rows = rows[1:]
	}
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	for i, row := range rows {
		fmt.Printf("  row %d: %s\n", i+1, strings.Join(row, " | "))
	}
	return nil
}
