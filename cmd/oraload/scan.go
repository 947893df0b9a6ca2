package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oraload/oraload/internal/naming"
	"github.com/oraload/oraload/internal/reader"
)

var scanFlags struct {
	dataFolder     string
	keepDateSuffix bool
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List data files and the table names they resolve to",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFlags.dataFolder, "datafolder", "", "folder to scan for data files (required)")
	scanCmd.Flags().BoolVar(&scanFlags.keepDateSuffix, "keep-date-suffix", false, "keep date suffixes in resolved table names")
	_ = scanCmd.MarkFlagRequired("datafolder")
}

func runScan(_ *cobra.Command, _ []string) error {
	files, err := reader.ScanDir(scanFlags.dataFolder)
	if err != nil {
		return err
	}

	for _, f := range files {
		target, err := naming.Resolve(f.Stem, scanFlags.keepDateSuffix, "")
		if err != nil {
			fmt.Printf("%-40s !! %v\n", f.Name, err)
			continue
		}
		fmt.Printf("%-40s -> %-30s %8d bytes  %s\n",
			f.Name, target.Name, f.Size, f.ModifiedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("\n%d data files in %s\n", len(files), scanFlags.dataFolder)
	return nil
}
