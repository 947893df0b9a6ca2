package reader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ScannedFile is directory-scan metadata for one candidate data
// file; rows are not decoded until the file is imported.
type ScannedFile struct {
	Path       string
	Name       string
	Stem       string
	Size       int64
	ModifiedAt time.Time
}

var dataExtensions = map[string]struct{}{
	".csv":  {},
	".txt":  {},
	".xlsx": {},
	".xlsm": {},
}

// ScanDir walks dir recursively and returns candidate data files
// ordered by modification time. Spreadsheet lock files ("~$" prefix)
// are skipped.
func ScanDir(dir string) ([]ScannedFile, error) {
	var files []ScannedFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "~$") {
			return nil
		}
		if _, ok := dataExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, ScannedFile{
			Path:       path,
			Name:       name,
			Stem:       strings.TrimSuffix(name, filepath.Ext(name)),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan data folder %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.Before(files[j].ModifiedAt)
	})
	return files, nil
}
