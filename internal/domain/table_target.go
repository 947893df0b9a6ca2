package domain

// TableTarget is the resolved destination table for one data file.
// The name is a valid Oracle identifier: starts with a letter, at
// most 30 characters, [A-Z0-9_] only.
type TableTarget struct {
	Name       string
	SourceFile string
	// Explicit is true when the name came from a --table override
	// rather than file-name inference.
	Explicit bool
}
