// Package header decides whether the first row of a data file is a
// header row or the first row of data.
package header

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode governs how detection behaves.
type Mode string

const (
	// ModeAuto uses the configured keyword expression, or the
	// built-in heuristic when no keywords are configured.
	ModeAuto Mode = "auto"
	// ModeForceHeader always treats the first row as a header.
	ModeForceHeader Mode = "force_header"
	// ModeForceNoHeader always treats the first row as data.
	ModeForceNoHeader Mode = "force_no_header"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeForceHeader, ModeForceNoHeader:
		return Mode(s), nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown header detection mode %q", s)
	}
}

// Config is the header-detection section of the run configuration.
type Config struct {
	// Keywords is a sum-of-products expression over first-row cells:
	// comma separates keywords that must all match (AND), pipe
	// separates alternative groups (OR). Example: "id,name|code,type"
	// means (id AND name) OR (code AND type).
	Keywords string
	Mode     Mode
}

// Detector evaluates header presence for first rows. The keyword
// expression is parsed once at construction and reused for every
// file.
type Detector struct {
	mode   Mode
	groups [][]string
}

// New builds a Detector from cfg.
func New(cfg Config) *Detector {
	return &Detector{
		mode:   cfg.Mode,
		groups: parseKeywords(cfg.Keywords),
	}
}

// parseKeywords splits an expression into OR groups of AND keywords,
// upper-casing and trimming each keyword. Empty groups and keywords
// are dropped.
func parseKeywords(expr string) [][]string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	var groups [][]string
	for _, group := range strings.Split(expr, "|") {
		var keywords []string
		for _, kw := range strings.Split(group, ",") {
			kw = strings.ToUpper(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			groups = append(groups, keywords)
		}
	}
	return groups
}

// Detect reports whether firstRow is a header row. It is a pure
// function of the detector configuration and the row.
func (d *Detector) Detect(firstRow []string) bool {
	switch d.mode {
	case ModeForceHeader:
		return true
	case ModeForceNoHeader:
		return false
	}

	if len(d.groups) > 0 {
		return d.matchKeywords(firstRow)
	}
	return looksLikeLabels(firstRow)
}

// matchKeywords evaluates the sum-of-products expression: true when
// at least one group has every keyword equal to some cell value,
// case-insensitively.
func (d *Detector) matchKeywords(firstRow []string) bool {
	cells := make(map[string]struct{}, len(firstRow))
	for _, cell := range firstRow {
		cells[strings.ToUpper(strings.TrimSpace(cell))] = struct{}{}
	}

	for _, group := range d.groups {
		satisfied := true
		for _, kw := range group {
			if _, ok := cells[kw]; !ok {
				satisfied = false
				break
			}
		}
		if satisfied {
			return true
		}
	}
	return false
}

// looksLikeLabels is the fallback heuristic for auto mode without
// keywords: a header row is all non-empty, non-numeric cells. Any
// blank or numeric-looking cell means the row is data. Date-like
// strings are not treated as numeric; the heuristic inspects only
// emptiness and numeric shape.
func looksLikeLabels(firstRow []string) bool {
	if len(firstRow) == 0 {
		return false
	}
	for _, cell := range firstRow {
		value := strings.TrimSpace(cell)
		if value == "" {
			return false
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return false
		}
	}
	return true
}
