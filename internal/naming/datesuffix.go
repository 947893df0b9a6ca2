// Package naming derives destination table identifiers from data
// file names, including recognition of calendar-like suffixes that
// merge dated files into one logical table.
package naming

import (
	"regexp"
	"strconv"
	"strings"
)

// Suffix shapes are anchored at the end of the stem, optionally
// preceded by "_" or "-" and optionally followed by a "_NNN"
// sequence number that is stripped along with the date. Each compact
// shape must cover the entire trailing digit run; a run that fits no
// shape is left untouched so ambiguous numeric tails never strip.
var (
	delimitedDateRe = regexp.MustCompile(`^(.*?)[_-]?(\d{4})[-_](\d{2})[-_](\d{2})(_\d{1,4})?$`)
	epochRe         = regexp.MustCompile(`^(.*?[^0-9])?([12]\d{9})(_\d{1,4})?$`)
	compactDateRe   = regexp.MustCompile(`^(.*?[^0-9])?(\d{8})(_\d{1,4})?$`)
	yearMonthRe     = regexp.MustCompile(`^(.*?[^0-9])?(\d{6})(_\d{1,4})?$`)
)

// StripDateSuffix removes a recognized date suffix from stem and
// returns the base name, whether a suffix was found, and the exact
// suffix text removed. Shapes are tried longest first, so an 8-digit
// date wins over a 6-digit year-month. Stripping that would leave
// fewer than two identifier characters restores the original stem.
func StripDateSuffix(stem string) (base string, found bool, suffix string) {
	if m := delimitedDateRe.FindStringSubmatch(stem); m != nil {
		if validMonthDay(m[3], m[4]) && validYear(m[2]) {
			return finishStrip(stem, m[1])
		}
	}
	if m := epochRe.FindStringSubmatch(stem); m != nil {
		return finishStrip(stem, m[1])
	}
	if m := compactDateRe.FindStringSubmatch(stem); m != nil {
		digits := m[2]
		if validYear(digits[:4]) && validMonthDay(digits[4:6], digits[6:8]) {
			return finishStrip(stem, m[1])
		}
	}
	if m := yearMonthRe.FindStringSubmatch(stem); m != nil {
		digits := m[2]
		if validYear(digits[:4]) && validMonth(digits[4:6]) {
			return finishStrip(stem, m[1])
		}
	}
	return stem, false, ""
}

func finishStrip(stem, prefix string) (string, bool, string) {
	base := strings.TrimRight(prefix, "_-")
	if len(strings.Trim(base, "_")) < 2 {
		return stem, false, ""
	}
	return base, true, stem[len(base):]
}

func validYear(s string) bool {
	year, err := strconv.Atoi(s)
	return err == nil && year >= 1900 && year <= 2199
}

func validMonth(s string) bool {
	month, err := strconv.Atoi(s)
	return err == nil && month >= 1 && month <= 12
}

// validMonthDay checks shape plausibility only; no per-month day
// counting, to match real-world permissive file naming.
func validMonthDay(monthStr, dayStr string) bool {
	if !validMonth(monthStr) {
		return false
	}
	day, err := strconv.Atoi(dayStr)
	return err == nil && day >= 1 && day <= 31
}
