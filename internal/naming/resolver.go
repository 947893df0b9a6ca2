package naming

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oraload/oraload/internal/domain"
)

// maxIdentifierLen is the Oracle table identifier limit.
const maxIdentifierLen = 30

var (
	invalidCharRe  = regexp.MustCompile(`[^A-Za-z0-9_]`)
	underscoreRuns = regexp.MustCompile(`_+`)
	leadingLetter  = regexp.MustCompile(`^[A-Za-z]`)
)

// Normalize applies the identifier rules to a raw name: every
// character outside [A-Za-z0-9_] becomes "_", runs of underscores
// collapse to one, leading/trailing underscores are trimmed, the
// result is upper-cased, prefixed with "T_" when it does not start
// with a letter, and truncated to 30 characters last. Normalize is
// idempotent: applying it to its own output returns the same string.
func Normalize(name string) string {
	name = invalidCharRe.ReplaceAllString(name, "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	name = strings.ToUpper(name)
	if !leadingLetter.MatchString(name) {
		name = "T_" + name
	}
	if len(name) > maxIdentifierLen {
		// Trim any underscore the cut exposes so re-normalizing the
		// truncated name is a no-op.
		name = strings.TrimRight(name[:maxIdentifierLen], "_")
	}
	return name
}

// NormalizeColumn applies the identifier character rules to a
// header cell: invalid characters become underscores, runs collapse,
// the result is upper-cased and truncated. Unlike table names no
// "T_" prefix is added; an empty result is returned as-is so the
// caller can substitute a positional name.
func NormalizeColumn(name string) string {
	name = invalidCharRe.ReplaceAllString(name, "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	name = strings.ToUpper(name)
	if len(name) > maxIdentifierLen {
		name = strings.TrimRight(name[:maxIdentifierLen], "_")
	}
	return name
}

// Resolve derives the target table for a data file. An explicit
// override takes precedence over all inference; otherwise the date
// suffix is stripped from the stem unless keepDateSuffix is set, and
// the identifier rules are applied to the result.
func Resolve(fileStem string, keepDateSuffix bool, override string) (domain.TableTarget, error) {
	if override != "" {
		name := Normalize(override)
		if name == "T_" || name == "" {
			return domain.TableTarget{}, fmt.Errorf("table override %q yields no valid identifier", override)
		}
		return domain.TableTarget{Name: name, SourceFile: fileStem, Explicit: true}, nil
	}

	stem := fileStem
	if !keepDateSuffix {
		stem, _, _ = StripDateSuffix(stem)
	}

	name := Normalize(stem)
	if name == "T_" || name == "" {
		return domain.TableTarget{}, fmt.Errorf("file stem %q yields no valid table identifier", fileStem)
	}
	return domain.TableTarget{Name: name, SourceFile: fileStem}, nil
}
