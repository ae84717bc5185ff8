package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Period is a reporting month.
type Period struct {
	Year  int
	Month int
}

var monthAbbr = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// monthNames maps month name fragments (English and Indonesian, as they
// appear in the source workbooks) to month numbers. Longer fragments
// first so "juni" wins over "jun" position ties.
var monthNames = []struct {
	name  string
	month int
}{
	{"januari", 1}, {"februari", 2}, {"maret", 3}, {"april", 4},
	{"agustus", 8}, {"september", 9}, {"oktober", 10}, {"november", 11}, {"desember", 12},
	{"januar", 1}, {"agst", 8}, {"sept", 9}, {"juni", 6}, {"juli", 7},
	{"jan", 1}, {"feb", 2}, {"mar", 3}, {"apr", 4}, {"mei", 5}, {"may", 5},
	{"jun", 6}, {"jul", 7}, {"aug", 8}, {"agu", 8}, {"sep", 9},
	{"okt", 10}, {"oct", 10}, {"nov", 11}, {"des", 12}, {"dec", 12},
}

var yearRe = regexp.MustCompile(`(20\d{2})|(\d{2})`)

// ParsePeriod parses the user-facing "YYYY-MM" form.
func ParsePeriod(s string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period %q, expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q, expected YYYY-MM", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid period %q, expected YYYY-MM", s)
	}
	return Period{Year: year, Month: month}, nil
}

// String renders the storage form "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Token renders the canonical header token, e.g. "Feb-25".
func (p Period) Token() string {
	if p.Month < 1 || p.Month > 12 {
		return ""
	}
	return fmt.Sprintf("%s-%02d", monthAbbr[p.Month-1], p.Year%100)
}

// Prev returns the preceding month.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// ParsePeriodLabel extracts month and year from a free-form header
// label such as "Feb-25", " Feb -25 ", "Februari 2025" or "s.d. Des 24".
// Labels without a recognizable month or year do not match.
func ParsePeriodLabel(label string) (Period, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(label))
	if cleaned == "" {
		return Period{}, false
	}

	month := 0
	monthPos := len(cleaned)
	for _, m := range monthNames {
		if pos := strings.Index(cleaned, m.name); pos >= 0 && pos < monthPos {
			month = m.month
			monthPos = pos
		}
	}
	if month == 0 {
		return Period{}, false
	}

	// Prefer a full 4-digit year; otherwise take the last 2-digit run
	// ("Feb-25" style suffixes).
	year := 0
	for _, digits := range yearRe.FindAllString(cleaned, -1) {
		n, _ := strconv.Atoi(digits)
		if len(digits) == 4 {
			year = n
			break
		}
		year = 2000 + n
	}
	if year == 0 {
		return Period{}, false
	}

	return Period{Year: year, Month: month}, true
}
