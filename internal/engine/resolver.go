package engine

import (
	"strings"
	"unicode"

	"github.com/almamiraa/KP-PTPN/internal/model"
)

// fuzzyThreshold is the minimum similarity ratio a fuzzy candidate
// must reach to be accepted. 0.80 absorbs typos and truncated names
// without matching unrelated sheets like recap or summary tabs.
const fuzzyThreshold = 0.80

// Resolver matches configured companies to actual sheet names through a
// ranked chain of strategies: exact, normalized, then similarity-scored.
// A sheet is consumed by the first company that claims it.
type Resolver struct {
	threshold float64
}

// NewResolver creates a resolver with the default fuzzy threshold.
func NewResolver() *Resolver {
	return &Resolver{threshold: fuzzyThreshold}
}

// Resolve maps every configured company to a SheetResolution. Companies
// are processed in configured order against a candidate pool in
// workbook order, so results are deterministic for a fixed input set.
func (r *Resolver) Resolve(sheetNames []string, companies []model.CompanyConfig) map[string]model.SheetResolution {
	pool := append([]string(nil), sheetNames...)
	resolutions := make(map[string]model.SheetResolution, len(companies))

	for _, company := range companies {
		res := r.resolveOne(company.SheetName, pool)
		resolutions[company.Key] = res
		if res.Matched {
			pool = removeSheet(pool, res.SheetName)
		}
	}

	return resolutions
}

func (r *Resolver) resolveOne(target string, pool []string) model.SheetResolution {
	// 1. Exact match.
	for _, name := range pool {
		if name == target {
			return model.SheetResolution{
				Matched:    true,
				SheetName:  name,
				Confidence: model.ConfidenceExact,
				Score:      1,
			}
		}
	}

	// 2. Case/whitespace/punctuation-insensitive match.
	normTarget := NormalizeSheetName(target)
	if normTarget != "" {
		for _, name := range pool {
			if NormalizeSheetName(name) == normTarget {
				return model.SheetResolution{
					Matched:    true,
					SheetName:  name,
					Confidence: model.ConfidenceNormalized,
					Score:      1,
				}
			}
		}
	}

	// 3. Similarity-scored match above the threshold. Ties keep the
	// earlier sheet in workbook order.
	best := ""
	bestScore := 0.0
	for _, name := range pool {
		score := Similarity(normTarget, NormalizeSheetName(name))
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	if best != "" && bestScore >= r.threshold {
		return model.SheetResolution{
			Matched:    true,
			SheetName:  best,
			Confidence: model.ConfidenceFuzzy,
			Score:      bestScore,
		}
	}

	return model.SheetResolution{}
}

func removeSheet(pool []string, name string) []string {
	for i, s := range pool {
		if s == name {
			return append(pool[:i:i], pool[i+1:]...)
		}
	}
	return pool
}

// NormalizeSheetName lowercases a sheet name and strips everything that
// is not a letter or digit, collapsing "PTPN  I" / "ptpn-i" / "PTPN I"
// into one form.
func NormalizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Similarity is the Levenshtein ratio of two strings in [0,1]; 1 means
// equal.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	max := len(ra)
	if len(rb) > max {
		max = len(rb)
	}
	return 1 - float64(levenshtein(ra, rb))/float64(max)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
