package importer

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// numberPattern gates amount cells after separators are stripped. Anything
// that does not fully match coerces to zero.
var numberPattern = regexp.MustCompile(`^-?\d*\.?\d+$`)

var (
	isoDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearMonthPatten = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// fallbackDateLayouts are tried, in order, for dates that are neither
// canonical nor year-month shaped.
var fallbackDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"2006-1-2",
}

// CoercionPolicy names the parser's silent-coercion behavior: malformed
// numbers become zero and malformed dates become the current date, never
// errors. Strict mode keeps the same values but surfaces each coercion as
// a warning so data-quality tooling can see them.
type CoercionPolicy struct {
	// Strict records a warning for every coerced number or date.
	Strict bool
	// Now supplies the fallback date; defaults to time.Now.
	Now func() time.Time
}

func (p CoercionPolicy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// CleanText trims a cell, strips one layer of surrounding quotes, and
// drops replacement/mojibake characters left by encoding damage.
func (p CoercionPolicy) CleanText(value string) string {
	if value == "" {
		return ""
	}
	cleaned := strings.TrimSpace(value)
	if len(cleaned) > 0 && (cleaned[0] == '"' || cleaned[0] == '\'') {
		cleaned = cleaned[1:]
	}
	if len(cleaned) > 0 {
		last := cleaned[len(cleaned)-1]
		if last == '"' || last == '\'' {
			cleaned = cleaned[:len(cleaned)-1]
		}
	}
	cleaned = strings.TrimSpace(cleaned)
	return strings.Map(func(r rune) rune {
		if r == '�' || r == '?' {
			return -1
		}
		return r
	}, cleaned)
}

// Number parses an amount cell. Thousands separators, quotes and
// whitespace are stripped first; anything that still fails the
// signed-decimal gate becomes zero. The second result reports whether the
// value was coerced.
func (p CoercionPolicy) Number(value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, false
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '"', ' ', '\t':
			return -1
		}
		return r
	}, value)
	if !numberPattern.MatchString(cleaned) {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, true
	}
	return d, false
}

// Date parses a date cell into canonical YYYY-MM-DD form. Year-month
// values get "-01" appended; other shapes go through fallback layouts; on
// total failure the current date is used. The second result reports
// whether the fallback fired.
func (p CoercionPolicy) Date(value string) (string, bool) {
	today := p.now().Format("2006-01-02")
	if value == "" {
		return today, false
	}
	cleaned := p.CleanText(value)
	if isoDatePattern.MatchString(cleaned) {
		return cleaned, false
	}
	if yearMonthPatten.MatchString(cleaned) {
		return cleaned + "-01", false
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("2006-01-02"), false
		}
	}
	return today, true
}

// HeaderMatcher locates the header row in the first few lines of an
// export. Marker fragments rather than full labels keep detection working
// on encoding-corrupted files; add variants here instead of changing
// control flow.
type HeaderMatcher struct {
	// HeaderMarkers identify the header line itself.
	HeaderMarkers []string
	// DataMarkers identify the first real data line (header is above it).
	DataMarkers []string
	// ScanLimit caps how many leading lines are probed (default 10).
	ScanLimit int
}

// DefaultHeaderMatcher matches the real export: the header labels start
// with the record-number column ("고유...") and data ids contain "023-".
func DefaultHeaderMatcher() HeaderMatcher {
	return HeaderMatcher{
		HeaderMarkers: []string{"고유"},
		DataMarkers:   []string{"023-"},
	}
}

// Locate returns the index of the first data line. A header-marker hit
// means data starts on the next line; a data-marker hit means data starts
// right there (covers files whose header line is corrupted beyond
// recognition, including data beginning at line 0).
func (m HeaderMatcher) Locate(lines []string) (int, bool) {
	limit := m.ScanLimit
	if limit <= 0 {
		limit = 10
	}
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		for _, marker := range m.HeaderMarkers {
			if marker != "" && strings.Contains(lines[i], marker) {
				return i + 1, true
			}
		}
		for _, marker := range m.DataMarkers {
			if marker != "" && strings.Contains(lines[i], marker) {
				return i, true
			}
		}
	}
	return 0, false
}
