package impact

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var thousand = decimal.NewFromInt(1000)

// metricFields maps normalized metric names to the counter they feed.
var metricFields = map[string]Field{
	"arboles plantados":    FieldTreesPlanted,
	"agua infiltrada":      FieldWaterLiters,
	"voluntarios":          FieldVolunteers,
	"uniformes reciclados": FieldUniformsRecycled,
	"botellas recicladas":  FieldBottlesRecycled,
	"co2 capturado":        FieldCO2Kg,
}

// Entry is the classifier's view of a project impact entry.
type Entry struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Unit   string `json:"unit,omitempty"`
}

// Contribution is what a single entry adds to a bundle. Field is FieldNone
// for entries whose metric is not recognized.
type Contribution struct {
	Field  Field
	Amount decimal.Decimal
}

// Classified reports whether the entry feeds a counter.
func (c Contribution) Classified() bool {
	return c.Field != FieldNone
}

// Summary is the result of classifying a batch of entries.
type Summary struct {
	Bundle       Bundle
	Classified   int
	Unclassified []Entry
}

// NormalizeMetric folds a free-text metric name to its lookup key: trimmed,
// lowercased, without diacritics and with single spaces. NFKD also folds
// compatibility forms, so "CO₂" becomes "co2".
func NormalizeMetric(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// KnownMetrics returns the recognized metric names in lookup form, sorted.
func KnownMetrics() []string {
	names := make([]string, 0, len(metricFields))
	for name := range metricFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupMetric returns the counter a metric name feeds, or FieldNone.
func LookupMetric(name string) Field {
	return metricFields[NormalizeMetric(name)]
}

// ParseValue reads the leading number of s ("1000 árboles" is 1000).
// Empty, unparsable and negative values read as zero. The result is brought
// into the stored counter range with Bound.
func ParseValue(s string) decimal.Decimal {
	prefix := numericPrefix(strings.TrimSpace(s))
	if prefix == "" {
		return decimal.Zero
	}
	prefix = strings.TrimPrefix(prefix, "+")
	if strings.HasPrefix(prefix, ".") || strings.HasPrefix(prefix, "-.") {
		prefix = strings.Replace(prefix, ".", "0.", 1)
	}
	v, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return Bound(v)
}

// numericPrefix returns the longest prefix of s shaped like
// [+-]digits[.digits][(e|E)[+-]digits].
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - intStart
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if frac := j - i - 1; frac > 0 || digits > 0 {
			digits += frac
			if frac > 0 {
				i = j
			}
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			end = j
		}
	}
	return s[:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Classify maps one entry to its contribution. CO2 reported in tons is
// converted to kilograms.
func Classify(e Entry) Contribution {
	field := LookupMetric(e.Metric)
	if field == FieldNone {
		return Contribution{Field: FieldNone, Amount: decimal.Zero}
	}

	amount := ParseValue(e.Value)
	if field == FieldCO2Kg && strings.Contains(strings.ToLower(e.Unit), "ton") {
		amount = Bound(amount.Mul(thousand))
	}
	return Contribution{Field: field, Amount: amount}
}

// Summarize classifies a batch and sums the recognized entries. Creation,
// deletion and rebuilds all go through here so that they stay symmetric.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		c := Classify(e)
		if !c.Classified() {
			s.Unclassified = append(s.Unclassified, e)
			continue
		}
		s.Classified++
		s.Bundle = s.Bundle.With(c.Field, c.Amount)
	}
	s.Bundle = s.Bundle.Clamp()
	return s
}
