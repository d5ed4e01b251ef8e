package normalize

import (
	"regexp"
	"strconv"
	"time"
)

// Age free-text age split in units; any combination may be present
type Age struct {
	Years  int `json:"years,omitempty"`
	Months int `json:"months,omitempty"`
	Days   int `json:"days,omitempty"`
}

// agePatterns run against folded text ("años" -> "anos")
var agePatterns = []struct {
	re  *regexp.Regexp
	set func(*Age, int)
}{
	{regexp.MustCompile(`(\d+)\s*(?:anos?|a)\b`), func(a *Age, n int) { a.Years = n }},
	{regexp.MustCompile(`(\d+)\s*(?:meses|mes|m)\b`), func(a *Age, n int) { a.Months = n }},
	{regexp.MustCompile(`(\d+)\s*(?:dias?|d)\b`), func(a *Age, n int) { a.Days = n }},
}

// ParseAge extracts "<n> años", "<n> meses", "<n> días" (combinable).
// ok is false when no unit matched.
func ParseAge(text string) (Age, bool) {
	folded := FoldText(text)
	var age Age
	found := false
	for _, p := range agePatterns {
		m := p.re.FindStringSubmatch(folded)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		p.set(&age, n)
		found = true
	}
	return age, found
}

// BirthDateFromAge back-calculates a birth date from an age observed at ref
func BirthDateFromAge(age Age, ref time.Time) time.Time {
	return truncateDay(ref.AddDate(-age.Years, -age.Months, -age.Days))
}
