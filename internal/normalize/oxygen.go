package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// oxygenRule one heuristic: match decides, extract builds the requirement.
// Rules are evaluated in order and the first match wins.
type oxygenRule struct {
	name    string
	match   func(raw, folded string) bool
	extract func(raw, folded string) *domain.OxygenRequirement
}

var (
	peepRe     = regexp.MustCompile(`peep\s*[:=]?\s*(\d+(?:[.,]\d+)?)`)
	fio2Re     = regexp.MustCompile(`fio2\s*[:=]?\s*(\d+(?:[.,]\d+)?)`)
	ambientRe  = regexp.MustCompile(`\baa\b|ambient|sin o2|sin oxigeno|\bfio2\s*[:=]?\s*21\b`)
	nasalRe    = regexp.MustCompile(`\bcn\b|naricera|nasal|canula|\bnrc\b`)
	flowUnitRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:l|lt|lts|litros?|lpm|l/min)\b`)
	numberRe   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)
)

var oxygenRules = []oxygenRule{
	{name: "json", match: isJSONObject, extract: extractJSONOxygen},
	{name: "cpap", match: containsAny("cpap", "bipap", "vmni"), extract: extractCPAP},
	{name: "ambient", match: func(_, f string) bool { return ambientRe.MatchString(f) }, extract: extractAmbient},
	{name: "nasal", match: func(_, f string) bool { return nasalRe.MatchString(f) }, extract: extractNasal},
}

// ParseOxygen turns free oxygen-therapy text into a structured requirement.
// Empty text is recognized as "no data" (nil, true); text no rule matches
// yields (nil, false) so callers can report the lost information.
func ParseOxygen(text string) (*domain.OxygenRequirement, bool) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, true
	}
	folded := FoldText(raw)
	for _, rule := range oxygenRules {
		if !rule.match(raw, folded) {
			continue
		}
		if req := rule.extract(raw, folded); req != nil {
			return req, true
		}
		return nil, false
	}
	return nil, false
}

func containsAny(tokens ...string) func(raw, folded string) bool {
	return func(_, folded string) bool {
		for _, tok := range tokens {
			if strings.Contains(folded, tok) {
				return true
			}
		}
		return false
	}
}

func isJSONObject(raw, _ string) bool {
	return strings.HasPrefix(raw, "{") && json.Valid([]byte(raw))
}

func extractJSONOxygen(raw, _ string) *domain.OxygenRequirement {
	var req domain.OxygenRequirement
	if err := json.Unmarshal([]byte(raw), &req); err != nil || req.Type == "" {
		return nil
	}
	return &req
}

func extractCPAP(_, folded string) *domain.OxygenRequirement {
	req := &domain.OxygenRequirement{Type: domain.OxygenCPAP}
	if m := peepRe.FindStringSubmatch(folded); m != nil {
		if v, err := parseDecimal(m[1]); err == nil {
			req.PEEP = floatPtr(v)
		}
	}
	if m := fio2Re.FindStringSubmatch(folded); m != nil {
		if v, err := parseDecimal(m[1]); err == nil {
			req.FiO2 = floatPtr(v)
		}
	}
	switch {
	case strings.Contains(folded, "nocturn"):
		req.Usage = "nocturno"
	case strings.Contains(folded, "continu"), strings.Contains(folded, "24 h"), strings.Contains(folded, "24h"):
		req.Usage = "continuo"
	}
	return req
}

func extractAmbient(_, _ string) *domain.OxygenRequirement {
	return &domain.OxygenRequirement{Type: domain.OxygenAmbientAir}
}

func extractNasal(_, folded string) *domain.OxygenRequirement {
	req := &domain.OxygenRequirement{Type: domain.OxygenNasalCannula}
	m := flowUnitRe.FindStringSubmatch(folded)
	if m == nil {
		m = numberRe.FindStringSubmatch(folded)
	}
	if m != nil {
		if v, err := parseDecimal(m[1]); err == nil {
			req.Flow = floatPtr(v)
		}
	}
	return req
}
