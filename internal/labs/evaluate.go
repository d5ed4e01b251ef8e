package labs

import (
	"math"
	"sort"

	"github.com/astro-cL99/pediatria-sub001/internal/normalize"
)

var index = buildIndex()

func buildIndex() map[string]*Analyte {
	m := make(map[string]*Analyte)
	for i := range analytes {
		a := &analytes[i]
		m[normalize.FoldText(a.Name)] = a
		for _, alias := range a.Aliases {
			m[normalize.FoldText(alias)] = a
		}
	}
	return m
}

// Lookup resolves an analyte name or alias, accent and case insensitive
func Lookup(name string) (*Analyte, bool) {
	a, ok := index[normalize.FoldText(name)]
	return a, ok
}

// Evaluate checks every recognized analyte against its bands and returns one
// AutoDiagnosis per abnormal value, sorted by parameter name. Unrecognized
// names are ignored and never validated (see Unrecognized). ageMonths may be nil.
func Evaluate(values map[string]float64, ageMonths *int) ([]AutoDiagnosis, error) {
	if ageMonths != nil && *ageMonths < 0 {
		return nil, &InputError{Analyte: "age_months", Value: float64(*ageMonths)}
	}

	// resolve names in sorted order so duplicate aliases resolve deterministically
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make(map[*Analyte]float64)
	aux := make(map[string]float64)
	for _, name := range names {
		v := values[name]
		if a, ok := Lookup(name); ok {
			if !validValue(v) {
				return nil, &InputError{Analyte: name, Value: v}
			}
			if _, dup := resolved[a]; !dup {
				resolved[a] = v
			}
			continue
		}
		if key, ok := auxAliases[normalize.FoldText(name)]; ok {
			if !validValue(v) {
				return nil, &InputError{Analyte: name, Value: v}
			}
			aux[key] = v
		}
		// unrecognized names (base excess can be negative) are not validated
	}

	out := []AutoDiagnosis{}
	for a, v := range resolved {
		d := evaluateOne(a, v, ageMonths)
		if d == nil {
			continue
		}
		if a.Name == "hemoglobina" {
			classifyAnemia(d, aux)
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParameterName < out[j].ParameterName })
	return out, nil
}

func validValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// EvaluateOne evaluates a single analyte; nil when the value is in range
// or the name is not recognized
func EvaluateOne(name string, value float64, ageMonths *int) *AutoDiagnosis {
	a, ok := Lookup(name)
	if !ok {
		return nil
	}
	return evaluateOne(a, value, ageMonths)
}

// Unrecognized input names that are neither analytes nor anemia indices
func Unrecognized(values map[string]float64) []string {
	var out []string
	for name := range values {
		if _, ok := Lookup(name); ok {
			continue
		}
		if _, ok := auxAliases[normalize.FoldText(name)]; ok {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func evaluateOne(a *Analyte, v float64, age *int) *AutoDiagnosis {
	t := a.Thresholds(age)

	var (
		finding  Finding
		severity Severity
	)
	switch {
	case t.CritLow.below(v):
		finding, severity = a.Low, SeverityCritica
	case t.AlertLow.below(v):
		finding, severity = a.Low, SeverityModerada
	case t.CritHigh.above(v):
		finding, severity = a.High, SeverityCritica
	case t.AlertHigh.above(v):
		finding, severity = a.High, SeverityModerada
	default:
		return nil
	}
	if finding.Code == "" {
		return nil
	}
	return &AutoDiagnosis{
		Code:           finding.Code,
		Description:    finding.Description,
		Severity:       severity,
		Category:       a.Category,
		ParameterName:  a.Name,
		ActualValue:    v,
		ReferenceRange: t.referenceRange(a.Unit),
	}
}

// classifyAnemia refines a generic anemia with VCM/HCM when present
func classifyAnemia(d *AutoDiagnosis, aux map[string]float64) {
	vcm, hasVCM := aux[auxVCM]
	hcm, hasHCM := aux[auxHCM]
	if !hasVCM && !hasHCM {
		return
	}
	switch {
	case (hasVCM && vcm < 75) || (hasHCM && hcm < 25):
		d.Code, d.Description = "D50.9", "Anemia microcítica hipocrómica"
	case hasVCM && vcm > 100:
		d.Code, d.Description = "D53.9", "Anemia macrocítica"
	default:
		d.Code, d.Description = "D64.9", "Anemia normocítica"
	}
}
