// Package labs emits automatic diagnoses for lab values outside per-analyte
// reference bands. Each analyte is evaluated independently.
package labs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Severity of an auto-diagnosis
type Severity string

const (
	SeverityModerada Severity = "moderada" // alert band
	SeverityCritica  Severity = "crítica"  // critical band
)

// Categories
const (
	CategoryElectrolitos = "electrolitos"
	CategoryMetabolico   = "metabólico"
	CategoryHematologico = "hematológico"
	CategoryInflamatorio = "inflamatorio"
	CategoryGases        = "gases"
	CategoryRenal        = "renal"
)

// AutoDiagnosis one abnormal analyte
type AutoDiagnosis struct {
	Code           string   `json:"code"`
	Description    string   `json:"description"`
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	ParameterName  string   `json:"parameter_name"`
	ActualValue    float64  `json:"actual_value"`
	ReferenceRange string   `json:"reference_range"`
}

// ErrInvalidInput rejected analyte value or age
var ErrInvalidInput = errors.New("invalid lab input")

// InputError a value that cannot be evaluated (NaN, infinite, negative)
type InputError struct {
	Analyte string
	Value   float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Analyte, e.Value)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Limit one threshold. Inclusive switches < / > to <= / >=.
type Limit struct {
	Value     float64
	Inclusive bool
}

func (l *Limit) below(v float64) bool {
	if l == nil {
		return false
	}
	if l.Inclusive {
		return v <= l.Value
	}
	return v < l.Value
}

func (l *Limit) above(v float64) bool {
	if l == nil {
		return false
	}
	if l.Inclusive {
		return v >= l.Value
	}
	return v > l.Value
}

func lim(v float64) *Limit  { return &Limit{Value: v} }
func incl(v float64) *Limit { return &Limit{Value: v, Inclusive: true} }

// Thresholds two-sided band table; nil limits are not evaluated
type Thresholds struct {
	CritLow   *Limit
	AlertLow  *Limit
	AlertHigh *Limit
	CritHigh  *Limit
}

// Finding code and description emitted for one side of the band
type Finding struct {
	Code        string
	Description string
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// referenceRange "3.5 - 5.5 mEq/L", "< 10 mg/L", ">= 11.5 g/dL"
func (t Thresholds) referenceRange(unit string) string {
	var s string
	switch {
	case t.AlertLow != nil && t.AlertHigh != nil:
		s = fmtNum(t.AlertLow.Value) + " - " + fmtNum(t.AlertHigh.Value)
	case t.AlertHigh != nil:
		s = "<= " + fmtNum(t.AlertHigh.Value)
	case t.AlertLow != nil:
		s = ">= " + fmtNum(t.AlertLow.Value)
	}
	if unit != "" {
		s += " " + unit
	}
	return strings.TrimSpace(s)
}
