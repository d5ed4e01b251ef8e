package scoring

import (
	"errors"
	"fmt"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

var (
	// ErrAgeOutOfRange patient age outside the range a scale is valid for
	ErrAgeOutOfRange = errors.New("age out of range for scale")
	// ErrInvalidParameter unknown enum value or impossible vital sign
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnknownRuleSet no rule set registered under the requested version
	ErrUnknownRuleSet = errors.New("unknown rule set")
)

// DomainError precondition violation of a single evaluation. No score is produced.
type DomainError struct {
	Scale string
	Field string
	Err   error // ErrAgeOutOfRange, ErrInvalidParameter or domain.ErrUnknownAge
	Msg   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Scale, e.Field, e.Msg)
}

func (e *DomainError) Unwrap() error { return e.Err }

func invalid(scale, field, format string, args ...any) *DomainError {
	return &DomainError{Scale: scale, Field: field, Err: ErrInvalidParameter, Msg: fmt.Sprintf(format, args...)}
}

// requireAge every scale is age dependent; a missing age is never read as a newborn
func requireAge(scale string, ageMonths *int) (int, error) {
	if ageMonths == nil {
		return 0, &DomainError{Scale: scale, Field: "age_months", Err: domain.ErrUnknownAge, Msg: "age_months or birth_date is required"}
	}
	if *ageMonths < 0 {
		return 0, &DomainError{Scale: scale, Field: "age_months", Err: ErrAgeOutOfRange, Msg: "age cannot be negative"}
	}
	return *ageMonths, nil
}
