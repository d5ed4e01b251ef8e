// Package tracking derives display state from antibiotic courses and score readings.
package tracking

import (
	"math"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// AntibioticStatus derived state of an antibiotic course
type AntibioticStatus struct {
	Name        string  `json:"name"`
	CurrentDay  int     `json:"current_day"`
	PlannedDays int     `json:"planned_days"`
	Progress    float64 `json:"progress"` // percent, [0,100]
	EndingSoon  bool    `json:"ending_soon"`
	Ended       bool    `json:"ended"`
}

// AntibioticProgress currentDay / plannedDays * 100 clamped to [0,100].
// A course without planned days has no progress.
func AntibioticProgress(currentDay, plannedDays int) float64 {
	if plannedDays <= 0 {
		return 0
	}
	p := float64(currentDay) / float64(plannedDays) * 100
	return math.Max(0, math.Min(100, p))
}

// EvaluateAntibiotic computes progress and end flags at the given time.
// PlannedDays falls back to EndDate - StartDate + 1, and CurrentDay to the
// days elapsed since StartDate (day 1 = start) when they are not set.
func EvaluateAntibiotic(ab domain.AntibioticTracking, at time.Time) AntibioticStatus {
	planned := ab.PlannedDays
	if planned <= 0 && ab.EndDate != nil && !ab.StartDate.IsZero() {
		planned = daysBetween(ab.StartDate, *ab.EndDate) + 1
	}
	current := ab.CurrentDay
	if current <= 0 && !ab.StartDate.IsZero() {
		current = daysBetween(ab.StartDate, at) + 1
	}

	st := AntibioticStatus{
		Name:        ab.Name,
		CurrentDay:  current,
		PlannedDays: planned,
		Progress:    AntibioticProgress(current, planned),
	}
	if planned > 0 {
		st.EndingSoon = planned-current <= 1
		st.Ended = current >= planned
	}
	return st
}

// Trend score direction; lower respiratory scores are better
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendUnchanged Trend = "unchanged"
)

// ScoreTrendResult delta = current - atAdmission
type ScoreTrendResult struct {
	Delta int   `json:"delta"`
	Trend Trend `json:"trend"`
}

// ScoreTrend sign of current - atAdmission: negative improves, positive worsens
func ScoreTrend(st domain.RespiratoryScoreTracking) ScoreTrendResult {
	delta := st.Current - st.AtAdmission
	switch {
	case delta < 0:
		return ScoreTrendResult{Delta: delta, Trend: TrendImproving}
	case delta > 0:
		return ScoreTrendResult{Delta: delta, Trend: TrendWorsening}
	default:
		return ScoreTrendResult{Delta: 0, Trend: TrendUnchanged}
	}
}

// daysBetween whole calendar days from a to b (UTC dates)
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
