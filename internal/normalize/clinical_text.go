package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

// diagnosisSeparators row-internal separators of the diagnoses cell
const diagnosisSeparators = "\n;,+/"

// SplitDiagnoses splits a separator-joined diagnoses cell, trimming empties.
// The result is never nil.
func SplitDiagnoses(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(diagnosisSeparators, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var antibioticRe = regexp.MustCompile(`(?i)^\s*(.+?)\s*\b(?:d[ií]a|d)\s*(\d+)\s*(?:/|de)\s*(\d+)`)

// ParseAntibiotics extracts courses written as "<drug> D<n>/<m>" or
// "<drug> día <n> de <m>" from the antibiotics/plan text. Day 1 is the start date.
func ParseAntibiotics(text string, ref time.Time) []domain.AntibioticTracking {
	var out []domain.AntibioticTracking
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ';' || r == ',' || r == '+'
	})
	for _, seg := range segments {
		m := antibioticRe.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		day, err1 := strconv.Atoi(m[2])
		planned, err2 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil || day < 1 || planned < 1 {
			continue
		}
		out = append(out, domain.AntibioticTracking{
			Name:        strings.TrimSpace(m[1]),
			StartDate:   truncateDay(ref).AddDate(0, 0, -(day - 1)),
			PlannedDays: planned,
			CurrentDay:  day,
		})
	}
	return out
}

var (
	scoreLabelRe = regexp.MustCompile(`\b(tal|wd|wood\s*-?\s*downes?)\s*[:=]?\s*(\d{1,2})\b`)
	bareScoreRe  = regexp.MustCompile(`^(\d{1,2})$`)
)

// Scale labels used in score readings
const (
	ScaleTal        = "TAL"
	ScaleWoodDownes = "WD"
)

// ParseScoreLabel reads "TAL 5", "WD: 7", "Wood-Downes 4" or a bare "5"
func ParseScoreLabel(label string) (*domain.ScoreReading, bool) {
	folded := FoldText(label)
	if folded == "" {
		return nil, false
	}
	if m := scoreLabelRe.FindStringSubmatch(folded); m != nil {
		v, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, false
		}
		scale := ScaleWoodDownes
		if m[1] == "tal" {
			scale = ScaleTal
		}
		return &domain.ScoreReading{Scale: scale, Value: v}, true
	}
	if m := bareScoreRe.FindStringSubmatch(folded); m != nil {
		v, _ := strconv.Atoi(m[1])
		return &domain.ScoreReading{Value: v}, true
	}
	return nil, false
}
