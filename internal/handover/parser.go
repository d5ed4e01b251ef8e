// Package handover parses the hospital bed handover sheet into HandoverRecords.
package handover

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
	"github.com/astro-cL99/pediatria-sub001/internal/normalize"
)

// DefaultHeaderScanRows rows searched for the header when ParseOptions leaves it unset
const DefaultHeaderScanRows = 20

// ParseOptions parser tuning
type ParseOptions struct {
	HeaderScanRows int       // bound for the header search
	Reference      time.Time // "today": age back-calculation and missing admission dates
}

// ParseResult parsed records plus per-row diagnostics.
// len(Records) + len(Skipped) == TotalDataRows.
type ParseResult struct {
	HeaderRow     int                     `json:"header_row"`
	Records       []domain.HandoverRecord `json:"records"`
	Skipped       []SkipDiagnostic        `json:"skipped"`
	Warnings      []Warning               `json:"warnings"`
	TotalDataRows int                     `json:"total_data_rows"`
}

var bedRe = regexp.MustCompile(`^(?:cama\s*)?([a-z]?\d+[a-z]?)(?:\s*[-/]\s*(\d+))?$`)

// ParseBed parses "ROOM[-SUBBED]"; the sub-bed defaults to 1
func ParseBed(text string) (domain.BedSlot, error) {
	m := bedRe.FindStringSubmatch(normalize.FoldText(text))
	if m == nil {
		return domain.BedSlot{}, fmt.Errorf("invalid bed %q", text)
	}
	slot := domain.BedSlot{Room: strings.ToUpper(m[1]), Bed: 1}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 {
			return domain.BedSlot{}, fmt.Errorf("invalid bed %q", text)
		}
		slot.Bed = n
	}
	return slot, nil
}

// Parse turns the rows of one sheet into records. It fails only when no header
// row is found within the scan bound; malformed rows become SkipDiagnostics.
// Blank rows between data rows are skipped as "blank row"; blank rows after the last data row are ignored.
func Parse(rows [][]string, opts ParseOptions) (*ParseResult, error) {
	if opts.HeaderScanRows <= 0 {
		opts.HeaderScanRows = DefaultHeaderScanRows
	}
	if opts.Reference.IsZero() {
		opts.Reference = time.Now()
	}
	ref := time.Date(opts.Reference.Year(), opts.Reference.Month(), opts.Reference.Day(), 0, 0, 0, 0, time.UTC)

	headerIdx := -1
	for i := 0; i < len(rows) && i < opts.HeaderScanRows; i++ {
		if isHeaderRow(rows[i]) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &StructuralParseError{
			Reason: fmt.Sprintf("no header row containing %q in the first %d rows", bedMarker, opts.HeaderScanRows),
		}
	}

	cols := buildColumnMap(rows[headerIdx])
	res := &ParseResult{
		HeaderRow: headerIdx + 1,
		Records:   []domain.HandoverRecord{},
		Skipped:   []SkipDiagnostic{},
		Warnings:  []Warning{},
	}

	// trailing blank rows are sheet padding, not data
	last := len(rows) - 1
	for last > headerIdx && isBlank(rows[last]) {
		last--
	}
	for i := headerIdx + 1; i <= last; i++ {
		row := rows[i]
		res.TotalDataRows++
		rowNum := i + 1
		if isBlank(row) {
			res.Skipped = append(res.Skipped, SkipDiagnostic{Row: rowNum, Reason: "blank row"})
			continue
		}

		rec, warnings, reason := parseRow(row, rowNum, cols, ref)
		if reason != "" {
			res.Skipped = append(res.Skipped, SkipDiagnostic{Row: rowNum, Reason: reason})
			continue
		}
		res.Records = append(res.Records, *rec)
		res.Warnings = append(res.Warnings, warnings...)
	}
	return res, nil
}

// parseRow returns either a record or a non-empty skip reason
func parseRow(row []string, rowNum int, cols columnMap, ref time.Time) (*domain.HandoverRecord, []Warning, string) {
	bedText := cols.cell(row, colBed)
	if bedText == "" {
		return nil, nil, "missing bed"
	}
	slot, err := ParseBed(bedText)
	if err != nil {
		return nil, nil, err.Error()
	}
	name := cols.cell(row, colName)
	if name == "" {
		return nil, nil, "missing name"
	}
	rut := domain.NormalizeRUT(cols.cell(row, colRUT))
	if rut == "" {
		return nil, nil, "missing rut"
	}

	var warnings []Warning
	warn := func(field column, reason string) {
		warnings = append(warnings, Warning{Row: rowNum, Field: field.String(), Reason: reason})
	}

	rec := &domain.HandoverRecord{
		Row:              rowNum,
		Room:             slot.Room,
		Bed:              slot.Bed,
		Name:             name,
		RUT:              rut,
		Diagnoses:        normalize.SplitDiagnoses(cols.cell(row, colDiagnosis)),
		ViralPanel:       cols.cell(row, colViralPanel),
		RespiratoryScore: cols.cell(row, colScore),
		PendingTasks:     cols.cell(row, colPending),
	}

	rec.BirthDate, rec.BirthDateSource = birthDate(cols.cell(row, colAge), ref)
	if rec.BirthDateSource == domain.BirthDatePlaceholder && cols.cell(row, colAge) != "" {
		warn(colAge, fmt.Sprintf("unrecognized age %q, placeholder birth date used", cols.cell(row, colAge)))
	}

	rec.AdmissionDate = ref
	if text := cols.cell(row, colAdmission); text != "" {
		if d, err := normalize.ParseDate(text); err == nil {
			rec.AdmissionDate = d
		} else {
			warn(colAdmission, fmt.Sprintf("unrecognized admission date %q, import date used", text))
		}
	}

	if text := cols.cell(row, colOxygen); text != "" {
		oxygen, ok := normalize.ParseOxygen(text)
		if !ok {
			warn(colOxygen, fmt.Sprintf("unrecognized oxygen requirement %q", text))
		}
		rec.Oxygen = oxygen
	}

	if rec.RespiratoryScore != "" {
		if reading, ok := normalize.ParseScoreLabel(rec.RespiratoryScore); ok {
			rec.ScoreReading = reading
		}
	}

	antibiotics := cols.cell(row, colAntibiotics)
	plan := cols.cell(row, colPlan)
	rec.Plan = joinNonEmpty("\n", antibiotics, plan)
	rec.Antibiotics = normalize.ParseAntibiotics(rec.Plan, ref)

	return rec, warnings, ""
}

// birthDate: a date in the age cell is the birth date, an age text is back-calculated,
// anything else falls back to the placeholder
func birthDate(text string, ref time.Time) (time.Time, domain.BirthDateSource) {
	if text == "" {
		return domain.PlaceholderBirthDate, domain.BirthDatePlaceholder
	}
	if d, err := normalize.ParseDate(text); err == nil && !d.After(ref) {
		return d, domain.BirthDateParsed
	}
	if age, ok := normalize.ParseAge(text); ok {
		return normalize.BirthDateFromAge(age, ref), domain.BirthDateDerived
	}
	return domain.PlaceholderBirthDate, domain.BirthDatePlaceholder
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
