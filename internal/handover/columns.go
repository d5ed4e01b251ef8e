package handover

import (
	"strings"

	"github.com/astro-cL99/pediatria-sub001/internal/normalize"
)

// column recognized handover sheet column
type column int

const (
	colBed column = iota
	colDiagnosis
	colAdmission
	colAge
	colRUT
	colName
	colViralPanel
	colOxygen
	colScore
	colAntibiotics
	colPending
	colPlan
	numColumns
)

var columnNames = [numColumns]string{
	"bed", "diagnosis", "admission_date", "age", "rut", "name",
	"viral_panel", "oxygen", "score", "antibiotics", "pending", "plan",
}

func (c column) String() string { return columnNames[c] }

// headerToken substring (or whole word) that identifies a column in a folded header cell
type headerToken struct {
	col  column
	text string
	word bool
}

// headerTokens checked in order, first hit wins for a header cell.
// Diagnosis precedes admission so "Diagnóstico de ingreso" is not read as a date column,
// and admission precedes score so "hospitalización" is not read as "tal".
var headerTokens = []headerToken{
	{col: colBed, text: "cama"},
	{col: colDiagnosis, text: "diagn"},
	{col: colDiagnosis, text: "dg", word: true},
	{col: colAdmission, text: "ingreso"},
	{col: colAdmission, text: "hospitaliz"},
	{col: colAge, text: "edad"},
	{col: colAge, text: "nacim"},
	{col: colRUT, text: "rut", word: true},
	{col: colName, text: "nombre"},
	{col: colName, text: "paciente"},
	{col: colViralPanel, text: "panel"},
	{col: colViralPanel, text: "viral"},
	{col: colOxygen, text: "oxigen"},
	{col: colOxygen, text: "o2", word: true},
	{col: colOxygen, text: "requerimiento"},
	{col: colScore, text: "score"},
	{col: colScore, text: "puntaje"},
	{col: colScore, text: "tal", word: true},
	{col: colScore, text: "wood"},
	{col: colAntibiotics, text: "antibi"},
	{col: colAntibiotics, text: "atb", word: true},
	{col: colPending, text: "pendiente"},
	{col: colPlan, text: "plan"},
	{col: colPlan, text: "indicac"},
}

// bedMarker identifies the header row
const bedMarker = "cama"

// columnMap column -> cell index, -1 when the column is absent
type columnMap [numColumns]int

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if strings.Contains(normalize.FoldText(cell), bedMarker) {
			return true
		}
	}
	return false
}

func buildColumnMap(header []string) columnMap {
	var m columnMap
	for i := range m {
		m[i] = -1
	}
	for idx, cell := range header {
		folded := normalize.FoldText(cell)
		if folded == "" {
			continue
		}
		if col, ok := matchHeader(folded); ok && m[col] == -1 {
			m[col] = idx
		}
	}
	return m
}

func matchHeader(folded string) (column, bool) {
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, tok := range headerTokens {
		if tok.word {
			for _, w := range words {
				if w == tok.text {
					return tok.col, true
				}
			}
			continue
		}
		if strings.Contains(folded, tok.text) {
			return tok.col, true
		}
	}
	return 0, false
}

// cell returns the trimmed cell of col, "" when the column is absent or the row is short
func (m columnMap) cell(row []string, col column) string {
	idx := m[col]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
