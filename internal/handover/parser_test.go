package handover

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
)

var testRef = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func sheet(rows ...[]string) [][]string {
	return rows
}

func TestParse_ExampleRecord(t *testing.T) {
	rows := sheet(
		[]string{"ENTREGA DE TURNO PEDIATRÍA"},
		[]string{},
		[]string{"Cama", "Nombre", "Edad", "RUT", "Diagnósticos", "Fecha ingreso", "Requerimiento O2"},
		[]string{"501-2", "Ana Pérez", "6 meses", "11.111.111-1", "Bronquiolitis", "01-03-2024", "CN 2L"},
	)

	res, err := Parse(rows, ParseOptions{Reference: testRef})
	require.NoError(t, err)
	assert.Equal(t, 3, res.HeaderRow)
	assert.Equal(t, 1, res.TotalDataRows)
	require.Len(t, res.Records, 1)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, res.Warnings)

	rec := res.Records[0]
	assert.Equal(t, 4, rec.Row)
	assert.Equal(t, "501", rec.Room)
	assert.Equal(t, 2, rec.Bed)
	assert.Equal(t, "Ana Pérez", rec.Name)
	assert.Equal(t, "11.111.111-1", rec.RUT)
	assert.Equal(t, []string{"Bronquiolitis"}, rec.Diagnoses)
	assert.Equal(t, "2024-03-01", rec.AdmissionDate.Format("2006-01-02"))
	assert.Equal(t, domain.BirthDateDerived, rec.BirthDateSource)
	assert.Equal(t, "2023-09-10", rec.BirthDate.Format("2006-01-02"))
	require.NotNil(t, rec.Oxygen)
	assert.Equal(t, "CN", rec.Oxygen.Type)
	require.NotNil(t, rec.Oxygen.Flow)
	assert.Equal(t, 2.0, *rec.Oxygen.Flow)
}

func TestParse_NoHeader(t *testing.T) {
	rows := sheet(
		[]string{"Nombre", "RUT"},
		[]string{"Ana", "1-9"},
	)
	_, err := Parse(rows, ParseOptions{Reference: testRef})
	var spe *StructuralParseError
	require.True(t, errors.As(err, &spe))
}

func TestParse_HeaderBeyondScanBound(t *testing.T) {
	rows := make([][]string, 0, 6)
	for i := 0; i < 5; i++ {
		rows = append(rows, []string{"nota"})
	}
	rows = append(rows, []string{"Cama", "Nombre", "RUT"})

	_, err := Parse(rows, ParseOptions{HeaderScanRows: 5, Reference: testRef})
	var spe *StructuralParseError
	assert.ErrorAs(t, err, &spe)

	res, err := Parse(rows, ParseOptions{HeaderScanRows: 6, Reference: testRef})
	require.NoError(t, err)
	assert.Equal(t, 6, res.HeaderRow)
}

func TestParse_RowAccounting(t *testing.T) {
	rows := sheet(
		[]string{"Cama", "Nombre", "Edad", "RUT", "Diagnóstico de ingreso", "Oxígeno"},
		[]string{"501-1", "Ana", "2 años", "1-9", "SBO", "AA"},
		[]string{"", "Sin cama", "", "2-7"},
		[]string{"502", "", "", "3-5"},
		[]string{"503-1", "Luis", "", ""},
		[]string{"   ", ""},
		[]string{"xx-yy", "Pedro", "", "4-3"},
		[]string{"504-3", "Marta", "", "5-1", "", "mascarilla"},
		[]string{},
		[]string{" ", ""},
	)

	res, err := Parse(rows, ParseOptions{Reference: testRef})
	require.NoError(t, err)

	assert.Equal(t, 7, res.TotalDataRows, "interior blank row counted, trailing ones dropped")
	assert.Equal(t, res.TotalDataRows, len(res.Records)+len(res.Skipped))

	require.Len(t, res.Records, 2)
	assert.Equal(t, "501", res.Records[0].Room)
	assert.Equal(t, 1, res.Records[0].Bed)
	assert.Equal(t, "504", res.Records[1].Room)
	assert.Equal(t, 3, res.Records[1].Bed)
	assert.Nil(t, res.Records[1].Oxygen)

	reasons := map[int]string{}
	for _, s := range res.Skipped {
		reasons[s.Row] = s.Reason
	}
	assert.Equal(t, "missing bed", reasons[3])
	assert.Equal(t, "missing name", reasons[4])
	assert.Equal(t, "missing rut", reasons[5])
	assert.Equal(t, "blank row", reasons[6])
	assert.Contains(t, reasons[7], "invalid bed")

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, Warning{Row: 8, Field: "oxygen", Reason: `unrecognized oxygen requirement "mascarilla"`}, res.Warnings[0])
}

func TestParse_BirthDateSources(t *testing.T) {
	rows := sheet(
		[]string{"Cama", "Nombre", "Edad", "RUT"},
		[]string{"1", "A", "15/06/2022", "1-9"},
		[]string{"2", "B", "3 meses", "2-7"},
		[]string{"3", "C", "", "3-5"},
		[]string{"4", "D", "lactante", "4-3"},
	)
	res, err := Parse(rows, ParseOptions{Reference: testRef})
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	assert.Equal(t, domain.BirthDateParsed, res.Records[0].BirthDateSource)
	assert.Equal(t, "2022-06-15", res.Records[0].BirthDate.Format("2006-01-02"))
	assert.Equal(t, domain.BirthDateDerived, res.Records[1].BirthDateSource)
	assert.Equal(t, domain.BirthDatePlaceholder, res.Records[2].BirthDateSource)
	assert.True(t, domain.PlaceholderBirthDate.Equal(res.Records[2].BirthDate))
	assert.Equal(t, domain.BirthDatePlaceholder, res.Records[3].BirthDateSource)

	// only the non-empty unrecognized age warns
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "age", res.Warnings[0].Field)
}

func TestParse_ClinicalColumns(t *testing.T) {
	rows := sheet(
		[]string{"Pendientes", "Plan", "Antibióticos", "TAL", "Panel viral", "RUT", "Nombre paciente", "Cama", "Fecha hospitalización"},
		[]string{"Control Rx", "KNT", "Ampicilina D2/7", "TAL 6", "VRS (+)", " 11.111.111-k ", "Ana", "CAMA 12-1", "05/03/2024"},
	)
	res, err := Parse(rows, ParseOptions{Reference: testRef})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	rec := res.Records[0]

	assert.Equal(t, "12", rec.Room)
	assert.Equal(t, "11.111.111-K", rec.RUT)
	assert.Equal(t, "VRS (+)", rec.ViralPanel)
	assert.Equal(t, "Control Rx", rec.PendingTasks)
	assert.Equal(t, "Ampicilina D2/7\nKNT", rec.Plan)
	assert.Equal(t, "TAL 6", rec.RespiratoryScore)
	require.NotNil(t, rec.ScoreReading)
	assert.Equal(t, domain.ScoreReading{Scale: "TAL", Value: 6}, *rec.ScoreReading)
	require.Len(t, rec.Antibiotics, 1)
	assert.Equal(t, "Ampicilina", rec.Antibiotics[0].Name)
	assert.Equal(t, "2024-03-05", rec.AdmissionDate.Format("2006-01-02"))
	assert.Equal(t, []string{}, rec.Diagnoses)
}

func TestParse_BadAdmissionDateWarns(t *testing.T) {
	rows := sheet(
		[]string{"Cama", "Nombre", "RUT", "Ingreso"},
		[]string{"1", "A", "1-9", "ayer"},
	)
	res, err := Parse(rows, ParseOptions{Reference: testRef})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "2024-03-10", res.Records[0].AdmissionDate.Format("2006-01-02"))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "admission_date", res.Warnings[0].Field)
}

func TestParseBed(t *testing.T) {
	tests := []struct {
		in   string
		want domain.BedSlot
		err  bool
	}{
		{"501-2", domain.BedSlot{Room: "501", Bed: 2}, false},
		{"501", domain.BedSlot{Room: "501", Bed: 1}, false},
		{" 12 / 3 ", domain.BedSlot{Room: "12", Bed: 3}, false},
		{"Cama 7", domain.BedSlot{Room: "7", Bed: 1}, false},
		{"501-0", domain.BedSlot{}, true},
		{"pasillo", domain.BedSlot{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBed(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestReadWorkbook_RoundTripTemplate(t *testing.T) {
	data, err := GenerateTemplate()
	require.NoError(t, err)

	rows, err := ReadWorkbook(bytes.NewReader(data), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, TemplateHeader, rows[0])

	res, err := Parse(rows, ParseOptions{Reference: testRef})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "501", rec.Room)
	assert.Equal(t, 2, rec.Bed)
	assert.Equal(t, []string{"Bronquiolitis", "SBO"}, rec.Diagnoses)
	assert.Equal(t, "2024-03-01", rec.AdmissionDate.Format("2006-01-02"))
	assert.Equal(t, "CN", rec.Oxygen.Type)
	assert.Empty(t, res.Warnings)
}

func TestReadWorkbook_Errors(t *testing.T) {
	_, err := ReadWorkbook(bytes.NewReader([]byte("not a workbook")), "")
	var spe *StructuralParseError
	assert.ErrorAs(t, err, &spe)

	data, err := GenerateTemplate()
	require.NoError(t, err)
	_, err = ReadWorkbook(bytes.NewReader(data), "Missing")
	assert.ErrorAs(t, err, &spe)
}
