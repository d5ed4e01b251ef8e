package labs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestEvaluate_Potassium(t *testing.T) {
	got, err := Evaluate(map[string]float64{"potasio": 6.8}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "E87.5", got[0].Code)
	assert.Equal(t, SeverityCritica, got[0].Severity)
	assert.Equal(t, "potasio", got[0].ParameterName)
	assert.Equal(t, 6.8, got[0].ActualValue)
	assert.Equal(t, "3.5 - 5.5 mEq/L", got[0].ReferenceRange)

	got, err = Evaluate(map[string]float64{"potasio": 4.0}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvaluate_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		code     string
		severity Severity
	}{
		{"potasio", 5.5, "", ""},
		{"potasio", 5.6, "E87.5", SeverityModerada},
		{"potasio", 6.5, "E87.5", SeverityModerada},
		{"potasio", 3.5, "", ""},
		{"potasio", 2.5, "E87.6", SeverityModerada},
		{"potasio", 2.4, "E87.6", SeverityCritica},
		{"glucosa", 40, "E16.2", SeverityCritica},
		{"glucosa", 41, "E16.2", SeverityModerada},
		{"glucosa", 70, "", ""},
		{"glucosa", 401, "R73.9", SeverityCritica},
		{"procalcitonina", 0.5, "", ""},
		{"procalcitonina", 1.9, "R65.1", SeverityModerada},
		{"procalcitonina", 2, "R65.1", SeverityCritica},
		{"calcio", 6.4, "E83.5", SeverityCritica},
		{"sodio", 161, "E87.0", SeverityCritica},
		{"ph", 7.30, "E87.2", SeverityModerada},
		{"ph", 7.62, "E87.3", SeverityCritica},
		{"pco2", 72, "J96.0", SeverityCritica},
		{"bicarbonato", 18, "E87.2", SeverityModerada},
		{"pcr", 150, "R79.8", SeverityCritica},
		{"pcr", 3, "", ""},
		{"lactato", 3, "E87.2", SeverityModerada},
		{"plaquetas", 15, "D69.6", SeverityCritica},
	}
	for _, tt := range tests {
		d := EvaluateOne(tt.name, tt.value, nil)
		if tt.code == "" {
			assert.Nil(t, d, "%s=%v", tt.name, tt.value)
			continue
		}
		require.NotNil(t, d, "%s=%v", tt.name, tt.value)
		assert.Equal(t, tt.code, d.Code, "%s=%v", tt.name, tt.value)
		assert.Equal(t, tt.severity, d.Severity, "%s=%v", tt.name, tt.value)
	}
}

func TestEvaluate_AliasesAndAccents(t *testing.T) {
	got, err := Evaluate(map[string]float64{"K": 7, "Na": 118, "PCR": 20, "Glicemia": 30}, nil)
	require.NoError(t, err)
	require.Len(t, got, 4)

	names := []string{got[0].ParameterName, got[1].ParameterName, got[2].ParameterName, got[3].ParameterName}
	assert.Equal(t, []string{"glucosa", "pcr", "potasio", "sodio"}, names)
}

func TestEvaluate_AgeAdjusted(t *testing.T) {
	// Hb 10 is anemia at 3 years but normal at 3 months
	d := EvaluateOne("hemoglobina", 10, intPtr(36))
	require.NotNil(t, d)
	assert.Equal(t, "D64.9", d.Code)
	assert.Equal(t, SeverityModerada, d.Severity)
	assert.Nil(t, EvaluateOne("hemoglobina", 10, intPtr(3)))

	d = EvaluateOne("hb", 6.5, nil)
	require.NotNil(t, d)
	assert.Equal(t, SeverityCritica, d.Severity)

	// leukocytes 20 is leukocytosis at 5 years, normal in a neonate
	d = EvaluateOne("leucocitos", 20, intPtr(60))
	require.NotNil(t, d)
	assert.Equal(t, "Leucocitosis", d.Description)
	assert.Nil(t, EvaluateOne("leucocitos", 20, intPtr(0)))
	d = EvaluateOne("gb", 3, intPtr(60))
	require.NotNil(t, d)
	assert.Equal(t, "Leucopenia", d.Description)

	// creatinine 0.6: high for an infant, normal for a school-age child
	d = EvaluateOne("creatinina", 0.6, intPtr(6))
	require.NotNil(t, d)
	assert.Equal(t, "N17.9", d.Code)
	assert.Equal(t, SeverityModerada, d.Severity)
	assert.Nil(t, EvaluateOne("creatinina", 0.6, intPtr(100)))
	d = EvaluateOne("creatinina", 1.3, intPtr(6))
	require.NotNil(t, d)
	assert.Equal(t, SeverityCritica, d.Severity)
}

func TestEvaluate_AnemiaSubclass(t *testing.T) {
	cases := []struct {
		values map[string]float64
		code   string
	}{
		{map[string]float64{"hb": 9}, "D64.9"},
		{map[string]float64{"hb": 9, "vcm": 68}, "D50.9"},
		{map[string]float64{"hb": 9, "hcm": 22}, "D50.9"},
		{map[string]float64{"hb": 9, "VCM": 105}, "D53.9"},
		{map[string]float64{"hb": 9, "mcv": 85, "mch": 29}, "D64.9"},
	}
	for _, c := range cases {
		got, err := Evaluate(c.values, intPtr(60))
		require.NoError(t, err)
		require.Len(t, got, 1, "%v", c.values)
		assert.Equal(t, c.code, got[0].Code, "%v", c.values)
	}

	// indices alone never produce a diagnosis
	got, err := Evaluate(map[string]float64{"vcm": 60}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvaluate_InvalidInput(t *testing.T) {
	_, err := Evaluate(map[string]float64{"potasio": math.NaN()}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Evaluate(map[string]float64{"sodio": -1}, nil)
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "sodio", ie.Analyte)

	_, err = Evaluate(map[string]float64{"sodio": 140}, intPtr(-3))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Evaluate(map[string]float64{"hb": 9, "vcm": math.Inf(1)}, nil)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "vcm", ie.Analyte)
}

func TestEvaluate_UnrecognizedValuesAreNotValidated(t *testing.T) {
	values := map[string]float64{"potasio": 6.8, "exceso de base": -6}

	got, err := Evaluate(values, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "E87.5", got[0].Code)
	assert.Equal(t, []string{"exceso de base"}, Unrecognized(values))
}

func TestUnrecognized(t *testing.T) {
	values := map[string]float64{"potasio": 4, "ferritina": 10, "vcm": 80, "TSH": 2}
	assert.Equal(t, []string{"TSH", "ferritina"}, Unrecognized(values))

	got, err := Evaluate(values, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReferenceRange(t *testing.T) {
	assert.Equal(t, "<= 10 mg/L", EvaluateOne("pcr", 20, nil).ReferenceRange)
	assert.Equal(t, ">= 11.5 g/dL", EvaluateOne("hb", 9, intPtr(60)).ReferenceRange)
	assert.Equal(t, "7.35 - 7.45", EvaluateOne("ph", 7.1, nil).ReferenceRange)
}
