package labs

// Analyte table entry. Thresholds may depend on age in months (nil = unknown).
type Analyte struct {
	Name       string
	Aliases    []string
	Unit       string
	Category   string
	Low        Finding
	High       Finding
	Thresholds func(ageMonths *int) Thresholds
}

func fixed(t Thresholds) func(*int) Thresholds {
	return func(*int) Thresholds { return t }
}

// ==================== age bands ====================

// hemoglobinLow lower limit (g/dL) by age
func hemoglobinLow(age *int) float64 {
	switch {
	case age == nil:
		return 12.0
	case *age < 1:
		return 13.5
	case *age < 6:
		return 9.5
	case *age < 24:
		return 10.5
	case *age < 144:
		return 11.5
	default:
		return 12.0
	}
}

// leukocyteRange normal range (x10³/µL) by age
func leukocyteRange(age *int) (float64, float64) {
	switch {
	case age == nil:
		return 4.5, 11
	case *age < 1:
		return 9, 30
	case *age < 24:
		return 6, 17.5
	case *age < 144:
		return 5, 14.5
	default:
		return 4.5, 11
	}
}

// creatinineUpper upper limit (mg/dL) by age
func creatinineUpper(age *int) float64 {
	switch {
	case age == nil:
		return 1.2
	case *age < 12:
		return 0.4
	case *age < 144:
		return 0.7
	default:
		return 1.2
	}
}

// ==================== table ====================

// analytes canonical table. Comparisons are strict unless built with incl().
var analytes = []Analyte{
	{
		Name: "potasio", Aliases: []string{"k", "kalemia", "potassium"}, Unit: "mEq/L", Category: CategoryElectrolitos,
		Low:        Finding{"E87.6", "Hipokalemia"},
		High:       Finding{"E87.5", "Hiperkalemia"},
		Thresholds: fixed(Thresholds{CritLow: lim(2.5), AlertLow: lim(3.5), AlertHigh: lim(5.5), CritHigh: lim(6.5)}),
	},
	{
		Name: "sodio", Aliases: []string{"na", "natremia", "sodium"}, Unit: "mEq/L", Category: CategoryElectrolitos,
		Low:        Finding{"E87.1", "Hiponatremia"},
		High:       Finding{"E87.0", "Hipernatremia"},
		Thresholds: fixed(Thresholds{CritLow: lim(120), AlertLow: lim(135), AlertHigh: lim(145), CritHigh: lim(160)}),
	},
	{
		Name: "calcio", Aliases: []string{"ca", "calcemia", "calcium"}, Unit: "mg/dL", Category: CategoryElectrolitos,
		Low:        Finding{"E83.5", "Hipocalcemia"},
		High:       Finding{"E83.5", "Hipercalcemia"},
		Thresholds: fixed(Thresholds{CritLow: lim(6.5), AlertLow: lim(8.5), AlertHigh: lim(10.5), CritHigh: lim(13.0)}),
	},
	{
		// critical hypoglycemia is inclusive: 40 mg/dL is already critical
		Name: "glucosa", Aliases: []string{"glicemia", "glucose", "glu"}, Unit: "mg/dL", Category: CategoryMetabolico,
		Low:        Finding{"E16.2", "Hipoglicemia"},
		High:       Finding{"R73.9", "Hiperglicemia"},
		Thresholds: fixed(Thresholds{CritLow: incl(40), AlertLow: lim(70), AlertHigh: lim(180), CritHigh: lim(400)}),
	},
	{
		Name: "plaquetas", Aliases: []string{"plt", "plaq", "platelets"}, Unit: "x10³/µL", Category: CategoryHematologico,
		Low:        Finding{"D69.6", "Trombocitopenia"},
		High:       Finding{"D75.8", "Trombocitosis"},
		Thresholds: fixed(Thresholds{CritLow: lim(20), AlertLow: lim(150), AlertHigh: lim(450), CritHigh: lim(1000)}),
	},
	{
		Name: "pcr", Aliases: []string{"proteina c reactiva", "crp"}, Unit: "mg/L", Category: CategoryInflamatorio,
		High:       Finding{"R79.8", "Proteína C reactiva elevada"},
		Thresholds: fixed(Thresholds{AlertHigh: lim(10), CritHigh: lim(100)}),
	},
	{
		// procalcitonin >= 2 is critical (inclusive)
		Name: "procalcitonina", Aliases: []string{"pct", "procalcitonin"}, Unit: "ng/mL", Category: CategoryInflamatorio,
		High:       Finding{"R65.1", "Procalcitonina elevada, sugiere infección bacteriana"},
		Thresholds: fixed(Thresholds{AlertHigh: lim(0.5), CritHigh: incl(2)}),
	},
	{
		Name: "lactato", Aliases: []string{"lactate", "lac", "acido lactico"}, Unit: "mmol/L", Category: CategoryMetabolico,
		High:       Finding{"E87.2", "Hiperlactatemia"},
		Thresholds: fixed(Thresholds{AlertHigh: lim(2), CritHigh: lim(4)}),
	},
	{
		Name: "ph", Category: CategoryGases,
		Low:        Finding{"E87.2", "Acidemia"},
		High:       Finding{"E87.3", "Alcalemia"},
		Thresholds: fixed(Thresholds{CritLow: lim(7.20), AlertLow: lim(7.35), AlertHigh: lim(7.45), CritHigh: lim(7.60)}),
	},
	{
		Name: "pco2", Aliases: []string{"paco2", "pvco2"}, Unit: "mmHg", Category: CategoryGases,
		Low:        Finding{"E87.3", "Hipocapnia"},
		High:       Finding{"J96.0", "Hipercapnia"},
		Thresholds: fixed(Thresholds{CritLow: lim(25), AlertLow: lim(35), AlertHigh: lim(45), CritHigh: lim(70)}),
	},
	{
		Name: "bicarbonato", Aliases: []string{"hco3", "bic", "bicarbonate"}, Unit: "mEq/L", Category: CategoryGases,
		Low:        Finding{"E87.2", "Acidosis metabólica"},
		High:       Finding{"E87.3", "Alcalosis metabólica"},
		Thresholds: fixed(Thresholds{CritLow: lim(10), AlertLow: lim(22), AlertHigh: lim(26), CritHigh: lim(40)}),
	},
	{
		Name: "hemoglobina", Aliases: []string{"hb", "hgb", "hemoglobin"}, Unit: "g/dL", Category: CategoryHematologico,
		Low: Finding{"D64.9", "Anemia"},
		Thresholds: func(age *int) Thresholds {
			return Thresholds{CritLow: lim(7), AlertLow: lim(hemoglobinLow(age))}
		},
	},
	{
		Name: "leucocitos", Aliases: []string{"gb", "wbc", "leucos", "globulos blancos", "leukocytes"}, Unit: "x10³/µL", Category: CategoryHematologico,
		Low:  Finding{"D72.8", "Leucopenia"},
		High: Finding{"D72.8", "Leucocitosis"},
		Thresholds: func(age *int) Thresholds {
			lo, hi := leukocyteRange(age)
			return Thresholds{AlertLow: lim(lo), AlertHigh: lim(hi)}
		},
	},
	{
		Name: "creatinina", Aliases: []string{"crea", "creat", "creatinine"}, Unit: "mg/dL", Category: CategoryRenal,
		High: Finding{"N17.9", "Creatinina elevada para la edad"},
		Thresholds: func(age *int) Thresholds {
			up := creatinineUpper(age)
			return Thresholds{AlertHigh: lim(up), CritHigh: lim(3 * up)}
		},
	},
}

// auxiliary analytes: accepted as input, used only to sub-classify anemia
const (
	auxVCM = "vcm"
	auxHCM = "hcm"
)

var auxAliases = map[string]string{
	"vcm": auxVCM, "mcv": auxVCM, "volumen corpuscular medio": auxVCM,
	"hcm": auxHCM, "mch": auxHCM, "hemoglobina corpuscular media": auxHCM,
}
