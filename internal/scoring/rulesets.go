package scoring

// ==================== sochipe ====================

var (
	woodDownesRecs = map[Severity][]string{
		SeverityLeve: {
			"Manejo ambulatorio u hospitalización en sala según contexto",
			"Aseo nasal y fraccionamiento de la alimentación",
			"Reevaluar score cada 4-6 horas",
		},
		SeverityModerado: {
			"Hospitalizar en sala",
			"Oxígeno para saturación >= 93%",
			"Considerar broncodilatador de prueba",
			"Reevaluar score cada 2 horas",
		},
		SeverityGrave: {
			"Evaluar ingreso a intermedio",
			"Oxígeno por alto flujo o CPAP",
			"Gases en sangre",
			"Monitorización continua",
		},
		SeverityCritico: {
			"Traslado a UCI pediátrica",
			"Soporte ventilatorio",
			"Evaluación inmediata por residente",
		},
	}

	talRecs = map[Severity][]string{
		SeverityLeve: {
			"Manejo ambulatorio",
			"Salbutamol 2 puff cada 4-6 horas",
			"Control en 24-48 horas",
		},
		SeverityModerado: {
			"Salbutamol 2-4 puff cada 20 minutos por 1 hora y reevaluar",
			"Considerar corticoide sistémico",
			"Oxígeno si saturación < 93%",
		},
		SeverityGrave: {
			"Hospitalizar",
			"Oxígeno y nebulización continua",
			"Corticoide sistémico",
			"Reevaluar cada hora",
		},
		SeverityCritico: {
			"Traslado a UCI pediátrica",
			"Evaluar soporte ventilatorio",
		},
	}
)

func tiers(cuts [4]int, interp [4]string, recs map[Severity][]string) []Tier {
	sev := [4]Severity{SeverityLeve, SeverityModerado, SeverityGrave, SeverityCritico}
	out := make([]Tier, 4)
	for i := range out {
		out[i] = Tier{MaxScore: cuts[i], Severity: sev[i], Interpretation: interp[i], Recommendations: recs[sev[i]]}
	}
	return out
}

var obstructionInterp = [4]string{
	"Obstrucción bronquial leve",
	"Obstrucción bronquial moderada",
	"Obstrucción bronquial grave",
	"Obstrucción bronquial crítica, riesgo de falla respiratoria",
}

func woodDownesTable(cuts [4]int) WoodDownesTable {
	return WoodDownesTable{
		AgeCeilingMonths: 36,
		RespiratoryRate: []Band{
			{Max: 30, Points: 0},
			{Max: 45, Points: 1},
			{Max: 60, Points: 2},
			{Max: unbounded, Points: 3},
		},
		Wheeze: map[string]int{
			"ausentes":               0,
			"fin_espiracion":         1,
			"toda_espiracion":        2,
			"inspiracion_espiracion": 3,
			"torax_silente":          3,
		},
		AccessoryMuscles: map[string]int{
			"ausente":                0,
			"subcostal":              1,
			"intercostal":            2,
			"supraclavicular_aleteo": 3,
		},
		Cyanosis: map[string]int{
			"ausente":      0,
			"llanto":       1,
			"reposo":       2,
			"generalizada": 3,
		},
		Consciousness: map[string]int{
			"normal":     0,
			"irritable":  1,
			"letargico":  2,
			"obnubilado": 3,
		},
		Tiers: tiers(cuts, obstructionInterp, woodDownesRecs),
	}
}

func talTable(cuts [4]int) TalTable {
	return TalTable{
		RespiratoryRate: []AgeBands{
			{MaxAgeMonths: 6, Bands: []Band{{40, 0}, {55, 1}, {70, 2}, {unbounded, 3}}},
			{MaxAgeMonths: 12, Bands: []Band{{35, 0}, {50, 1}, {65, 2}, {unbounded, 3}}},
			{MaxAgeMonths: unbounded, Bands: []Band{{30, 0}, {45, 1}, {60, 2}, {unbounded, 3}}},
		},
		HeartRate: []AgeBands{
			{MaxAgeMonths: 6, Bands: []Band{{150, 0}, {180, 1}, {unbounded, 2}}},
			{MaxAgeMonths: 12, Bands: []Band{{140, 0}, {170, 1}, {unbounded, 2}}},
			{MaxAgeMonths: unbounded, Bands: []Band{{120, 0}, {150, 1}, {unbounded, 2}}},
		},
		Cyanosis: map[string]int{
			"no":     0,
			"llanto": 1,
			"reposo": 2,
		},
		Retraction: map[string]int{
			"no":              0,
			"subcostal":       1,
			"intercostal":     2,
			"supraclavicular": 3,
		},
		Wheeze: map[string]int{
			"no":                     0,
			"fin_espiracion":         1,
			"inspiracion_espiracion": 2,
			"audibles_sin_fonendo":   3,
		},
		Tiers: tiers(cuts, obstructionInterp, talRecs),
	}
}

// sochipeRuleSet canonical tables
func sochipeRuleSet() *RuleSet {
	return &RuleSet{
		Version:    "sochipe",
		WoodDownes: woodDownesTable([4]int{3, 7, 11, 15}),
		Tal:        talTable([4]int{4, 8, 11, 13}),
	}
}

// ==================== legacy ====================

// legacyRuleSet same items, older tier cut-offs
func legacyRuleSet() *RuleSet {
	return &RuleSet{
		Version:    "legacy",
		WoodDownes: woodDownesTable([4]int{3, 8, 12, 15}),
		Tal:        talTable([4]int{5, 8, 10, 13}),
	}
}
