package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
	"github.com/astro-cL99/pediatria-sub001/internal/labs"
	"github.com/astro-cL99/pediatria-sub001/internal/metrics"
	"github.com/astro-cL99/pediatria-sub001/internal/normalize"
	"github.com/astro-cL99/pediatria-sub001/internal/scoring"
	"github.com/astro-cL99/pediatria-sub001/internal/tracking"

	"go.uber.org/zap"
)

// ClinicalService rule engine front: age resolution, metrics and logging around the pure engines
type ClinicalService struct {
	engine *scoring.Engine
	logger *zap.Logger
	now    func() time.Time
}

func NewClinicalService(engine *scoring.Engine, logger *zap.Logger) *ClinicalService {
	return &ClinicalService{engine: engine, logger: logger, now: time.Now}
}

// RuleSet active scoring rule set version
func (s *ClinicalService) RuleSet() string { return s.engine.RuleSet() }

// WoodDownesRequest score parameters; BirthDate, when set, replaces age_months. One of them is required.
type WoodDownesRequest struct {
	scoring.WoodDownesParams
	BirthDate string `json:"birth_date,omitempty"`
}

// TalRequest score parameters; BirthDate, when set, replaces age_months. One of them is required.
type TalRequest struct {
	scoring.TalParams
	BirthDate string `json:"birth_date,omitempty"`
}

// LabsRequest analyte name -> value, plus optional age for the age-banded analytes
type LabsRequest struct {
	Values    map[string]float64 `json:"values"`
	AgeMonths *int               `json:"age_months,omitempty"`
	BirthDate string             `json:"birth_date,omitempty"`
}

// LabsResponse auto-diagnoses and the names no analyte matched
type LabsResponse struct {
	Diagnoses    []labs.AutoDiagnosis `json:"diagnoses"`
	Unrecognized []string             `json:"unrecognized"`
}

func (s *ClinicalService) ScoreWoodDownes(req WoodDownesRequest) (*scoring.ScoreResult, error) {
	p := req.WoodDownesParams
	if req.BirthDate != "" {
		age, err := s.ageFromBirthDate(scoring.ScaleWoodDownes, req.BirthDate)
		if err != nil {
			metrics.RecordEvaluation(scoring.ScaleWoodDownes, metrics.ResultError)
			return nil, err
		}
		p.AgeMonths = &age
	}
	res, err := s.engine.WoodDownes(p)
	s.record(scoring.ScaleWoodDownes, res, err)
	return res, err
}

func (s *ClinicalService) ScoreTal(req TalRequest) (*scoring.ScoreResult, error) {
	p := req.TalParams
	if req.BirthDate != "" {
		age, err := s.ageFromBirthDate(scoring.ScaleModifiedTal, req.BirthDate)
		if err != nil {
			metrics.RecordEvaluation(scoring.ScaleModifiedTal, metrics.ResultError)
			return nil, err
		}
		p.AgeMonths = &age
	}
	res, err := s.engine.ModifiedTal(p)
	s.record(scoring.ScaleModifiedTal, res, err)
	return res, err
}

func (s *ClinicalService) DiagnoseLabs(req LabsRequest) (*LabsResponse, error) {
	if len(req.Values) == 0 {
		return nil, fmt.Errorf("%w: values are required", ErrInvalidRequest)
	}
	age := req.AgeMonths
	if req.BirthDate != "" {
		months, err := s.ageFromBirthDate("labs", req.BirthDate)
		if err != nil {
			metrics.RecordEvaluation("labs", metrics.ResultError)
			return nil, err
		}
		age = &months
	}

	diagnoses, err := labs.Evaluate(req.Values, age)
	if err != nil {
		metrics.RecordEvaluation("labs", metrics.ResultError)
		return nil, err
	}
	result := metrics.ResultOK
	if len(diagnoses) > 0 {
		result = metrics.ResultFinding
	}
	metrics.RecordEvaluation("labs", result)

	unrecognized := labs.Unrecognized(req.Values)
	if len(unrecognized) > 0 {
		s.logger.Debug("Unrecognized analytes", zap.Strings("names", unrecognized))
	}
	return &LabsResponse{Diagnoses: diagnoses, Unrecognized: unrecognized}, nil
}

// AntibioticStatus progress of a course as of now
func (s *ClinicalService) AntibioticStatus(ab domain.AntibioticTracking) tracking.AntibioticStatus {
	metrics.RecordEvaluation("antibiotic", metrics.ResultOK)
	return tracking.EvaluateAntibiotic(ab, s.now())
}

func (s *ClinicalService) ScoreTrend(st domain.RespiratoryScoreTracking) tracking.ScoreTrendResult {
	metrics.RecordEvaluation("score_trend", metrics.ResultOK)
	return tracking.ScoreTrend(st)
}

// ageFromBirthDate refuses the placeholder birth date with a *scoring.DomainError wrapping domain.ErrUnknownAge
func (s *ClinicalService) ageFromBirthDate(engine, text string) (int, error) {
	d, err := normalize.ParseDate(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: birth_date: %v", ErrInvalidRequest, err)
	}
	months, err := domain.AgeInMonths(d, s.now())
	if err != nil {
		return 0, &scoring.DomainError{Scale: engine, Field: "birth_date", Err: err, Msg: err.Error()}
	}
	return months, nil
}

func (s *ClinicalService) record(engine string, res *scoring.ScoreResult, err error) {
	if err != nil {
		metrics.RecordEvaluation(engine, metrics.ResultError)
		return
	}
	result := metrics.ResultOK
	if res.Severity != scoring.SeverityLeve {
		result = metrics.ResultFinding
	}
	metrics.RecordEvaluation(engine, result)
}
