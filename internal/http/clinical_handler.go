package httpapi

import (
	"net/http"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
	"github.com/astro-cL99/pediatria-sub001/internal/service"

	"go.uber.org/zap"
)

// ClinicalHandler rule engine endpoints
type ClinicalHandler struct {
	svc    *service.ClinicalService
	logger *zap.Logger
}

func NewClinicalHandler(svc *service.ClinicalService, logger *zap.Logger) *ClinicalHandler {
	return &ClinicalHandler{svc: svc, logger: logger}
}

// decode reads a POST JSON body; false when the response is already written
func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return false
	}
	if err := readBodyJSON(r, maxJSONBody, out); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return false
	}
	return true
}

func (h *ClinicalHandler) WoodDownes(w http.ResponseWriter, r *http.Request) {
	var req service.WoodDownesRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.ScoreWoodDownes(req)
	if err != nil {
		writeError(w, h.logger, "ScoreWoodDownes", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

func (h *ClinicalHandler) Tal(w http.ResponseWriter, r *http.Request) {
	var req service.TalRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.ScoreTal(req)
	if err != nil {
		writeError(w, h.logger, "ScoreTal", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

func (h *ClinicalHandler) DiagnoseLabs(w http.ResponseWriter, r *http.Request) {
	var req service.LabsRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.DiagnoseLabs(req)
	if err != nil {
		writeError(w, h.logger, "DiagnoseLabs", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

func (h *ClinicalHandler) Antibiotic(w http.ResponseWriter, r *http.Request) {
	var req domain.AntibioticTracking
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.AntibioticStatus(req)))
}

func (h *ClinicalHandler) ScoreTrend(w http.ResponseWriter, r *http.Request) {
	var req domain.RespiratoryScoreTracking
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.ScoreTrend(req)))
}
