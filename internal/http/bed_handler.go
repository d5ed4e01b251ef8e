package httpapi

import (
	"net/http"

	"github.com/astro-cL99/pediatria-sub001/internal/service"

	"go.uber.org/zap"
)

// BedHandler manual bed operations
type BedHandler struct {
	svc    *service.BedService
	logger *zap.Logger
}

func NewBedHandler(svc *service.BedService, logger *zap.Logger) *BedHandler {
	return &BedHandler{svc: svc, logger: logger}
}

// List GET current occupancy
func (h *BedHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	items, err := h.svc.ListOccupancy(r.Context())
	if err != nil {
		writeError(w, h.logger, "ListOccupancy", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

// Assign POST {"rut","room","bed"}
func (h *BedHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req service.AssignBedRequest
	if err := readBodyJSON(r, maxJSONBody, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	a, err := h.svc.AssignBed(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "AssignBed", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

// Release POST {"rut"}
func (h *BedHandler) Release(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		RUT string `json:"rut"`
	}
	if err := readBodyJSON(r, maxJSONBody, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := h.svc.ReleaseBed(r.Context(), req.RUT); err != nil {
		writeError(w, h.logger, "ReleaseBed", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"released": true}))
}
