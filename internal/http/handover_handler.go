package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/astro-cL99/pediatria-sub001/internal/handover"
	"github.com/astro-cL99/pediatria-sub001/internal/service"

	"go.uber.org/zap"
)

// HandoverHandler bed handover sheet import
type HandoverHandler struct {
	svc       *service.HandoverService
	maxUpload int64
	logger    *zap.Logger
}

// NewHandoverHandler maxUploadMB bounds the multipart upload
func NewHandoverHandler(svc *service.HandoverService, maxUploadMB int, logger *zap.Logger) *HandoverHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &HandoverHandler{
		svc:       svc,
		maxUpload: int64(maxUploadMB) << 20,
		logger:    logger,
	}
}

// Import POST multipart "file" (+ optional "sheet") and reconcile it
func (h *HandoverHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	file, name, sheet, ok := h.upload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.svc.ImportWorkbook(r.Context(), file, service.ImportRequest{FileName: name, Sheet: sheet})
	if err != nil {
		writeError(w, h.logger, "ImportWorkbook", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(report))
}

// Parse POST multipart "file": dry run, nothing is written
func (h *HandoverHandler) Parse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	file, _, sheet, ok := h.upload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.svc.Preview(r.Context(), file, sheet)
	if err != nil {
		writeError(w, h.logger, "Preview", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

// Template GET the blank import workbook
func (h *HandoverHandler) Template(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	data, err := handover.GenerateTemplate()
	if err != nil {
		h.logger.Error("GenerateTemplate failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("failed to generate template: %v", err)))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=entrega-de-turno.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListImports GET ids of the cached import reports
func (h *HandoverHandler) ListImports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	ids, err := h.svc.ListReports(r.Context())
	if err != nil {
		writeError(w, h.logger, "ListReports", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": ids, "total": len(ids)}))
}

// GetImport GET /api/v1/handover/imports/{id}
func (h *HandoverHandler) GetImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/handover/imports/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, Fail("import not found"))
		return
	}
	report, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "GetReport", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(report))
}

// upload extracts the "file" part; on failure the response is already written
func (h *HandoverHandler) upload(w http.ResponseWriter, r *http.Request) (multipart.File, string, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, Fail("file too large"))
			return nil, "", "", false
		}
		writeJSON(w, http.StatusBadRequest, Fail("failed to parse form"))
		return nil, "", "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("file not found in request"))
		return nil, "", "", false
	}
	return file, header.Filename, r.FormValue("sheet"), true
}
