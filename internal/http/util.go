package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
	"github.com/astro-cL99/pediatria-sub001/internal/handover"
	"github.com/astro-cL99/pediatria-sub001/internal/labs"
	"github.com/astro-cL99/pediatria-sub001/internal/scoring"
	"github.com/astro-cL99/pediatria-sub001/internal/service"

	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("empty body")
	}
	return json.Unmarshal(body, out)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
}

// statusFor maps service and engine errors to HTTP status codes
func statusFor(err error) int {
	var (
		structural *handover.StructuralParseError
		domainErr  *scoring.DomainError
		inputErr   *labs.InputError
	)
	switch {
	case errors.As(err, &structural), errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &domainErr), errors.As(err, &inputErr), errors.Is(err, domain.ErrUnknownAge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrPatientNotFound), errors.Is(err, service.ErrNotAssigned),
		errors.Is(err, service.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBedOccupied), errors.Is(err, service.ErrNoActiveAdmission):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the Fail envelope; unexpected errors are logged and not echoed
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
		writeJSON(w, status, Fail("internal error"))
		return
	}
	writeJSON(w, status, Fail(err.Error()))
}
