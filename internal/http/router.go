package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router stdlib http.ServeMux; handlers check their own method
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler registers an http.Handler (metrics, wrapped handlers)
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterHandoverRoutes import endpoints; limit wraps the import upload
func (r *Router) RegisterHandoverRoutes(h *HandoverHandler, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	r.HandleHandler("/api/v1/handover/import", limit(http.HandlerFunc(h.Import)))
	r.Handle("/api/v1/handover/parse", h.Parse)
	r.Handle("/api/v1/handover/template", h.Template)
	r.Handle("/api/v1/handover/imports", h.ListImports)
	r.Handle("/api/v1/handover/imports/", h.GetImport)
}

func (r *Router) RegisterBedRoutes(h *BedHandler) {
	r.Handle("/api/v1/beds", h.List)
	r.Handle("/api/v1/beds/assign", h.Assign)
	r.Handle("/api/v1/beds/release", h.Release)
}

func (r *Router) RegisterClinicalRoutes(h *ClinicalHandler) {
	r.Handle("/api/v1/clinical/scores/wood-downes", h.WoodDownes)
	r.Handle("/api/v1/clinical/scores/tal", h.Tal)
	r.Handle("/api/v1/clinical/labs/diagnose", h.DiagnoseLabs)
	r.Handle("/api/v1/clinical/tracking/antibiotic", h.Antibiotic)
	r.Handle("/api/v1/clinical/tracking/score-trend", h.ScoreTrend)
}

// RegisterOpsRoutes /health and /metrics
func (r *Router) RegisterOpsRoutes(metricsHandler http.Handler) {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
	if metricsHandler != nil {
		r.HandleHandler("/metrics", metricsHandler)
	}
}
