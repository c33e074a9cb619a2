package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/depintrust/depintrust/internal/database"
	"github.com/depintrust/depintrust/internal/scoring"
)

// Request bodies larger than this are rejected outright.
const maxBodyBytes = 1 << 20

// API handles HTTP API requests
type API struct {
	db       *database.DB
	pipeline *scoring.Pipeline
}

// New creates a new API handler. db may be nil, in which case the stateless
// /score endpoint still works and the assessment endpoints report
// unavailability.
func New(db *database.DB, pipeline *scoring.Pipeline) *API {
	return &API{db: db, pipeline: pipeline}
}

// Router creates the API router
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Post("/score", a.scoreScan)
	r.Post("/assessments", a.createAssessment)
	r.Get("/assessments", a.listAssessments)
	r.Get("/assessments/{id}", a.getAssessment)
	r.Get("/stats", a.getStats)
	r.Get("/healthz", a.health)

	return r
}

// Response wraps API responses
type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Meta  *Meta       `json:"meta,omitempty"`
	Error *ErrorMsg   `json:"error,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// ErrorMsg represents an error response
type ErrorMsg struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// scoreScan handles POST /score: stateless scoring of the submitted scan
// result. Nothing is persisted.
func (a *API) scoreScan(w http.ResponseWriter, r *http.Request) {
	result, ok := a.scoreRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, Response{Data: result})
}

// createAssessment handles POST /assessments: score the submitted scan
// result and persist the outcome as an assessment record.
func (a *API) createAssessment(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "Assessment storage is not configured")
		return
	}

	result, ok := a.scoreRequest(w, r)
	if !ok {
		return
	}

	flags, err := json.Marshal(result.Flags)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "encoding_error", err.Error())
		return
	}

	assessment := &database.Assessment{
		Score:         result.Score,
		SecurityGrade: string(result.SecurityMetrics.SecurityGrade),
		RiskLevel:     string(result.RiskLevel),
		Flags:         flags,
	}
	if result.IP != "" {
		ip := result.IP
		assessment.IP = &ip
	}
	if result.MLAnalysis != nil {
		ml, err := json.Marshal(result.MLAnalysis)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "encoding_error", err.Error())
			return
		}
		assessment.MLAnalysis = ml
	}

	if err := a.db.InsertAssessment(r.Context(), assessment); err != nil {
		respondError(w, http.StatusInternalServerError, "database_error", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, Response{Data: map[string]interface{}{
		"assessment": assessment,
		"result":     result,
	}})
}

// scoreRequest reads the request body and runs it through the pipeline,
// writing the error response itself when scoring fails.
func (a *API) scoreRequest(w http.ResponseWriter, r *http.Request) (*scoring.Result, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "read_error", "Failed to read request body")
		return nil, false
	}

	result, err := a.pipeline.ScoreJSON(body, parseMode(r))
	if err != nil {
		var vErr *scoring.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, "invalid_input", vErr.Error())
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, "scoring_error", err.Error())
		return nil, false
	}

	return result, true
}

// getAssessment handles GET /assessments/{id}
func (a *API) getAssessment(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "Assessment storage is not configured")
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Invalid assessment ID")
		return
	}

	assessment, err := a.db.GetAssessment(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "Assessment not found")
		return
	}

	respondJSON(w, http.StatusOK, Response{Data: assessment})
}

// listAssessments handles GET /assessments
func (a *API) listAssessments(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "Assessment storage is not configured")
		return
	}

	page, perPage := parsePagination(r)

	assessments, total, err := a.db.ListAssessments(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Data: assessments,
		Meta: &Meta{
			Total:   total,
			Page:    page,
			PerPage: perPage,
		},
	})
}

// getStats handles GET /stats
func (a *API) getStats(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "Assessment storage is not configured")
		return
	}

	stats, err := a.db.GetStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, Response{Data: stats})
}

// health handles GET /healthz
func (a *API) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if a.db != nil {
		if err := a.db.Health(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "database_unhealthy", err.Error())
			return
		}
		status["database"] = "ok"
	}
	respondJSON(w, http.StatusOK, Response{Data: status})
}

// parseMode selects the pipeline mode from the mode query parameter.
// Anything other than "enhanced" means base scoring.
func parseMode(r *http.Request) scoring.Mode {
	if r.URL.Query().Get("mode") == "enhanced" {
		return scoring.ModeEnhanced
	}
	return scoring.ModeBase
}

// parsePagination extracts pagination parameters from request
func parsePagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}

	return
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, Response{
		Error: &ErrorMsg{
			Code:    code,
			Message: message,
		},
	})
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
