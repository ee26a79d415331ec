package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"driftwatch/app"
	"driftwatch/domain/core"
	"driftwatch/domain/dataset"
	"driftwatch/internal"
	"driftwatch/internal/errors"
	"driftwatch/ports"
)

// Server exposes prediction and monitoring over HTTP. The classifier and
// scaler are injected handles owned by the caller; handlers never reach
// for globals.
type Server struct {
	router     *chi.Mux
	modelID    core.ModelID
	classifier ports.Classifier
	scaler     ports.Scaler
	classNames []string
	monitoring *app.MonitoringService
	logger     *internal.Logger
}

// NewServer wires routes around the injected model and services.
// monitoring may be nil when only the prediction endpoints are served.
func NewServer(classifier ports.Classifier, scaler ports.Scaler, classNames []string, monitoring *app.MonitoringService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:     chi.NewRouter(),
		modelID:    core.ModelID(core.NewID()),
		classifier: classifier,
		scaler:     scaler,
		classNames: classNames,
		monitoring: monitoring,
		logger:     logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/v1/model", s.handleModelInfo)
	s.router.Post("/v1/predict", s.handlePredict)
	s.router.Post("/v1/monitor/run", s.handleMonitorRun)
	s.router.Get("/v1/monitor/latest", s.handleMonitorLatest)
}

// Router returns the HTTP handler for mounting or serving
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving on the given port
func (s *Server) Start(port string) error {
	s.logger.Info("Serving on port %s", port)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ModelInfoResponse describes the served model. ModelID identifies the
// model instance loaded by this server process.
type ModelInfoResponse struct {
	ModelID    core.ModelID `json:"model_id"`
	ModelType  string       `json:"model_type"`
	NumClasses int          `json:"num_classes"`
	ClassNames []string     `json:"class_names"`
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	if s.classifier == nil {
		s.writeError(w, errors.NotFound("model"))
		return
	}
	s.writeJSON(w, http.StatusOK, ModelInfoResponse{
		ModelID:    s.modelID,
		ModelType:  "classifier",
		NumClasses: len(s.classNames),
		ClassNames: s.classNames,
	})
}

// PredictRequest accepts either a single instance or a batch. Exactly one
// of Instance and Instances must be set.
type PredictRequest struct {
	Instance  []float64   `json:"instance,omitempty"`
	Instances [][]float64 `json:"instances,omitempty"`
}

// Prediction is the scored result for one instance
type Prediction struct {
	Class         int       `json:"class"`
	ClassName     string    `json:"class_name"`
	Confidence    float64   `json:"confidence"`
	Probabilities []float64 `json:"probabilities"`
}

// PredictResponse carries one prediction per input instance
type PredictResponse struct {
	Predictions []Prediction `json:"predictions"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.classifier == nil {
		s.writeError(w, errors.NotFound("model"))
		return
	}

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, core.NewValidationError("body", "malformed JSON"))
		return
	}

	instances := req.Instances
	if len(req.Instance) > 0 {
		if len(instances) > 0 {
			s.writeError(w, core.NewValidationError("body", "set instance or instances, not both"))
			return
		}
		instances = [][]float64{req.Instance}
	}
	if len(instances) == 0 {
		s.writeError(w, core.NewValidationError("body", "no instances provided"))
		return
	}

	features := instances
	if s.scaler != nil {
		scaled, err := s.scaler.Transform(instances)
		if err != nil {
			s.writeError(w, err)
			return
		}
		features = scaled
	}

	classes, err := s.classifier.Predict(features)
	if err != nil {
		s.writeError(w, err)
		return
	}
	proba, err := s.classifier.PredictProba(features)
	if err != nil {
		s.writeError(w, err)
		return
	}

	predictions := make([]Prediction, len(classes))
	for i, c := range classes {
		confidence := 0.0
		for _, p := range proba[i] {
			if p > confidence {
				confidence = p
			}
		}
		name := ""
		if c >= 0 && c < len(s.classNames) {
			name = s.classNames[c]
		}
		predictions[i] = Prediction{
			Class:         c,
			ClassName:     name,
			Confidence:    confidence,
			Probabilities: proba[i],
		}
	}
	s.writeJSON(w, http.StatusOK, PredictResponse{Predictions: predictions})
}

// MonitorRunRequest triggers a monitoring cycle over inline snapshots
type MonitorRunRequest struct {
	Reference            map[string][]float64 `json:"reference"`
	Current              map[string][]float64 `json:"current"`
	ExcludedColumns      []string             `json:"excluded_columns,omitempty"`
	CurrentPredictions   []int                `json:"current_predictions,omitempty"`
	ReferencePredictions []int                `json:"reference_predictions,omitempty"`
	PredictionClasses    []int                `json:"prediction_classes,omitempty"`
}

func (s *Server) handleMonitorRun(w http.ResponseWriter, r *http.Request) {
	if s.monitoring == nil {
		s.writeError(w, errors.NotFound("monitoring service"))
		return
	}

	var req MonitorRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, core.NewValidationError("body", "malformed JSON"))
		return
	}

	reference, err := tableFromColumns(req.Reference)
	if err != nil {
		s.writeError(w, err)
		return
	}
	current, err := tableFromColumns(req.Current)
	if err != nil {
		s.writeError(w, err)
		return
	}

	run, err := s.monitoring.Run(r.Context(), app.MonitorInput{
		Reference:            reference,
		Current:              current,
		ExcludedColumns:      req.ExcludedColumns,
		CurrentPredictions:   req.CurrentPredictions,
		ReferencePredictions: req.ReferencePredictions,
		PredictionClasses:    req.PredictionClasses,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleMonitorLatest(w http.ResponseWriter, r *http.Request) {
	if s.monitoring == nil {
		s.writeError(w, errors.NotFound("monitoring service"))
		return
	}
	run, err := s.monitoring.Latest(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed: %v", err)
	}
	s.writeJSON(w, status, ErrorResponse{Code: code, Message: err.Error()})
}

// tableFromColumns builds a Table from request columns in name order,
// so repeated requests see the same column ordering.
func tableFromColumns(columns map[string][]float64) (*dataset.Table, error) {
	if len(columns) == 0 {
		return nil, core.NewValidationError("columns", "no columns provided")
	}
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	table := dataset.NewTable()
	for _, name := range names {
		if err := table.AddColumn(name, columns[name]); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func statusForCode(code string) int {
	switch code {
	case errors.CodeValidationError, errors.CodeInsufficientData:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeConfigInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
