package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/progress"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/aretw0/stepwise/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the catalog, live sessions and learner progress over HTTP.
type Server struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	tracker  *progress.Tracker
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithTracker enables the /progress routes.
func WithTracker(t *progress.Tracker) Option {
	return func(s *Server) {
		s.tracker = t
	}
}

// WithGatherer enables GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server. Sessions are opened through sessions, and
// problems are resolved through cat.
func NewServer(cat *catalog.Catalog, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		catalog:  cat,
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler builds the router.
func NewHandler(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/problems", func(r chi.Router) {
		r.Get("/", s.ListProblems)
		r.Get("/{problem}", s.GetProblem)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/{control:play|pause|toggle|forward|backward|reset}", s.Control)
			r.Post("/speed", s.SetSpeed)
			r.Post("/seek", s.Seek)
			r.Post("/input", s.SetInput)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.tracker != nil {
		r.Route("/progress/{profile}", func(r chi.Router) {
			r.Get("/", s.GetProgress)
			r.Delete("/", s.ResetProgress)
			r.Patch("/settings", s.UpdateSettings)
			r.Post("/{kind:completed|in-progress|favorite}/{problem}", s.MarkProgress)
			r.Delete("/{kind:completed|in-progress}/{problem}", s.UnmarkProgress)
		})
	}

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":      "stepwise-http",
		"version":  strings.TrimSpace(stepwise.Version),
		"problems": s.catalog.Len(),
		"sessions": s.sessions.Len(),
	})
}

// ListProblems handles GET /problems?difficulty=&category=&playable=.
func (s *Server) ListProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	playable, _ := strconv.ParseBool(q.Get("playable"))
	s.writeJSON(w, http.StatusOK, s.catalog.List(catalog.Filter{
		Difficulty:   catalog.Difficulty(q.Get("difficulty")),
		Category:     q.Get("category"),
		Visualizable: playable,
	}))
}

// GetProblem handles GET /problems/{problem}.
func (s *Server) GetProblem(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(chi.URLParam(r, "problem"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

type createSessionRequest struct {
	Problem  string            `json:"problem"`
	Values   map[string]string `json:"values,omitempty"`
	TestCase *int              `json:"test_case,omitempty"`
	Speed    float64           `json:"speed,omitempty"`
	Autoplay bool              `json:"autoplay,omitempty"`
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateSession: Invalid request body", "error", err)
		return
	}

	p, err := s.catalog.Get(body.Problem)
	if err != nil {
		s.writeError(w, err)
		return
	}
	e, err := s.sessions.Create(p.Slug)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rejected, err := applyInput(e.Session, inputRequest{Values: body.Values, TestCase: body.TestCase})
	if err == nil && body.Speed != 0 {
		err = e.Session.SetSpeed(body.Speed)
	}
	if err != nil {
		_ = s.sessions.Delete(e.ID)
		s.writeError(w, err)
		return
	}
	if body.Autoplay {
		e.Session.Play()
	}

	s.logger.Info("Session created", "session_id", e.ID, "problem", p.Slug)
	resp := s.sessionView(e, false)
	resp.Rejected = rejected
	s.writeJSON(w, http.StatusCreated, resp)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	entries := s.sessions.List()
	out := make([]sessionSummary, len(entries))
	for i, e := range entries {
		out[i] = sessionSummary{Entry: e, Playback: e.Session.State()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetSession handles GET /sessions/{id}?render=text.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.sessionView(e, r.URL.Query().Get("render") == "text"))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Control handles POST /sessions/{id}/{play|pause|toggle|forward|backward|reset}.
func (s *Server) Control(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	switch chi.URLParam(r, "control") {
	case "play":
		e.Session.Play()
	case "pause":
		e.Session.Pause()
	case "toggle":
		e.Session.Toggle()
	case "forward":
		e.Session.StepForward()
	case "backward":
		e.Session.StepBackward()
	case "reset":
		e.Session.Reset()
	}
	s.writeJSON(w, http.StatusOK, s.sessionView(e, false))
}

// SetSpeed handles POST /sessions/{id}/speed {"speed": 1.5}.
func (s *Server) SetSpeed(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := e.Session.SetSpeed(body.Speed); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sessionView(e, false))
}

// Seek handles POST /sessions/{id}/seek {"step": 3}.
func (s *Server) Seek(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	e.Session.Seek(body.Step)
	s.writeJSON(w, http.StatusOK, s.sessionView(e, false))
}

type inputRequest struct {
	Values   map[string]string `json:"values,omitempty"`
	TestCase *int              `json:"test_case,omitempty"`
}

// SetInput handles POST /sessions/{id}/input. A test case wins over values.
func (s *Server) SetInput(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body inputRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.TestCase == nil && len(body.Values) == 0 {
		http.Error(w, "Either values or test_case is required", http.StatusBadRequest)
		return
	}
	rejected, err := applyInput(e.Session, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := s.sessionView(e, false)
	resp.Rejected = rejected
	s.writeJSON(w, http.StatusOK, resp)
}

type applier interface {
	ApplyValues(values map[string]string) ([]string, error)
	ApplyTestCase(i int) error
}

func applyInput(a applier, in inputRequest) ([]string, error) {
	if in.TestCase != nil {
		return nil, a.ApplyTestCase(*in.TestCase)
	}
	if len(in.Values) > 0 {
		return a.ApplyValues(in.Values)
	}
	return nil, nil
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Entry, bool) {
	e, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return e, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrProblemNotFound),
		errors.Is(err, domain.ErrTestCaseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSpeed):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrLimitReached):
		status = http.StatusTooManyRequests
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

type sessionSummary struct {
	*session.Entry
	Playback domain.PlaybackState `json:"playback"`
}

type sessionResponse struct {
	ID        string              `json:"id"`
	View      any                 `json:"view"`
	Fields    []domain.InputField `json:"fields"`
	Values    map[string]string   `json:"values"`
	TestCases []string            `json:"test_cases"`
	Rejected  []string            `json:"rejected,omitempty"`
	Rendered  string              `json:"rendered,omitempty"`
}

func (s *Server) sessionView(e *session.Entry, rendered bool) sessionResponse {
	v := e.Session.View()
	resp := sessionResponse{
		ID:        e.ID,
		View:      v,
		Fields:    e.Session.Fields(),
		Values:    e.Session.InputValues(),
		TestCases: e.Session.TestCaseLabels(),
	}
	if rendered {
		if _, def, err := s.catalog.Definition(e.Problem); err == nil {
			resp.Rendered = def.Render(v, render.PlainStyles()).String()
		}
	}
	return resp
}

func (s *Server) problemID(key string) (int, error) {
	p, err := s.catalog.Get(key)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// GetProgress handles GET /progress/{profile}.
func (s *Server) GetProgress(w http.ResponseWriter, r *http.Request) {
	profile := chi.URLParam(r, "profile")
	p, err := s.tracker.Load(r.Context(), profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"progress": p,
		"stats":    p.Stats(s.catalog.Len()),
	})
}

// MarkProgress handles POST /progress/{profile}/{completed|in-progress|favorite}/{problem}.
func (s *Server) MarkProgress(w http.ResponseWriter, r *http.Request) {
	profile := chi.URLParam(r, "profile")
	id, err := s.problemID(chi.URLParam(r, "problem"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	switch kind := chi.URLParam(r, "kind"); kind {
	case "completed":
		err = s.tracker.MarkCompleted(ctx, profile, id)
	case "in-progress":
		err = s.tracker.MarkInProgress(ctx, profile, id)
	case "favorite":
		var fav bool
		fav, err = s.tracker.ToggleFavorite(ctx, profile, id)
		if err == nil {
			s.writeJSON(w, http.StatusOK, map[string]any{"problem": id, "favorite": fav})
			return
		}
	default:
		err = fmt.Errorf("unknown progress kind %q", kind)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnmarkProgress handles DELETE /progress/{profile}/{completed|in-progress}/{problem}.
// Both kinds clear the problem from the completed and in-progress sets alike;
// the kind segment only mirrors the POST route. Favourites are untouched.
func (s *Server) UnmarkProgress(w http.ResponseWriter, r *http.Request) {
	id, err := s.problemID(chi.URLParam(r, "problem"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.tracker.RemoveFromProgress(r.Context(), chi.URLParam(r, "profile"), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSettings handles PATCH /progress/{profile}/settings.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	settings, err := s.tracker.UpdateSettings(r.Context(), chi.URLParam(r, "profile"), patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

// ResetProgress handles DELETE /progress/{profile}.
func (s *Server) ResetProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ResetProgress(r.Context(), chi.URLParam(r, "profile")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
