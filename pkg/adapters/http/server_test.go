package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/progress"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/aretw0/stepwise/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler  http.Handler
	sessions *session.Manager
	sched    *playback.ManualScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := registry.NewBuiltin()
	cat, err := catalog.Default()
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promReg)
	sched := playback.NewManualScheduler()
	sessions := session.NewManager(reg, session.WithDriverOptions(
		driver.WithEngineOptions(playback.WithScheduler(sched)),
		driver.WithLifecycleHooks(metrics.Hooks()),
	))
	t.Cleanup(sessions.Close)

	srv := NewServer(cat, sessions,
		WithTracker(progress.NewTracker(memory.NewStore())),
		WithGatherer(promReg),
	)
	return &fixture{handler: NewHandler(srv), sessions: sessions, sched: sched}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type viewBody struct {
	ID   string `json:"id"`
	View struct {
		Problem  string `json:"problem"`
		Playback struct {
			CurrentStep int     `json:"current_step"`
			TotalSteps  int     `json:"total_steps"`
			IsPlaying   bool    `json:"is_playing"`
			Speed       float64 `json:"speed"`
		} `json:"playback"`
		Variables map[string]any `json:"variables"`
	} `json:"view"`
	Values    map[string]string `json:"values"`
	TestCases []string          `json:"test_cases"`
	Rejected  []string          `json:"rejected"`
	Rendered  string            `json:"rendered"`
}

func TestProblems(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/problems?playable=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	assert.Len(t, list, 4)

	w = f.do(t, http.MethodGet, "/problems/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "reverse-linked-list", decode[map[string]any](t, w)["slug"])

	w = f.do(t, http.MethodGet, "/problems/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/sessions", map[string]any{"problem": "two-sum"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[viewBody](t, w)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 5, created.View.Playback.TotalSteps)
	assert.Equal(t, "2,7,11,15", created.Values["nums"])
	base := "/sessions/" + created.ID

	w = f.do(t, http.MethodPost, base+"/forward", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[viewBody](t, w).View.Playback.CurrentStep)

	w = f.do(t, http.MethodPost, base+"/seek", map[string]int{"step": 99})
	assert.Equal(t, 4, decode[viewBody](t, w).View.Playback.CurrentStep)

	w = f.do(t, http.MethodPost, base+"/speed", map[string]float64{"speed": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, base+"/play", nil)
	assert.True(t, decode[viewBody](t, w).View.Playback.IsPlaying)
	assert.Equal(t, 1, f.sched.Pending())

	w = f.do(t, http.MethodGet, base+"?render=text", nil)
	assert.Contains(t, decode[viewBody](t, w).Rendered, "target = 9")

	w = f.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, f.sched.Pending())

	w = f.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionInput(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/sessions", map[string]any{"problem": "two-sum", "test_case": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[viewBody](t, w)
	assert.Equal(t, "3,2,4", created.Values["nums"])

	w = f.do(t, http.MethodPost, "/sessions/"+created.ID+"/input", map[string]any{
		"values": map[string]string{"nums": "1, 2", "target": "abc"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[viewBody](t, w)
	assert.Equal(t, "1,2", updated.Values["nums"])
	assert.Equal(t, "6", updated.Values["target"])
	assert.Equal(t, []string{"target"}, updated.Rejected)

	w = f.do(t, http.MethodPost, "/sessions/"+created.ID+"/input", map[string]any{"test_case": 42})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/sessions/"+created.ID+"/input", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/sessions", map[string]any{"problem": "climbing-stairs"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestProgressRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/progress/alice/completed/two-sum", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodPost, "/progress/alice/favorite/reverse-linked-list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["favorite"])

	w = f.do(t, http.MethodPatch, "/progress/alice/settings", map[string]any{"theme": "dark"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", decode[map[string]any](t, w)["theme"])

	w = f.do(t, http.MethodGet, "/progress/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Progress map[string]any `json:"progress"`
		Stats    map[string]any `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []any{1.0}, body.Progress["completedProblems"])
	assert.Equal(t, []any{2.0}, body.Progress["favoriteProblems"])
	assert.Equal(t, 16.67, body.Stats["completionRate"])

	w = f.do(t, http.MethodDelete, "/progress/alice/completed/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/progress/alice", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/progress/alice", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body.Progress["favoriteProblems"])
	assert.Equal(t, "dark", body.Progress["settings"].(map[string]any)["theme"])
}

func TestUnmarkProgress_ClearsBothSets(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/progress/bob/completed/two-sum", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodPost, "/progress/bob/in-progress/reverse-linked-list", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/progress/bob/in-progress/two-sum", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodDelete, "/progress/bob/completed/reverse-linked-list", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/progress/bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Progress map[string]any `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body.Progress["completedProblems"])
	assert.Equal(t, []any{}, body.Progress["inProgressProblems"])
}

func TestMetricsRoute(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/sessions", map[string]any{"problem": "valid-parentheses"})

	w := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `stepwise_traces_generated_total{problem="valid-parentheses"} 1`)
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	e, err := f.sessions.Create("reverse-linked-list")
	require.NoError(t, err)

	ts := httptest.NewServer(f.handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/"+e.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if line := lines.Text(); strings.HasPrefix(line, "data: ") || strings.HasPrefix(line, "event: closed") {
				return line
			}
		}
		return ""
	}

	assert.Equal(t, "data: connected", next())

	initial := next()
	assert.Contains(t, initial, `"current_step":0`)
	assert.Contains(t, initial, `"total_steps":`)
	assert.Contains(t, initial, `"step":`)

	e.Session.StepForward()
	moved := next()
	assert.Contains(t, moved, `"current_step":1`)
	assert.NotContains(t, moved, `"total_steps"`)
	assert.Contains(t, moved, `"step":`)

	require.NoError(t, e.Session.SetSpeed(2))
	assert.Equal(t, `data: {"session_id":"`+e.ID+`","speed":2}`, next())

	require.NoError(t, f.sessions.Delete(e.ID))
	assert.Equal(t, "event: closed", next())
}

func TestSubscribeEvents_SameLengthInput(t *testing.T) {
	f := newFixture(t)
	e, err := f.sessions.Create("reverse-linked-list")
	require.NoError(t, err)

	ts := httptest.NewServer(f.handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/"+e.ID+"/events?watch=cursor", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if line := lines.Text(); strings.HasPrefix(line, "data: ") {
				return line
			}
		}
		return ""
	}
	assert.Equal(t, "data: connected", next())
	assert.Contains(t, next(), `"val":1`)

	// Same length, same cursor: only the trace differs.
	w := f.do(t, http.MethodPost, "/sessions/"+e.ID+"/input", map[string]any{
		"values": map[string]string{"values": "9,8,7,6,5"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	replaced := next()
	assert.Contains(t, replaced, `"trace_version":`)
	assert.NotContains(t, replaced, `"total_steps"`)
	assert.Contains(t, replaced, `"val":9`)
}

func TestSubscribeEvents_UnknownSession(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/sessions/nope/events", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWatchFilter(t *testing.T) {
	speed := 2.0
	step := 1
	assert.True(t, parseWatch("").keep(&domain.PlaybackDiff{Speed: &speed}))
	assert.False(t, parseWatch("cursor").keep(&domain.PlaybackDiff{Speed: &speed}))
	assert.True(t, parseWatch("cursor, speed").keep(&domain.PlaybackDiff{Speed: &speed}))
	assert.True(t, parseWatch("cursor").keep(&domain.PlaybackDiff{CurrentStep: &step}))

	version := uint64(2)
	assert.True(t, parseWatch("cursor").keep(&domain.PlaybackDiff{TraceVersion: &version}))
	assert.False(t, parseWatch("playing").keep(&domain.PlaybackDiff{TraceVersion: &version}))
}
