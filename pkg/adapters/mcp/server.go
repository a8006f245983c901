package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TraceResponse is the structured result of generate_trace.
type TraceResponse struct {
	Problem    string            `json:"problem" jsonschema_description:"Problem slug"`
	Input      map[string]string `json:"input" jsonschema_description:"The input the trace was generated for, as edit-field text"`
	Rejected   []string          `json:"rejected,omitempty" jsonschema_description:"Input fields that were malformed and kept their default"`
	TotalSteps int               `json:"total_steps" jsonschema_description:"Number of steps in the trace"`
	Steps      []domain.Step     `json:"steps" jsonschema_description:"Every step of the trace, in order"`
	Error      string            `json:"error,omitempty" jsonschema_description:"Adapter failure, when the trace is empty"`
}

// StepResponse is the structured result of get_step.
type StepResponse struct {
	Problem     string       `json:"problem" jsonschema_description:"Problem slug"`
	Step        int          `json:"step" jsonschema_description:"Index of the returned step (clamped into the trace)"`
	TotalSteps  int          `json:"total_steps" jsonschema_description:"Number of steps in the trace"`
	Current     *domain.Step `json:"current,omitempty" jsonschema_description:"The step snapshot"`
	Highlighted []int        `json:"highlighted,omitempty" jsonschema_description:"Solution code lines executed by the step"`
	Rendered    string       `json:"rendered,omitempty" jsonschema_description:"Plain-text rendering of the step"`
}

// Server exposes the catalog and trace generation as an MCP server.
// Every call opens a fresh driver, so the server holds no session state.
type Server struct {
	catalog   *catalog.Catalog
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(cat *catalog.Catalog, opts ...Option) *Server {
	s := &Server{
		catalog:   cat,
		mcpServer: server.NewMCPServer("stepwise-mcp", strings.TrimSpace(stepwise.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_problems
	s.mcpServer.AddTool(mcp.NewTool("list_problems",
		mcp.WithDescription("List catalog problems. Only problems with template set can be traced."),
		mcp.WithString("difficulty", mcp.Description("Filter by difficulty (easy, medium, hard)")),
		mcp.WithString("category", mcp.Description("Filter by category, e.g. array or linked-list")),
	), s.handleListProblems)

	// TOOL: generate_trace
	s.mcpServer.AddTool(mcp.NewTool("generate_trace",
		mcp.WithDescription("Run an algorithm on an input and return every step of its execution."),
		mcp.WithString("problem", mcp.Required(), mcp.Description("Problem slug or catalog id")),
		mcp.WithString("input", mcp.Description(`JSON object of field values as text, e.g. {"nums":"2,7,11,15","target":"9"}`)),
		mcp.WithNumber("test_case", mcp.Description("Index of a preset input; wins over input")),
		mcp.WithOutputSchema[TraceResponse](),
	), mcp.NewStructuredToolHandler(s.handleGenerateTrace))

	// TOOL: get_step
	s.mcpServer.AddTool(mcp.NewTool("get_step",
		mcp.WithDescription("Return one step of a trace, optionally rendered as text."),
		mcp.WithString("problem", mcp.Required(), mcp.Description("Problem slug or catalog id")),
		mcp.WithNumber("step", mcp.Required(), mcp.Description("Step index (clamped into the trace)")),
		mcp.WithString("input", mcp.Description("JSON object of field values as text")),
		mcp.WithNumber("test_case", mcp.Description("Index of a preset input; wins over input")),
		mcp.WithBoolean("render", mcp.Description("Include a plain-text rendering of the step")),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetStep))
}

func (s *Server) handleListProblems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	difficulty, _ := args["difficulty"].(string)
	category, _ := args["category"].(string)

	list := s.catalog.List(catalog.Filter{
		Difficulty: catalog.Difficulty(difficulty),
		Category:   category,
	})
	jsonBytes, err := json.Marshal(list)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// open starts a throwaway driver for the problem with the requested input applied.
func (s *Server) open(args map[string]any) (catalog.Problem, driver.Session, []string, error) {
	key, _ := args["problem"].(string)
	p, sess, err := s.catalog.Open(key)
	if err != nil {
		return p, nil, nil, err
	}

	var rejected []string
	if tc, ok := args["test_case"].(float64); ok {
		err = sess.ApplyTestCase(int(tc))
	} else if raw, ok := args["input"].(string); ok && raw != "" {
		values := map[string]string{}
		if err = json.Unmarshal([]byte(raw), &values); err == nil {
			rejected, err = sess.ApplyValues(values)
		} else {
			err = fmt.Errorf("input must be a JSON object of strings: %w", err)
		}
	}
	if err != nil {
		sess.Close()
		return p, nil, nil, err
	}
	if len(rejected) > 0 {
		s.logger.Warn("MCP: Input fields rejected", "problem", p.Slug, "fields", rejected)
	}
	return p, sess, rejected, nil
}

func (s *Server) handleGenerateTrace(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TraceResponse, error) {
	p, sess, rejected, err := s.open(args)
	if err != nil {
		return TraceResponse{}, fmt.Errorf("generate_trace failed: %w", err)
	}
	defer sess.Close()

	resp := TraceResponse{
		Problem:    p.Slug,
		Input:      sess.InputValues(),
		Rejected:   rejected,
		TotalSteps: sess.State().TotalSteps,
		Steps:      sess.Trace(),
	}
	if err := sess.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp, nil
}

func (s *Server) handleGetStep(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	p, sess, _, err := s.open(args)
	if err != nil {
		return StepResponse{}, fmt.Errorf("get_step failed: %w", err)
	}
	defer sess.Close()

	if step, ok := args["step"].(float64); ok {
		sess.Seek(int(step))
	}
	v := sess.View()
	resp := StepResponse{
		Problem:     p.Slug,
		Step:        v.Playback.CurrentStep,
		TotalSteps:  v.Playback.TotalSteps,
		Current:     v.Step,
		Highlighted: p.Highlight(v.Step),
	}
	if want, _ := args["render"].(bool); want {
		if _, def, err := s.catalog.Definition(p.Slug); err == nil {
			resp.Rendered = def.Render(v, render.PlainStyles()).String()
		}
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: stepwise://catalog
	s.mcpServer.AddResource(mcp.NewResource("stepwise://catalog", "Problem Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.catalog.List(catalog.Filter{}))
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stepwise://catalog",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
