package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/inkgraph/pkg/dsl"
	ierrors "github.com/matzehuels/inkgraph/pkg/errors"
	"github.com/matzehuels/inkgraph/pkg/flowxml"
	"github.com/matzehuels/inkgraph/pkg/graph"
	"github.com/matzehuels/inkgraph/pkg/layout"
	"github.com/matzehuels/inkgraph/pkg/observability"
	"github.com/matzehuels/inkgraph/pkg/render"
	"github.com/matzehuels/inkgraph/pkg/sketch"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion and layout API",
		Long: `Run the HTTP conversion and layout API.

Endpoints:
  POST /v1/convert/{format}   external format body in, canonical graph out
  POST /v1/export/sketch      canonical graph in, sketch elements out
  POST /v1/layout             canonical graph in, positioned graph out
  POST /v1/render             canonical graph in, SVG preview out
  GET  /healthz               liveness probe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", c.Config.Serve.Addr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.buildRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	c.Logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildRouter assembles the chi router with all API routes.
func (c *CLI) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(c.observeRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/convert/{format}", c.handleConvert)
		r.Post("/export/sketch", c.handleExportSketch)
		r.Post("/layout", c.handleLayout)
		r.Post("/render", c.handleRender)
	})

	return r
}

// observeRequests reports requests through the observability HTTP hooks
// and logs them.
func (c *CLI) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(withLogger(r.Context(), c.Logger))
		observability.HTTP().OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, ww.Status(), duration)
		c.Logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", duration.Round(time.Millisecond))
	})
}

func (c *CLI) handleConvert(w http.ResponseWriter, r *http.Request) {
	var g graph.Graph

	format := chi.URLParam(r, "format")
	observability.Pipeline().OnConvertStart(r.Context(), format, formatGraph)
	start := time.Now()

	switch format {
	case formatSketch:
		var elements []sketch.Element
		if err := json.NewDecoder(r.Body).Decode(&elements); err != nil {
			writeError(w, http.StatusBadRequest, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "decode sketch elements"))
			return
		}
		g = sketch.ToGraph(sketch.Normalize(elements))

	case formatFlowXML:
		parsed, err := flowxml.FromReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "decode flowchart XML"))
			return
		}
		g = parsed

	case formatDSL:
		var records []dsl.Record
		if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
			writeError(w, http.StatusBadRequest, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "decode dsl records"))
			return
		}
		g = sketch.ToGraph(dsl.Expand(records))

	default:
		writeError(w, http.StatusNotFound, ierrors.New(ierrors.ErrCodeUnsupported, "unknown format %q", format))
		return
	}

	observability.Pipeline().OnConvertComplete(r.Context(), format, formatGraph, len(g.Nodes), time.Since(start), nil)
	writeJSON(w, g)
}

func (c *CLI) handleExportSketch(w http.ResponseWriter, r *http.Request) {
	g, err := graph.Read(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "decode graph"))
		return
	}
	writeJSON(w, sketch.FromGraph(g))
}

func (c *CLI) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, err := graph.Read(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "decode graph"))
		return
	}

	opts := layout.Options{Direction: layout.Direction(r.URL.Query().Get("direction"))}
	if opts.Direction != "" && !opts.Direction.Valid() {
		writeError(w, http.StatusBadRequest, ierrors.New(ierrors.ErrCodeInvalidDirection, "unknown direction %q", opts.Direction))
		return
	}

	laid, err := layout.Layout(r.Context(), g, opts)
	if err != nil {
		// Recoverable by contract: hand the caller back their graph.
		loggerFromContext(r.Context()).Warn("layout failed", "err", err)
	}
	writeJSON(w, laid)
}

func (c *CLI) handleRender(w http.ResponseWriter, r *http.Request) {
	g, err := graph.Read(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "decode graph"))
		return
	}

	opts := render.Options{
		Direction:    layout.Direction(r.URL.Query().Get("direction")),
		BranchColors: r.URL.Query().Get("branchColors") == "true",
	}
	svg, err := render.RenderSVG(r.Context(), render.ToDOT(g, opts))
	if err != nil {
		writeError(w, http.StatusInternalServerError, ierrors.Wrap(ierrors.ErrCodeInternal, err, "render svg"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// errorResponse is the JSON error body returned by the API.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    string(ierrors.GetCode(err)),
		Message: ierrors.UserMessage(err),
	})
}
