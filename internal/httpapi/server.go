// Package httpapi exposes the simulation engine as a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"quote-risk/internal/config"
	"quote-risk/internal/jobfile"
	"quote-risk/internal/report"
	"quote-risk/internal/simulation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type server struct {
	cfg    *config.AppConfig
	engine *simulation.Engine
}

type problemResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// NewRouter builds the API routes.
func NewRouter(cfg *config.AppConfig) http.Handler {
	srv := &server{cfg: cfg, engine: cfg.Simulation.NewEngine()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", srv.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/simulations", srv.handleSimulate)
		r.Get("/schema", srv.handleSchema)
		r.Get("/presets", srv.handlePresets)
		r.Get("/presets/{name}", srv.handlePreset)
	})
	return r
}

// ListenAndServe serves the API on cfg.HTTPAddr until ctx is cancelled.
func ListenAndServe(ctx context.Context, cfg *config.AppConfig) error {
	hs := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP API listening")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var p simulation.Parameters
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		writeJSON(w, http.StatusBadRequest, problemResponse{Error: fmt.Sprintf("invalid job: %v", err)})
		return
	}

	opts := report.Options{
		HistogramBins: s.cfg.Simulation.HistogramBins,
		IncludeCharts: queryBool(r, "charts", false),
		IncludeCosts:  queryBool(r, "costs", false),
	}

	p, err := s.cfg.Simulation.Prepare(p)
	if err != nil {
		writeRunError(w, err)
		return
	}
	res, err := s.engine.Run(r.Context(), p)
	if err != nil {
		writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Build(res, opts))
}

func writeRunError(w http.ResponseWriter, err error) {
	var invalid *simulation.InvalidParametersError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, problemResponse{Error: simulation.ErrInvalidParameters.Error(), Problems: invalid.Problems})
	case errors.Is(err, context.Canceled):
		log.Warn().Err(err).Msg("Simulation cancelled by client")
	default:
		log.Error().Err(err).Msg("Simulation failed")
		writeJSON(w, http.StatusInternalServerError, problemResponse{Error: "simulation failed"})
	}
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	data, err := jobfile.SchemaJSON()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build job schema")
		writeJSON(w, http.StatusInternalServerError, problemResponse{Error: "failed to build schema"})
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(data)
}

func (s *server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jobfile.Presets())
}

func (s *server) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	preset, ok := jobfile.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, problemResponse{Error: fmt.Sprintf("unknown preset %q", name)})
		return
	}
	writeJSON(w, http.StatusOK, preset)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		status = http.StatusInternalServerError
		data, _ = json.Marshal(problemResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func queryBool(r *http.Request, key string, fallback bool) bool {
	if v, err := strconv.ParseBool(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return fallback
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("elapsed", time.Since(start)).
			Msg("HTTP request")
	})
}
