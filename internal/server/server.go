// Package server exposes sizing runs over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Koson7970/wood-strength-prediction-model/internal/config"
	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/metrics"
	"github.com/Koson7970/wood-strength-prediction-model/internal/pipeline"
	"github.com/Koson7970/wood-strength-prediction-model/internal/report"
	"github.com/Koson7970/wood-strength-prediction-model/internal/sizing"
	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

const maxBodyBytes = 10 << 20

// SizeRequest is the body of both sizing endpoints. Omitted settings fall
// back to the server configuration.
type SizeRequest struct {
	Members    []member.Raw `json:"members"`
	Catalog    []timber.Row `json:"catalog"`
	WidthClass string       `json:"width_class,omitempty"`
	SI         *bool        `json:"si,omitempty"`
	Seed       *int32       `json:"seed,omitempty"`
}

// MemberFailure describes one member that could not be sized
type MemberFailure struct {
	MemberID   int    `json:"member_id"`
	MaterialID int    `json:"material_id"`
	Error      string `json:"error"`
}

// SizeResponse is returned by POST /api/size
type SizeResponse struct {
	RunID  string             `json:"run_id"`
	Rows   []report.Row       `json:"rows"`
	Export []report.ExportRow `json:"export"`
	Pairs  []sizing.Pair      `json:"pairs"`
	Errors []MemberFailure    `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server holds the router and the shared run settings
type Server struct {
	cfg      config.Config
	log      *zap.Logger
	recorder *metrics.Recorder
	router   *mux.Router
}

// New wires the routes. recorder may be nil, in which case /metrics is not
// served.
func New(cfg config.Config, log *zap.Logger, recorder *metrics.Recorder) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, log: log, recorder: recorder, router: mux.NewRouter()}

	limiter := NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.HandleFunc("/size", s.handleSize).Methods(http.MethodPost)
	api.HandleFunc("/size/csv", s.handleSizeCSV).Methods(http.MethodPost)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if recorder != nil {
		s.router.Handle("/metrics", recorder.Handler()).Methods(http.MethodGet)
	}
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	out, err := s.run(w, r)
	if out == nil {
		return
	}

	resp := SizeResponse{
		RunID:  out.RunID,
		Rows:   out.Report.Rows,
		Export: out.Report.Export,
		Pairs:  out.Result.Pairs,
		Errors: failures(out.Result),
	}
	if err != nil {
		s.log.Info("partial sizing", zap.String("run_id", out.RunID), zap.Int("failed", len(resp.Errors)))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSizeCSV(w http.ResponseWriter, r *http.Request) {
	out, err := s.run(w, r)
	if out == nil {
		return
	}
	if err != nil {
		// an export with unsized members would carry placeholder rows
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)
	w.Header().Set("X-Run-Id", out.RunID)
	if err := report.WriteCSV(w, out.Report.Export); err != nil {
		s.log.Error("write csv", zap.Error(err))
	}
}

// run decodes the request and executes a pass. A nil Output means the
// response has already been written.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*pipeline.Output, error) {
	var req SizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, err
	}

	opts, err := s.options(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, err
	}

	start := time.Now()
	out, err := pipeline.Run(r.Context(), req.Members, req.Catalog, opts)
	if out == nil {
		writeError(w, statusFor(err), err.Error())
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.ObserveRun(start)
	}
	return out, err
}

func (s *Server) options(req SizeRequest) (pipeline.Options, error) {
	cfg := s.cfg
	if req.WidthClass != "" {
		cfg.WidthClass = req.WidthClass
	}
	if req.SI != nil {
		cfg.SIUnits = *req.SI
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	topts, err := cfg.TimberOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Member:  member.Options{SkipUnitConversion: !cfg.SIUnits},
		Timber:  topts,
		Workers: cfg.Workers,
		Logger:  s.log,
	}
	if s.recorder != nil {
		opts.Observer = s.recorder
	}
	return opts, nil
}

func failures(res *sizing.Result) []MemberFailure {
	out := make([]MemberFailure, 0, len(res.Errors))
	for _, e := range res.Errors {
		out = append(out, MemberFailure{MemberID: e.MemberID, MaterialID: e.MaterialID, Error: e.Err.Error()})
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, member.ErrMalformedInput),
		errors.Is(err, timber.ErrMalformedCatalog),
		errors.Is(err, sizing.ErrEmptyInput),
		errors.Is(err, sizing.ErrCatalogTooSmall):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
