// Package dashboard serves the interactive population-pyramid dashboard:
// an HTML page whose controls post typed events to the selection store and
// re-fetch the derived view.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/kaleidemoskop/demodash/internal/logging"
	"github.com/kaleidemoskop/demodash/internal/pyramid"
	"github.com/kaleidemoskop/demodash/internal/ratelimit"
	"github.com/kaleidemoskop/demodash/internal/selection"
	"github.com/kaleidemoskop/demodash/internal/view"
)

// maxEventBytes bounds a POST /api/events body.
const maxEventBytes = 4 << 10

// Options configures a Server. Zero values fall back to sensible defaults.
type Options struct {
	// Addr is the listen address; empty lets the OS pick a localhost port.
	Addr string

	// TickInterval is the auto-advance period while playing.
	TickInterval time.Duration

	// Version is shown in the page footer.
	Version string

	Logger *slog.Logger

	// AccessLog receives one Apache-style line per request. Nil disables it.
	AccessLog io.Writer

	// Transitions records every applied event. May be nil.
	Transitions *logging.TransitionLogger

	// EventLimiter bounds POST /api/events per client. Nil means unlimited.
	EventLimiter *ratelimit.Limiter
}

// Server serves the dashboard for one set of tables and one selection store.
type Server struct {
	tables *dataset.Tables
	store  *selection.Store
	opts   Options
	note   view.Note
	logger *slog.Logger

	httpServer *http.Server
	mu         sync.Mutex
	addr       string
}

// NewServer creates a dashboard server. Transitions applied to store, from
// any source, are logged through opts.
func NewServer(tables *dataset.Tables, store *selection.Store, opts Options) *Server {
	if opts.TickInterval <= 0 {
		opts.TickInterval = constants.DefaultTickInterval
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		tables: tables,
		store:  store,
		opts:   opts,
		note:   view.MethodologyNote(tables.Metadata(), opts.Version),
		logger: logger,
	}

	store.Observe(func(tr selection.Transition) {
		opts.Transitions.Record(tr.Event.Name(), tr.Before, tr.After)
		lvl := slog.LevelDebug
		if _, ok := tr.Event.(selection.TimerTick); ok {
			lvl = logging.LevelTrace
		}
		logger.Log(context.Background(), lvl, "selection changed",
			"event", tr.Event.Name(),
			"scenario", tr.After.Scenario.Code(),
			"year", tr.After.Year,
			"playing", tr.After.Playing)
	})

	return s
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// URL returns the dashboard's base URL once listening.
func (s *Server) URL() string {
	if addr := s.Addr(); addr != "" {
		return "http://" + addr
	}
	return ""
}

// Handler returns the routed handler, wrapped in access logging when configured.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/view", s.handleView).Methods(http.MethodGet)
	r.HandleFunc("/api/view", s.handleAPIView).Methods(http.MethodGet)
	r.Handle("/api/events", s.opts.EventLimiter.Middleware(http.HandlerFunc(s.handleEvent))).Methods(http.MethodPost)
	r.HandleFunc("/pyramid.{format:png|svg}", s.handlePyramid).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.FileServerFS(static)).Methods(http.MethodGet)

	if s.opts.AccessLog == nil {
		return r
	}
	return handlers.LoggingHandler(s.opts.AccessLog, r)
}

// ListenAndServe starts the HTTP server and the auto-advance player, and
// blocks until the context is cancelled. Returns nil on clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.opts.Addr
	if addr == "" {
		addr = "localhost:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Unlock()

	player := selection.NewPlayer(s.store, s.opts.TickInterval, s.logger)
	go player.Run(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("dashboard listening", "addr", s.addr)
	err = s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) snapshot() view.Snapshot {
	return view.Derive(s.tables, s.store.Get())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	html, err := RenderPage(s.snapshot(), s.note, s.opts.TickInterval.Milliseconds())
	if err != nil {
		s.serverError(w, "render page", err)
		return
	}
	writeHTML(w, html)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	html, err := RenderView(s.snapshot())
	if err != nil {
		s.serverError(w, "render view", err)
		return
	}
	writeHTML(w, html)
}

// apiView is the JSON body of GET /api/view and of applied events.
type apiView struct {
	View view.Snapshot `json:"view"`
	Note view.Note     `json:"note"`
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiView{View: s.snapshot(), Note: s.note})
}

// handleEvent applies one event. A no-op answers 204 so the client keeps
// its current render; a change answers 200 with the new snapshot.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		http.Error(w, "read event: "+err.Error(), http.StatusBadRequest)
		return
	}
	ev, err := selection.DecodeEvent(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, changed := s.store.Dispatch(ev)
	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, apiView{View: view.Derive(s.tables, st), Note: s.note})
}

// handlePyramid renders the chart of the current state, with scenario, year,
// benchmark and history query parameters overriding it.
func (s *Server) handlePyramid(w http.ResponseWriter, r *http.Request) {
	st, err := stateFromQuery(s.store.Get(), r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format := pyramid.Format(mux.Vars(r)["format"])

	snap := view.Derive(s.tables, st)
	var buf bytes.Buffer
	if err := pyramid.Render(snap.Pyramid, format, &buf); err != nil {
		s.serverError(w, "render pyramid", err)
		return
	}
	s.logger.Log(r.Context(), logging.LevelTrace, "rendered pyramid",
		"scenario", snap.State.Scenario.Code(), "year", snap.State.Year, "bytes", buf.Len())

	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"start_year": s.tables.SimulationStartYear(),
		"scenarios":  len(s.tables.Scenarios()),
		"years":      len(s.tables.Years()),
	})
}

func (s *Server) serverError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "error", err)
	http.Error(w, msg+": "+err.Error(), http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
