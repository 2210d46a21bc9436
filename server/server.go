// Package server exposes battle sessions over HTTP and websockets.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/nstehr/skirmish/agent"
	"github.com/nstehr/skirmish/ipc"
	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/planner"
	"github.com/nstehr/skirmish/rules"
	"github.com/nstehr/skirmish/scenario"
)

// maxBody bounds request bodies, scenario documents included.
const maxBody = 1 << 20

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Server keeps the sessions created through it. Websocket sessions are
// registered too, so they can be inspected over HTTP.
type Server struct {
	config agent.Config
	router *mux.Router

	mu       sync.RWMutex
	sessions map[string]*agent.Session
}

func New(cfg agent.Config) *Server {
	s := &Server{config: cfg, sessions: make(map[string]*agent.Session)}
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/battles", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/battles/{id}", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/battles/{id}/units/{unit}/squares", s.handleSquares).Methods(http.MethodGet)
	api.HandleFunc("/battles/{id}/plan", s.handlePlan).Methods(http.MethodPost)
	api.HandleFunc("/battles/{id}/apply", s.handleApply).Methods(http.MethodPost)
	api.HandleFunc("/battles/{id}/autoplay", s.handleAutoplay).Methods(http.MethodPost)
	api.HandleFunc("/battles/{id}/end-turn", s.handleEndTurn).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) add(sess *agent.Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*agent.Session, bool) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no battle %q", id))
	}
	return sess, ok
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.sessions)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "battles": n})
}

// handleCreate starts a battle from the YAML scenario in the body. Query
// parameters side, seed and policy mirror the hello message.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var f *scenario.File
	if name := r.URL.Query().Get("builtin"); name != "" {
		f, err = scenario.Builtin(name)
	} else {
		f, err = scenario.Parse(body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := s.config
	q := r.URL.Query()
	if v := q.Get("seed"); v != "" {
		if _, err := fmt.Sscan(v, &cfg.Seed); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("seed: %w", err))
			return
		}
	}
	if v := q.Get("policy"); v != "" {
		if cfg.Policy, err = planner.ParsePolicy(v); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	sess, err := agent.NewSession(f, model.Side(q.Get("side")), cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.add(sess)
	writeJSON(w, http.StatusCreated, sess.State())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleSquares(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	unit := mux.Vars(r)["unit"]
	squares, err := sess.Squares(unit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ipc.SquaresMessage{Unit: unit, Squares: squares})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var cmd ipc.PlanCommand
	if !decode(w, r, &cmd) {
		return
	}
	m, err := sess.Plan(cmd.Unit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var cmd ipc.ApplyCommand
	if !decode(w, r, &cmd) {
		return
	}
	out, err := sess.Apply(cmd.Move)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAutoplay(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	outs, err := sess.Autoplay()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ipc.OutcomesMessage{Outcomes: outs, State: sess.State()})
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	outs, err := sess.EndTurn()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ipc.OutcomesMessage{Outcomes: outs, State: sess.State()})
}

// handleWebSocket speaks the ipc protocol over a websocket. The session
// opened by hello is also reachable through the HTTP routes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := ipc.NewConnection(ipc.NewWebSocketTransport(conn), nil)
	a := agent.New(c, s.config)
	a.OnSession(s.add)
	a.Register()
	slog.Info("websocket client connected", "remote", r.RemoteAddr)
	c.ReadLoop()
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return false
	}
	return true
}

// statusFor maps rule violations to client errors.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rules.ErrInvalidReference):
		return http.StatusNotFound
	case errors.Is(err, rules.ErrIllegalMove), errors.Is(err, rules.ErrOutOfTurn), errors.Is(err, agent.ErrBattleOver):
		return http.StatusConflict
	case errors.Is(err, rules.ErrNoLegalMoves):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := ipc.NewErrorMessage("", err)
	writeJSON(w, status, msg)
}
