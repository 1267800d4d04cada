package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ha1tch/nfa2dfa/pkg/nfa"
	"github.com/ha1tch/nfa2dfa/pkg/nfafile"
	"github.com/ha1tch/nfa2dfa/pkg/session"
)

// maxBody bounds request bodies, table text included.
const maxBody = 1 << 20

type stateView struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Initial     bool             `json:"initial"`
	Final       bool             `json:"final"`
	Transitions map[string][]int `json:"transitions,omitempty"`
}

type snapshotView struct {
	ID          string      `json:"id"`
	Alphabet    []string    `json:"alphabet"`
	States      []stateView `json:"states"`
	Mode        string      `json:"mode"`
	Convertible bool        `json:"convertible"`
	Problem     string      `json:"problem,omitempty"`
	CanUndo     bool        `json:"can_undo"`
	CanRedo     bool        `json:"can_redo"`
}

type stateUpdate struct {
	Name    *string `json:"name"`
	Initial *bool   `json:"initial"`
	Final   *bool   `json:"final"`
}

type transitionToggle struct {
	Symbol string `json:"symbol"`
	Target int    `json:"target"`
}

type symbolRequest struct {
	Symbol string `json:"symbol"`
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves {sid} or answers 404.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		sess, ok := s.store.Get(sid)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.store.Create()
	if err != nil {
		s.logger.Warn("session refused", "err", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.metrics.SessionsActive.Set(float64(s.store.Len()))
	s.logger.Debug("session created", "sid", id)
	writeJSON(w, http.StatusCreated, snapshot(id, sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, snapshot(chi.URLParam(r, "sid"), sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if !s.store.Delete(sid) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	s.metrics.SessionsActive.Set(float64(s.store.Len()))
	s.logger.Debug("session deleted", "sid", sid)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, err := sess.AddState()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("add_state").Inc()
	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (s *Server) handleUpdateState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := stateID(w, r)
	if !ok {
		return
	}
	var req stateUpdate
	if !decodeBody(w, r, &req, false) {
		return
	}

	if err := sess.UpdateState(id, session.StateUpdate(req)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("update_state").Inc()
	writeJSON(w, http.StatusOK, snapshot(chi.URLParam(r, "sid"), sess))
}

func (s *Server) handleDeleteState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := stateID(w, r)
	if !ok {
		return
	}
	if err := sess.DeleteState(id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("delete_state").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTransition(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, ok := stateID(w, r)
	if !ok {
		return
	}
	var req transitionToggle
	if !decodeBody(w, r, &req, false) {
		return
	}
	if err := sess.ToggleTransition(id, req.Symbol, req.Target); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("toggle_transition").Inc()
	writeJSON(w, http.StatusOK, snapshot(chi.URLParam(r, "sid"), sess))
}

func (s *Server) handleAddSymbol(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req symbolRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	sym := req.Symbol
	var err error
	if sym == "" {
		sym, err = sess.AddNextSymbol()
	} else {
		err = sess.AddSymbol(sym)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("add_symbol").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"symbol": sym})
}

func (s *Server) handleRemoveSymbol(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sym, err := url.PathUnescape(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad symbol")
		return
	}
	if err := sess.RemoveSymbol(sym); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("remove_symbol").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetText(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	reg := sess.Registry()
	if err := reg.Check(); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", session.ErrNotConvertible, err))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, nfafile.EncodeTable(reg))
}

func (s *Server) handlePutText(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	if err := sess.ApplyText(string(body)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("apply_text").Inc()
	writeJSON(w, http.StatusOK, snapshot(chi.URLParam(r, "sid"), sess))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Undo(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("undo").Inc()
	writeJSON(w, http.StatusOK, snapshot(chi.URLParam(r, "sid"), sess))
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Redo(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Edits.WithLabelValues("redo").Inc()
	writeJSON(w, http.StatusOK, snapshot(chi.URLParam(r, "sid"), sess))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	d, err := sess.Convert()
	if err != nil {
		s.metrics.Conversions.WithLabelValues("refused").Inc()
		s.fail(w, r, err)
		return
	}
	s.metrics.Conversions.WithLabelValues("ok").Inc()
	s.metrics.DFAStates.Observe(float64(d.Len()))

	data, err := nfafile.DFAToJSON(d, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "dot"
	}
	target := q.Get("target")
	if target == "" {
		target = "nfa"
	}

	var g *nfafile.Graph
	switch target {
	case "nfa":
		g = nfafile.NFAGraph(sess.Registry())
	case "dfa":
		d, err := sess.Convert()
		if err != nil {
			s.fail(w, r, err)
			return
		}
		g = nfafile.DFAGraph(d)
	default:
		writeError(w, http.StatusBadRequest, "target must be nfa or dfa")
		return
	}

	switch format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = io.WriteString(w, nfafile.GenerateDOT(g, target))
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, nfafile.GenerateMermaid(g))
	default:
		writeError(w, http.StatusBadRequest, "format must be dot or mermaid")
	}
}

// fail maps a session or registry error to a status code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, nfa.ErrUnknownState):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotConvertible),
		errors.Is(err, session.ErrWrongMode),
		errors.Is(err, session.ErrNothingToUndo),
		errors.Is(err, session.ErrNothingToRedo):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotApplicable),
		errors.Is(err, nfa.ErrUnknownSymbol),
		errors.Is(err, nfa.ErrSymbolExists),
		errors.Is(err, nfa.ErrInvalidSymbol),
		errors.Is(err, nfa.ErrInvalidName),
		errors.Is(err, nfa.ErrEpsilonReserved),
		errors.Is(err, nfa.ErrAlphabetExhausted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func stateID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "state id must be an integer")
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON body into v. An empty body is accepted when
// optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func snapshot(id string, sess *session.Session) snapshotView {
	snap := sess.Snapshot()
	v := snapshotView{
		ID:          id,
		Alphabet:    snap.Alphabet,
		States:      make([]stateView, 0, len(snap.States)),
		Mode:        snap.Mode.String(),
		Convertible: snap.Convertible,
		Problem:     snap.Problem,
		CanUndo:     snap.CanUndo,
		CanRedo:     snap.CanRedo,
	}
	for _, st := range snap.States {
		sv := stateView{ID: st.ID, Name: st.Name, Initial: st.Initial, Final: st.Final}
		for sym, to := range st.Transitions {
			if len(to) == 0 {
				continue
			}
			if sv.Transitions == nil {
				sv.Transitions = make(map[string][]int)
			}
			sv.Transitions[sym] = to
		}
		v.States = append(v.States, sv)
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
