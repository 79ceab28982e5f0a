package server

import (
	"net/http"
	"strings"

	"ednaviz/internal/dashboard"
	"ednaviz/internal/logger"
)

// SessionCookie carries the dashboard session id
const SessionCookie = "ednaviz_session"

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.Config.SessionTTL.Seconds()),
	})
}

// lookupSession returns the session named by the request cookie
func (s *Server) lookupSession(r *http.Request) (*dashboard.Session, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, dashboard.ErrSessionNotFound
	}
	return s.Sessions.Get(c.Value)
}

// session returns the caller's session, starting a new one when the cookie
// is missing or stale
func (s *Server) session(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	if sess, err := s.lookupSession(r); err == nil {
		return sess
	}
	sess := s.Sessions.Create()
	s.setSessionCookie(w, sess.ID)
	return sess
}

// HandleNewSession always starts a fresh session
func (s *Server) HandleNewSession(w http.ResponseWriter, r *http.Request) {
	if old, err := s.lookupSession(r); err == nil {
		s.Sessions.Close(old.ID)
	}
	sess := s.Sessions.Create()
	s.setSessionCookie(w, sess.ID)
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// HandleGetSession returns the session snapshot
func (s *Server) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session(w, r).Snapshot())
}

// HandleDeleteSession ends the session and clears the cookie
func (s *Server) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.Sessions.Close(sess.ID)
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

// HandleSelectChart switches the active chart
func (s *Server) HandleSelectChart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Chart string `json:"chart"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := s.session(w, r)
	if err := sess.Analytics.Select(req.Chart); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// HandleHover enters or leaves a data point of the active chart
func (s *Server) HandleHover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Series int  `json:"series"`
		Sample int  `json:"sample"`
		Leave  bool `json:"leave"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := s.session(w, r)
	if req.Leave {
		sess.Analytics.Leave()
	} else if err := sess.Analytics.Enter(req.Series, req.Sample); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// HandleSelectProject selects a project for the details panel
func (s *Server) HandleSelectProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := s.session(w, r)
	if err := sess.Projects.Select(req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// HandleModal opens or closes the new-project dialog
func (s *Server) HandleModal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Open bool `json:"open"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := s.session(w, r)
	if req.Open {
		sess.Projects.OpenNewProject()
	} else {
		sess.Projects.CloseNewProject()
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// HandleStartAnalysis starts the simulated analysis. Form posts from the
// dashboard page are redirected back to it.
func (s *Server) HandleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Monitor.StartAnalysis()
	s.log.Info("analysis started", logger.Fields{"session": sess.ID})

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, sess.Snapshot())
}

// HandleSelectSample highlights one row of the recent analyses
func (s *Server) HandleSelectSample(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := s.session(w, r)
	if err := sess.Monitor.SelectSample(req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}
