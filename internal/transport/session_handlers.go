package transport

import (
	"errors"
	"net/http"

	"github.com/torrejon/vecinored/internal/domain/session"
)

type loginResponse struct {
	User  session.UserSession `json:"user"`
	Token string              `json:"token"`
}

type logoutResponse struct {
	State session.LogoutState `json:"state"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := s.sessions.Login(r.Context(), creds)
	if err != nil {
		if errors.Is(err, session.ErrAuthFailed) {
			writeError(w, http.StatusUnauthorized, "credenciales no válidas")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := s.tokens.Issue(user.Name)
	if err != nil {
		s.logger.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: *user, Token: token})
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, _ *http.Request) {
	current, ok := s.sessions.Current()
	if !ok {
		writeError(w, http.StatusUnauthorized, session.ErrNoSession.Error())
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.RequestLogout(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, logoutResponse{State: state})
}
