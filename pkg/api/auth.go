package api

import (
	"context"
	"log/slog"
	"net/http"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"url": s.client.SignInURL()})
}

func (s *Server) authCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		SendError(w, Error{err: "Missing token", code: http.StatusBadRequest})
		return
	}

	if err := s.signIn(r.Context(), token); err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, map[string]any{"redirect": "/", "user": s.sess.User()})
}

func (s *Server) signIn(ctx context.Context, token string) error {
	if err := s.sess.SignIn(ctx, token); err != nil {
		return err
	}
	if s.sess.User() != nil {
		slog.Info("Signed in", "user", s.sess.User().Id)
	}
	return nil
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Logout(); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, map[string]string{"redirect": "/"})
}

func (s *Server) triggerJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"triggered": s.client.TriggerJobs(r.Context())})
}
