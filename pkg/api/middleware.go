package api

import (
	"context"
	"net/http"

	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

type userKey struct{}

var User = userKey{}

// EnsureUser rejects the request unless the session has a signed-in user.
func (s *Server) EnsureUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := s.sess.User()
		if u == nil {
			SendError(w, Unauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), User, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) *models.User {
	return r.Context().Value(User).(*models.User)
}

// CallbackToken signs in with a ?token= handed back by the sign-in redirect
// before the request is served.
func (s *Server) CallbackToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("token"); token != "" {
			if err := s.signIn(r.Context(), token); err != nil {
				s.fail(w, err)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
