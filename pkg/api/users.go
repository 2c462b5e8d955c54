package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/users"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
)

func (s *Server) ProfileRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.CallbackToken)
	r.Group(func(r chi.Router) {
		r.Use(s.EnsureUser)
		r.Get("/", s.profile)
		r.Put("/", s.updateProfile)
		r.Post("/edit", s.editProfile)
		r.Post("/cancel", s.cancelEdit)
		r.With(s.limiter.Limit).Post("/photo", s.uploadPhoto)
	})
	r.Get("/{userId}", s.profile)

	return r
}

func (s *Server) UserListRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", s.userList)
	r.With(s.EnsureUser, s.limiter.Limit).Post("/{userId}/follow", s.follow)

	return r
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")

	p, err := users.LoadProfile(r.Context(), s.client, s.sess, id)
	if err != nil {
		s.fail(w, err)
		return
	}

	if p.Own {
		p.Editing = s.editor.Editing()
	} else if s.sess.User() != nil {
		s.follows.Seed([]models.SimpleProfile{{Id: p.User.Id, Username: p.User.Username}})
		p.IsFollowing = s.follows.IsFollowing(p.User.Id)
	}

	writeJSON(w, p)
}

func (s *Server) editProfile(w http.ResponseWriter, r *http.Request) {
	s.editor.Edit()
	writeJSON(w, map[string]bool{"editing": true})
}

func (s *Server) cancelEdit(w http.ResponseWriter, r *http.Request) {
	s.editor.Cancel()
	writeJSON(w, map[string]bool{"editing": false})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var form models.ProfileForm
	if err := util.DecodeForm(r, &form); err != nil {
		SendError(w, InvalidForm)
		return
	}

	u, err := s.editor.Save(r.Context(), form)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, map[string]any{"user": u, "editing": false})
}

func (s *Server) userList(w http.ResponseWriter, r *http.Request) {
	ids := util.ParseIds(r.URL.Query().Get("ids"))

	list, err := users.Connections(r.Context(), s.client, ids, r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, err)
		return
	}

	s.follows.Seed(list)
	writeJSON(w, map[string]any{"users": list, "following": s.follows.States()})
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request) {
	following, err := s.follows.Toggle(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, map[string]bool{"following": following})
}
