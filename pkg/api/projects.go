package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tagmyidea/tagmyidea-web/pkg/feed"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/projects"
	"github.com/tagmyidea/tagmyidea-web/pkg/users"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
)

func (s *Server) CreateRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.EnsureUser)
	r.Get("/", s.draft)
	r.With(s.limiter.Limit).Post("/", s.createIdea)

	return r
}

func (s *Server) IdeaRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.EnsureUser)
	r.Use(s.limiter.Limit)
	r.Post("/{ideaId}/upvote", s.upvote)
	r.Post("/{ideaId}/save", s.save)

	return r
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := projects.Query{
		Filter: feed.NewFilter(query.Get("difficulty"), query.Get("category")),
		Sort:   feed.ParseSort(query.Get("sort")),
		Retry:  query.Get("retry") == "1",
	}
	if !q.Filter.Valid() {
		SendError(w, Error{err: "Unknown difficulty", code: http.StatusBadRequest})
		return
	}

	home, err := s.feed.Home(r.Context(), q, s.client.SignInURL(), s.now())
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, home)
}

func (s *Server) draft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.composer.Draft())
}

func (s *Server) createIdea(w http.ResponseWriter, r *http.Request) {
	var form models.IdeaForm
	if err := util.DecodeForm(r, &form); err != nil {
		SendError(w, InvalidForm)
		return
	}

	to, err := s.composer.Submit(r.Context(), form)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, map[string]string{"redirect": to})
}

func (s *Server) upvote(w http.ResponseWriter, r *http.Request) {
	count, err := s.feed.Upvote(r.Context(), chi.URLParam(r, "ideaId"))
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, map[string]int64{"upvotes": count})
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	saved, err := s.saves.Toggle(r.Context(), chi.URLParam(r, "ideaId"))
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, map[string]bool{"saved": saved})
}

func (s *Server) saved(w http.ResponseWriter, r *http.Request) {
	cards, err := s.saves.Saved(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, map[string]any{"ideas": cards, "count": len(cards)})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	typ := feed.ParseSearchType(r.URL.Query().Get("type"))

	if typ == feed.TypeIdea {
		cards, err := s.feed.Search(r.Context(), q)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, map[string]any{"type": typ, "query": q, "ideas": cards})
		return
	}

	// people search covers who the user already knows of
	me := currentUser(r)
	ids := util.ParseIds(strings.Join(append(me.Following, me.Followers...), ","))
	list, err := users.Connections(r.Context(), s.client, ids, "")
	if err != nil {
		s.fail(w, err)
		return
	}

	results := feed.SearchProfiles(list, q)
	s.follows.Seed(results)
	writeJSON(w, map[string]any{"type": typ, "query": q, "users": results, "following": s.follows.States()})
}
