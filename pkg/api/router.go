package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/tagmyidea/tagmyidea-web/pkg/client"
	"github.com/tagmyidea/tagmyidea-web/pkg/db"
	"github.com/tagmyidea/tagmyidea-web/pkg/projects"
	"github.com/tagmyidea/tagmyidea-web/pkg/session"
	"github.com/tagmyidea/tagmyidea-web/pkg/uploads"
	"github.com/tagmyidea/tagmyidea-web/pkg/users"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
	"golang.org/x/time/rate"
)

// Server serves every page of the app as JSON for one session.
type Server struct {
	sess     *session.Session
	client   *client.Client
	follows  *users.Follows
	editor   *users.Editor
	saves    *projects.Saves
	feed     *projects.Feed
	composer *projects.Composer
	limiter  *IPRateLimiter

	store  uploads.Store
	index  *sql.DB
	bucket string
	now    func() time.Time
}

func newServer(sess *session.Session, c *client.Client, store uploads.Store, index *sql.DB) *Server {
	saves := projects.NewSaves(c, sess)
	s := &Server{
		sess:     sess,
		client:   c,
		follows:  users.NewFollows(c, sess),
		editor:   users.NewEditor(c, sess),
		saves:    saves,
		feed:     projects.NewFeed(c, sess, saves),
		composer: projects.NewComposer(c),
		store:    store,
		index:    index,
		now:      time.Now,
	}
	limit := rate.Limit(util.Config.RateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}
	s.limiter = NewIPRateLimiter(limit, max(util.Config.RateBurst, 1))

	if util.Config.Minio != nil {
		s.bucket = util.Config.Minio.Bucket
	}
	return s
}

func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"startTime": "%d", "version": "%s"}`, util.Config.StartTime, util.Config.Version)
}

func Router(sess *session.Session, c *client.Client) *chi.Mux {
	var store uploads.Store
	if db.Uploads != nil {
		store = uploads.Minio(db.Uploads)
	}
	return newServer(sess, c, store, db.Db).routes()
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	origin := util.Config.FrontendUrl
	if origin == "" {
		origin = "*"
	}

	cors := cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r.Use(cors.Handler)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	r.Options("/*", func(w http.ResponseWriter, r *http.Request) {})
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {})
	r.Get("/status", Root)

	r.Get("/", s.home)
	r.Get("/login", s.login)
	r.Get("/auth/callback", s.authCallback)
	r.Post("/logout", s.logout)
	r.Post("/jobs/trigger", s.triggerJobs)
	r.Get("/uploads/{id}", s.download)

	r.Group(func(r chi.Router) {
		r.Use(s.EnsureUser)
		r.Get("/saved", s.saved)
		r.Get("/search", s.search)
	})

	r.Mount("/create", s.CreateRouter())
	r.Mount("/ideas", s.IdeaRouter())
	r.Mount("/profile", s.ProfileRouter())
	r.Mount("/user-list", s.UserListRouter())

	return r
}
