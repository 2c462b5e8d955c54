package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagmyidea/tagmyidea-web/pkg/client"
	"github.com/tagmyidea/tagmyidea-web/pkg/db"
	"github.com/tagmyidea/tagmyidea-web/pkg/session"
)

type fakeAPI struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newFakeAPI(t *testing.T, routes func(r chi.Router)) *fakeAPI {
	f := &fakeAPI{hits: make(map[string]int)}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.hits[r.Method+" "+r.URL.Path]++
			f.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})
	routes(r)
	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func loggedUser(following []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, map[string]any{"data": map[string]any{"user": map[string]any{
			"_id":       "me",
			"username":  "ada",
			"following": following,
			"followers": []string{},
		}}})
	}
}

// newApp builds the router over a fake backend. A token is stored when signedIn is set.
func newApp(t *testing.T, api *fakeAPI, signedIn bool) (http.Handler, *session.Session, db.Storage) {
	t.Helper()
	store := db.NewMemory()
	if signedIn {
		require.NoError(t, store.Set(db.TokenKey, "tok"))
	}
	c := client.New(api.URL, store)
	sess := session.New(c, store)
	sess.Init(context.Background())
	return newServer(sess, c, nil, nil).routes(), sess, store
}

func do(h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHomeSignedOutShowsHero(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/feed", func(w http.ResponseWriter, r *http.Request) {
			reply(w, 200, map[string]any{"data": map[string]any{"feed": []any{}}})
		})
	})
	app, _, _ := newApp(t, api, false)

	w, resp := do(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["signedIn"])
	assert.NotNil(t, resp["hero"])
	assert.Zero(t, api.count("GET /user/feed"))
}

func TestHomeEmptyFeed(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser([]string{}))
		r.Get("/user/feed", func(w http.ResponseWriter, r *http.Request) {
			reply(w, 200, map[string]any{"data": map[string]any{"feed": map[string]any{"ideas": []any{}}}})
		})
	})
	app, _, _ := newApp(t, api, true)

	w, resp := do(app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, api.count("GET /user/feed"))
	assert.Equal(t, true, resp["signedIn"])
	assert.Equal(t, "Your Feed (0 ideas)", resp["heading"])

	empty, ok := resp["empty"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "No ideas in your feed yet", empty["message"])
	assert.Equal(t, "/create", empty["action"])
}

func TestHomeRejectsUnknownDifficulty(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {})
	app, _, _ := newApp(t, api, false)

	w, _ := do(app, http.MethodGet, "/?difficulty=extreme", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpiredTokenRedirectsToLogin(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser(nil))
		r.Get("/user/feed", func(w http.ResponseWriter, r *http.Request) {
			reply(w, 401, map[string]string{"message": "jwt expired"})
		})
	})
	app, sess, store := newApp(t, api, true)
	require.NotNil(t, sess.User())

	w, resp := do(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", resp["redirect"])

	_, ok, _ := store.Get(db.TokenKey)
	assert.False(t, ok)
	assert.Nil(t, sess.User())
}

func TestProtectedRouteNeedsUser(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {})
	app, _, _ := newApp(t, api, false)

	w, resp := do(app, http.MethodGet, "/saved", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", resp["redirect"])
}

func TestFollowRejectedRevertsWithError(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser([]string{}))
		r.Post("/user/follow", func(w http.ResponseWriter, r *http.Request) {
			reply(w, 500, map[string]string{"message": "could not follow"})
		})
		r.Get("/user/fetch-list", func(w http.ResponseWriter, r *http.Request) {
			reply(w, 200, map[string]any{"data": map[string]any{"list": []any{
				map[string]any{"_id": "u2", "username": "grace"},
			}}})
		})
	})
	app, sess, _ := newApp(t, api, true)

	w, resp := do(app, http.MethodPost, "/user-list/u2/follow", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "could not follow", resp["error"])
	assert.Equal(t, true, resp["retry"])
	assert.Equal(t, 1, api.count("POST /user/follow"))
	assert.False(t, sess.User().IsFollowing("u2"))

	_, resp = do(app, http.MethodGet, "/user-list?ids=u2", "")
	following := resp["following"].(map[string]any)
	assert.Equal(t, false, following["u2"])
}

func TestFollowConfirmed(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser([]string{}))
		r.Post("/user/follow", func(w http.ResponseWriter, r *http.Request) {
			reply(w, 200, map[string]any{"success": true})
		})
	})
	app, sess, _ := newApp(t, api, true)

	w, resp := do(app, http.MethodPost, "/user-list/u2/follow", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["following"])
	assert.True(t, sess.User().IsFollowing("u2"))
}

func TestSaveToggleIssuesOneUpdate(t *testing.T) {
	var bodies []map[string]any
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser(nil))
		r.Put("/user/update-saved-ideas", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			bodies = append(bodies, body)
			reply(w, 200, map[string]any{"success": true})
		})
	})
	app, _, _ := newApp(t, api, true)

	w, resp := do(app, http.MethodPost, "/ideas/i1/save", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["saved"])
	require.Len(t, bodies, 1)
	assert.Equal(t, "i1", bodies[0]["ideaId"])
	assert.Equal(t, true, bodies[0]["save"])
}

func TestCreateIdea(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser(nil))
		r.Post("/idea/create", func(w http.ResponseWriter, r *http.Request) {
			reply(w, 201, map[string]any{"success": true})
		})
	})
	app, _, _ := newApp(t, api, true)

	w, _ := do(app, http.MethodPost, "/create", `{"title":"Chat","description":"rooms"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, api.count("POST /idea/create"))

	w, resp := do(app, http.MethodPost, "/create", `{"title":"Chat","description":"rooms","howToBuild":"ws","tags":"medium","techStack":["Go"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", resp["redirect"])
	assert.Equal(t, 1, api.count("POST /idea/create"))
}

func TestProfileNotFound(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser(nil))
	})
	app, _, _ := newApp(t, api, true)

	w, resp := do(app, http.MethodGet, "/profile/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", resp["error"])
}

func TestAuthCallbackSignsIn(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser(nil))
	})
	app, sess, store := newApp(t, api, false)
	require.Nil(t, sess.User())

	w, resp := do(app, http.MethodGet, "/auth/callback?token=abc%2E123", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", resp["redirect"])

	tok, _, _ := store.Get(db.TokenKey)
	assert.Equal(t, "abc.123", tok)
	require.NotNil(t, sess.User())
	assert.Equal(t, "me", sess.User().Id)

	w, _ = do(app, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, sess.User())
}

func TestNetworkFailure(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser(nil))
	})
	app, _, _ := newApp(t, api, true)
	api.Close()

	w, resp := do(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unable to reach server", resp["error"])
}

func TestUploadsDisabled(t *testing.T) {
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser(nil))
	})
	app, _, _ := newApp(t, api, true)

	w, _ := do(app, http.MethodPost, "/profile/photo", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = do(app, http.MethodGet, "/uploads/x", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHomeRetryAfterServerError(t *testing.T) {
	var calls int
	api := newFakeAPI(t, func(r chi.Router) {
		r.Get("/user/fetch-logged-user", loggedUser(nil))
		r.Get("/user/feed", func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				reply(w, 500, map[string]string{"message": "feed is down"})
				return
			}
			reply(w, 200, map[string]any{"data": map[string]any{"feed": []any{
				map[string]any{"_id": "i1", "title": "Chat", "tags": "easy"},
			}}})
		})
	})
	app, _, _ := newApp(t, api, true)

	w, resp := do(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, true, resp["retry"])

	w, resp = do(app, http.MethodGet, "/?retry=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, 2, api.count("GET /user/feed"))
}
