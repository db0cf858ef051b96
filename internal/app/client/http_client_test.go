package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"aggyweb/internal/config"
	"aggyweb/internal/model"
	"aggyweb/internal/schema"
)

const (
	testUserID = "1d2c3b4a-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	testPostID = "2e3d4c5b-6f7a-4b8c-9d0e-1f2a3b4c5d6e"
)

type upstream struct {
	t        *testing.T
	srv      *httptest.Server
	requests atomic.Int32
	api      *APIClient
	metrics  *Metrics
}

func newUpstream(t *testing.T, routes func(r chi.Router)) *upstream {
	t.Helper()

	u := &upstream{t: t}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			u.requests.Add(1)
			next.ServeHTTP(w, req)
		})
	})
	routes(r)

	u.srv = httptest.NewServer(r)
	t.Cleanup(u.srv.Close)

	cfg := &config.Config{
		Aggy:    config.Upstream{BaseURL: u.srv.URL, ServiceSecret: "aggy-secret", Timeout: 5 * time.Second},
		Epigram: config.Upstream{BaseURL: u.srv.URL, ServiceSecret: "epigram-secret", Timeout: 5 * time.Second},
	}
	u.metrics = NewMetrics(prometheus.NewRegistry())
	u.api = NewAPIClient(cfg, schema.New(), u.metrics, slog.Default())
	return u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func userJSON(username string) map[string]any {
	return map[string]any{
		"id":        testUserID,
		"createdAt": "2024-01-01T00:00:00Z",
		"updatedAt": "2024-01-01T00:00:00Z",
		"username":  username,
		"email":     nil,
		"pubKey":    "pk",
	}
}

func TestRegister_EchoesUsername(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {
		r.Post("/users", func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body model.CreateUserBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusCreated, userJSON(body.Username))
		})
	})

	for _, name := range []string{"bobby", "alice_b", "x1-y2-z3", "abcdefghijklmnopqrstuvwxyz012345"} {
		user, err := u.api.Aggy.Register(context.Background(), model.CreateUserBody{Username: name, Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, name, user.Username)
	}
}

func TestRegister_InvalidInputNeverLeaves(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {
		r.Post("/users", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusCreated, userJSON("never"))
		})
	})

	inputs := []model.CreateUserBody{
		{Username: "abcd", Password: "short", Email: model.Optional("x@x.com")},
		{Username: "bobby", Password: "1234567"},
		{Username: "has space", Password: "password1"},
		{Username: "abcdefghijklmnopqrstuvwxyz0123456", Password: "password1"},
	}

	for _, in := range inputs {
		_, err := u.api.Aggy.Register(context.Background(), in)
		var verr *schema.ValidationError
		require.ErrorAs(t, err, &verr, "input %+v", in)
	}

	_, err := u.api.Aggy.Register(context.Background(), inputs[0])
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "username")

	assert.Zero(t, u.requests.Load())
	assert.Equal(t, float64(len(inputs)+1),
		testutil.ToFloat64(u.metrics.requests.WithLabelValues("aggy", "register", outcomeInvalid)))
}

func TestRegister_UsernameOccupied(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {
		r.Post("/users", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "usernameOccupied", "username": "bobby"})
		})
	})

	_, err := u.api.Aggy.Register(context.Background(), model.CreateUserBody{Username: "bobby", Password: "password1"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, schema.CodeUsernameOccupied, apiErr.Code)
	assert.Equal(t, "bobby", apiErr.Variant.(schema.UsernameOccupied).Username)
	assert.Equal(t, schema.CodeUsernameOccupied, schema.CodeOf(err))
}

func TestGetPost_Absent(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantAbsent bool
		check      func(t *testing.T, err error)
	}{
		{
			name: "404 notFound is absent",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]any{"error": "notFound", "id": testPostID})
			},
			wantAbsent: true,
		},
		{
			name: "404 without JSON is opaque",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("<h1>nginx</h1>"))
			},
			check: func(t *testing.T, err error) {
				var opaque *OpaqueError
				require.ErrorAs(t, err, &opaque)
				assert.Equal(t, http.StatusNotFound, opaque.Status)
				assert.Equal(t, "<h1>nginx</h1>", opaque.Message)
				assert.Empty(t, schema.CodeOf(err))
			},
		},
		{
			name: "500 internal is structured",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal", "message": "db down"})
			},
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, schema.CodeInternal, apiErr.Code)
				assert.Equal(t, "db down", apiErr.Variant.(schema.Internal).Message)
			},
		},
		{
			name: "400 notFound is not absent",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "notFound", "id": testPostID})
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
			},
		},
		{
			name: "problem+json keeps code",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal","message":"x"}`))
			},
			check: func(t *testing.T, err error) {
				assert.Equal(t, schema.CodeInternal, schema.CodeOf(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpstream(t, func(r chi.Router) {
				r.Get("/posts/{id}", tt.handler)
			})

			post, ok, err := u.api.Aggy.GetPost(context.Background(), testPostID, true)
			if tt.wantAbsent {
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Nil(t, post)
				return
			}
			require.Error(t, err)
			assert.False(t, ok)
			tt.check(t, err)
		})
	}
}

func TestGetSession_ServiceSecretAndContract(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {
		r.Get("/web/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer aggy-secret", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{"id": chi.URLParam(r, "id")})
		})
	})

	_, err := u.api.Aggy.GetSession(context.Background(), testUserID)
	var cerr *schema.ContractError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, schema.GetSession, cerr.Endpoint)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(u.metrics.requests.WithLabelValues("aggy", "getSession", outcomeContract)))
}

func TestUserTokenRequired(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {})

	_, err := u.api.Aggy.CreatePost(context.Background(), model.CreatePostBody{Title: "t"}, "")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = u.api.Aggy.Reply(context.Background(), "parent", model.ReplyBody{Body: "hi"}, "")
	require.ErrorIs(t, err, ErrMissingToken)

	assert.Zero(t, u.requests.Load())
}

// threads - поддельные aggy и epigram с общим деревом грам.
type threads struct {
	mu    sync.Mutex
	seq   int
	grams map[string]*model.Gram
	kids  map[string][]string
}

func (th *threads) add(content string, parent *string) *model.Gram {
	th.mu.Lock()
	defer th.mu.Unlock()

	th.seq++
	g := &model.Gram{
		ID:           fmt.Sprintf("g%d", th.seq),
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, th.seq, 0, time.UTC),
		Content:      content,
		Coty:         "text/plain",
		ParentID:     parent,
		AuthorPubkey: "pk",
		Sig:          "sig",
	}
	th.grams[g.ID] = g
	if parent != nil {
		th.kids[*parent] = append(th.kids[*parent], g.ID)
	}
	return g
}

func (th *threads) tree(id string) model.Gram {
	th.mu.Lock()
	g := *th.grams[id]
	kids := append([]string(nil), th.kids[id]...)
	th.mu.Unlock()

	for _, k := range kids {
		g.Replies = append(g.Replies, th.tree(k))
	}
	n := len(g.Replies)
	g.ReplyCount = &n
	return g
}

func TestGramTree_RoundTrip(t *testing.T) {
	th := &threads{grams: map[string]*model.Gram{}, kids: map[string][]string{}}

	u := newUpstream(t, func(r chi.Router) {
		r.Post("/posts", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
			var in model.CreatePostBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			root := th.add(in.Title, nil)
			writeJSON(w, http.StatusCreated, model.Post{
				ID: testPostID, CreatedAt: root.CreatedAt, UpdatedAt: root.CreatedAt,
				EpigramID: root.ID, Title: in.Title, AuthorUsername: "bobby", AuthorPubKey: "pk",
			})
		})
		r.Post("/grams/{id}/replies", func(w http.ResponseWriter, r *http.Request) {
			parent := chi.URLParam(r, "id")
			var in model.ReplyBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			writeJSON(w, http.StatusCreated, th.add(in.Body, &parent))
		})
		r.Get("/grams/{id}", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer epigram-secret", r.Header.Get("Authorization"))
			assert.Equal(t, "true", r.URL.Query().Get("includeReplies"))
			writeJSON(w, http.StatusOK, th.tree(chi.URLParam(r, "id")))
		})
	})

	ctx := context.Background()
	post, err := u.api.Aggy.CreatePost(ctx, model.CreatePostBody{Title: "hello"}, "user-token")
	require.NoError(t, err)

	a, err := u.api.Aggy.Reply(ctx, post.EpigramID, model.ReplyBody{Body: "first"}, "user-token")
	require.NoError(t, err)
	_, err = u.api.Aggy.Reply(ctx, post.EpigramID, model.ReplyBody{Body: "second"}, "user-token")
	require.NoError(t, err)
	_, err = u.api.Aggy.Reply(ctx, a.ID, model.ReplyBody{Body: "nested"}, "user-token")
	require.NoError(t, err)

	root, ok, err := u.api.Epigram.GetGram(ctx, post.EpigramID, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, root.Replies, 2)

	nodes := 0
	var check func(g model.Gram)
	check = func(g model.Gram) {
		for _, r := range g.Replies {
			require.NotNil(t, r.ParentID)
			assert.Equal(t, g.ID, *r.ParentID)
			check(r)
		}
	}
	check(*root)
	root.Walk(func(model.Gram, int) bool { nodes++; return true })
	assert.Equal(t, 4, nodes)
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("application/json"))
	assert.True(t, isJSON("application/json; charset=utf-8"))
	assert.True(t, isJSON("application/problem+json"))
	assert.False(t, isJSON("text/plain"))
	assert.False(t, isJSON("text/json"))
	assert.False(t, isJSON(""))
}

func postJSON(title string, epigram *model.Gram) model.Post {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.Post{
		ID: testPostID, CreatedAt: created, UpdatedAt: created,
		EpigramID: "g1", Title: title, AuthorUsername: "bobby", AuthorPubKey: "pk",
		Epigram: epigram,
	}
}

func TestListPosts_QueryAndServiceSecret(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {
		r.Get("/posts", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer aggy-secret", r.Header.Get("Authorization"))
			q := r.URL.Query()
			assert.Equal(t, "20", q.Get("limit"))
			assert.Equal(t, "golang", q.Get("filter"))
			assert.Equal(t, "c1", q.Get("afterCursor"))
			assert.Equal(t, "createdAt", q.Get("sortingField"))
			assert.Equal(t, "descending", q.Get("sortingOrder"))
			assert.Equal(t, "user-token", q.Get("authToken"))
			assert.False(t, q.Has("beforeCursor"))

			writeJSON(w, http.StatusOK, map[string]any{
				"items":  []model.Post{postJSON("hello", nil)},
				"cursor": "c2",
			})
		})
	})

	limit := 20
	field := model.SortByCreatedAt
	order := model.Descending
	res, err := u.api.Aggy.ListPosts(context.Background(), model.ListPostsQuery{
		AuthToken:    model.Optional("user-token"),
		Limit:        &limit,
		AfterCursor:  model.Optional("c1"),
		Filter:       model.Optional("golang"),
		SortingField: &field,
		SortingOrder: &order,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "hello", res.Items[0].Title)
	require.NotNil(t, res.Cursor)
	assert.Equal(t, "c2", *res.Cursor)
	assert.EqualValues(t, 1, u.requests.Load())
}

func TestListPosts_LimitCheckedLocally(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {
		r.Get("/posts", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"items": []model.Post{}})
		})
	})

	for _, limit := range []int{0, 101} {
		l := limit
		_, err := u.api.Aggy.ListPosts(context.Background(), model.ListPostsQuery{Limit: &l})
		var verr *schema.ValidationError
		require.ErrorAs(t, err, &verr, "limit %d", limit)
		assert.Contains(t, verr.Fields(), "limit")
	}
	assert.Zero(t, u.requests.Load())

	l := 100
	res, err := u.api.Aggy.ListPosts(context.Background(), model.ListPostsQuery{Limit: &l})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestGetPost_WithReplies(t *testing.T) {
	parent := "g1"
	one := 1
	tree := &model.Gram{
		ID: "g1", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Content: "hello",
		Coty: "text/plain", AuthorPubkey: "pk", Sig: "sig", ReplyCount: &one,
		Replies: []model.Gram{{
			ID: "g2", CreatedAt: time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC), Content: "first",
			Coty: "text/plain", ParentID: &parent, AuthorPubkey: "pk", Sig: "sig",
		}},
	}

	u := newUpstream(t, func(r chi.Router) {
		r.Get("/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, testPostID, chi.URLParam(r, "id"))
			assert.Equal(t, "true", r.URL.Query().Get("includeReplies"))
			writeJSON(w, http.StatusOK, postJSON("hello", tree))
		})
	})

	post, ok, err := u.api.Aggy.GetPost(context.Background(), testPostID, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, post.Epigram)
	require.Len(t, post.Epigram.Replies, 1)
	assert.Equal(t, "first", post.Epigram.Replies[0].Content)
	assert.False(t, post.Epigram.Replies[0].IsRoot())
	assert.Equal(t, float64(1),
		testutil.ToFloat64(u.metrics.requests.WithLabelValues("aggy", "getPost", outcomeOK)))
}

func TestCreateGram(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {
		r.Post("/grams", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer epigram-secret", r.Header.Get("Authorization"))
			var in model.CreateGramBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			writeJSON(w, http.StatusCreated, model.Gram{
				ID: in.ID, CreatedAt: in.CreatedAt, Content: in.Content, Coty: in.Coty,
				ParentID: in.ParentID, AuthorPubkey: in.AuthorPubkey, Sig: in.Sig,
			})
		})
	})

	in := model.CreateGramBody{
		ID:           "g9",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Content:      "signed elsewhere",
		Coty:         "text/plain",
		AuthorPubkey: "pk",
		Sig:          "sig",
	}
	g, err := u.api.Epigram.CreateGram(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "g9", g.ID)
	assert.True(t, g.IsRoot())

	unsigned := in
	unsigned.Sig = ""
	_, err = u.api.Epigram.CreateGram(context.Background(), unsigned)
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "sig")
	assert.EqualValues(t, 1, u.requests.Load())
}

func TestResponseTooLarge(t *testing.T) {
	u := newUpstream(t, func(r chi.Router) {
		r.Get("/grams/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"content":"`))
			_, _ = w.Write(bytes.Repeat([]byte("a"), maxBodySize))
			_, _ = w.Write([]byte(`"}`))
		})
	})

	_, _, err := u.api.Epigram.GetGram(context.Background(), "g1", false)
	require.ErrorIs(t, err, ErrResponseTooLarge)

	var cerr *schema.ContractError
	assert.False(t, errors.As(err, &cerr))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(u.metrics.requests.WithLabelValues("epigram", "getGram", outcomeTooLarge)))
}
