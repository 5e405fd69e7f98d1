package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweeteroo/config"
	"tweeteroo/controller"
	"tweeteroo/model"
	"tweeteroo/repository"
	"tweeteroo/repository/repotest"
)

// setupTestServer wires the full container against in-memory storage.
func setupTestServer(t *testing.T) (*httptest.Server, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	cfg := config.Config{App: config.AppConfig{Env: "test"}}

	container, err := buildContainer(cfg, []any{
		func() repository.UserRepository { return store.Users() },
		func() repository.TweetRepository { return store.Tweets() },
		func() controller.Pinger {
			return controller.PingerFunc(func(context.Context) error { return store.Failure() })
		},
	})
	require.NoError(t, err)

	var handler http.Handler
	require.NoError(t, container.Invoke(func(h http.Handler) { handler = h }))

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func signUp(t *testing.T, ts *httptest.Server, username, avatar string) model.User {
	t.Helper()
	resp, body := do(t, ts, http.MethodPost, "/sign-up", `{"username":"`+username+`","avatar":"`+avatar+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var u model.User
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	return u
}

func postTweet(t *testing.T, ts *httptest.Server, username, text string) model.Tweet {
	t.Helper()
	resp, body := do(t, ts, http.MethodPost, "/tweets", `{"username":"`+username+`","tweet":"`+text+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var tw model.Tweet
	require.NoError(t, json.Unmarshal([]byte(body), &tw))
	return tw
}

func feed(t *testing.T, ts *httptest.Server) []model.FeedItem {
	t.Helper()
	resp, body := do(t, ts, http.MethodGet, "/tweets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var items []model.FeedItem
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	return items
}

func TestSignUp(t *testing.T) {
	ts, store := setupTestServer(t)

	u := signUp(t, ts, "ana", "https://x.test/a.png")
	assert.False(t, u.ID.IsZero())
	assert.Equal(t, "ana", u.Username)
	assert.Equal(t, "https://x.test/a.png", u.Avatar)

	resp, _ := do(t, ts, http.MethodPost, "/users", `{"username":"bob","avatar":"https://x.test/b.png"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, store.UserCount())

	t.Run("missing avatar", func(t *testing.T) {
		resp, body := do(t, ts, http.MethodPost, "/sign-up", `{"username":"carl"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, `"avatar" is required`, body)
		assert.Equal(t, 2, store.UserCount())
	})

	t.Run("uri with a space", func(t *testing.T) {
		resp, body := do(t, ts, http.MethodPost, "/sign-up", `{"username":"carl","avatar":"https://x.test/a b.png"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, `"avatar" must be a valid uri`, body)
		assert.Equal(t, 2, store.UserCount())
	})

	t.Run("malformed uri", func(t *testing.T) {
		resp, body := do(t, ts, http.MethodPost, "/sign-up", `{"username":"carl","avatar":"nope"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, `"avatar" must be a valid uri`, body)
		assert.Equal(t, 2, store.UserCount())
	})

	t.Run("malformed json", func(t *testing.T) {
		resp, _ := do(t, ts, http.MethodPost, "/sign-up", `{"username":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("storage failure hides the cause", func(t *testing.T) {
		store.SetErr(errors.New("socket closed by peer"))
		defer store.SetErr(nil)
		resp, body := do(t, ts, http.MethodPost, "/sign-up", `{"username":"carl","avatar":"https://x.test/c.png"}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, body, "socket")
	})
}

func TestCreateTweet(t *testing.T) {
	ts, store := setupTestServer(t)

	t.Run("unknown user", func(t *testing.T) {
		resp, _ := do(t, ts, http.MethodPost, "/tweets", `{"username":"ghost","tweet":"boo"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, 0, store.TweetCount())
	})

	t.Run("validation before lookup", func(t *testing.T) {
		resp, body := do(t, ts, http.MethodPost, "/tweets", `{"username":"ghost","tweet":""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, `"tweet" is not allowed to be empty`, body)
	})

	signUp(t, ts, "ana", "https://x.test/a.png")
	tw := postTweet(t, ts, "ana", "hello")
	assert.False(t, tw.ID.IsZero())
	assert.Equal(t, "ana", tw.Username)
	assert.Equal(t, "hello", tw.Tweet)
	assert.Equal(t, 1, store.TweetCount())
}

func TestFeed(t *testing.T) {
	ts, store := setupTestServer(t)
	assert.Empty(t, feed(t, ts))

	signUp(t, ts, "ana", "https://x.test/a.png")
	tw := postTweet(t, ts, "ana", "hello")

	items := feed(t, ts)
	require.Len(t, items, 1)
	assert.Equal(t, model.FeedItem{ID: tw.ID, Username: "ana", Avatar: "https://x.test/a.png", Tweet: "hello"}, items[0])

	signUp(t, ts, "bob", "https://x.test/b.png")
	var posted []model.Tweet
	for _, text := range []string{"one", "two", "three"} {
		posted = append(posted, postTweet(t, ts, "bob", text))
	}
	items = feed(t, ts)
	require.Len(t, items, 4)
	assert.Equal(t, posted[2].ID, items[0].ID)
	assert.Equal(t, posted[1].ID, items[1].ID)
	assert.Equal(t, posted[0].ID, items[2].ID)
	assert.Equal(t, tw.ID, items[3].ID)
	assert.Equal(t, "https://x.test/b.png", items[0].Avatar)

	t.Run("storage failure", func(t *testing.T) {
		store.SetErr(errors.New("boom"))
		defer store.SetErr(nil)
		resp, body := do(t, ts, http.MethodGet, "/tweets", "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, body, "boom")
	})
}

func TestUpdateTweet(t *testing.T) {
	ts, _ := setupTestServer(t)
	signUp(t, ts, "ana", "https://x.test/a.png")
	tw := postTweet(t, ts, "ana", "before")
	path := "/tweets/" + tw.ID.Hex()

	resp, body := do(t, ts, http.MethodPut, path, `{"tweet":"after"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)

	items := feed(t, ts)
	require.Len(t, items, 1)
	assert.Equal(t, "after", items[0].Tweet)

	t.Run("empty tweet", func(t *testing.T) {
		resp, body := do(t, ts, http.MethodPut, path, `{"tweet":""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		var msgs []string
		require.NoError(t, json.Unmarshal([]byte(body), &msgs))
		assert.Equal(t, []string{`"tweet" is not allowed to be empty`}, msgs)
	})

	t.Run("unknown id", func(t *testing.T) {
		missing := "/tweets/000000000000000000000000"
		resp, body := do(t, ts, http.MethodPut, missing, `{"tweet":"x"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Empty(t, body)

		resp, _ = do(t, ts, http.MethodPut, missing, `{"tweet":""}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, body = do(t, ts, http.MethodPut, missing, `{"tweet":`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Empty(t, body)
	})

	t.Run("malformed json on existing tweet", func(t *testing.T) {
		resp, _ := do(t, ts, http.MethodPut, path, `{"tweet":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("null tweet", func(t *testing.T) {
		resp, body := do(t, ts, http.MethodPut, path, `{"tweet":null}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.JSONEq(t, `["\"tweet\" must be a string"]`, body)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, _ := do(t, ts, http.MethodPut, "/tweets/not-an-id", `{"tweet":"x"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteTweet(t *testing.T) {
	ts, store := setupTestServer(t)
	signUp(t, ts, "ana", "https://x.test/a.png")
	tw := postTweet(t, ts, "ana", "bye")
	path := "/tweets/" + tw.ID.Hex()

	resp, body := do(t, ts, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, 0, store.TweetCount())

	resp, _ = do(t, ts, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodDelete, "/tweets/xyz", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMiddleware(t *testing.T) {
	ts, store := setupTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	store.SetErr(errors.New("down"))
	resp, _ = do(t, ts, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	store.SetErr(nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/tweets", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	req.Header.Set("Origin", "https://front.test")
	r, err := ts.Client().Do(req)
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, "abc-123", r.Header.Get("X-Request-ID"))
	assert.Equal(t, "*", r.Header.Get("Access-Control-Allow-Origin"))
}
