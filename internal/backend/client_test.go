package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL + "/", AnonKey: "anon"})
}

func TestNotConfigured(t *testing.T) {
	c := New(Config{})
	assert.False(t, c.Configured())

	_, err := c.SignIn(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.List(context.Background(), "", "user-media", "u1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var body credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body.Email)
		assert.Equal(t, "secret", body.Password)

		_, _ = w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","expires_in":3600,"user":{"id":"u1","email":"a@b.c","user_metadata":{"name":"Ann"}}}`))
	})

	sess, err := c.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.AccessToken)
	assert.Equal(t, "u1", sess.User.ID)
	assert.Equal(t, "Ann", sess.User.Name())
}

func TestSignInError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignIn(context.Background(), "a@b.c", "bad")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid_grant", apiErr.Code)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
	assert.False(t, IsAlreadyRegistered(err))
}

func TestSignUp(t *testing.T) {
	t.Run("with session", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/signup", r.URL.Path)
			var body credentials
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Ann", body.Data["name"])
			_, _ = w.Write([]byte(`{"access_token":"tok","user":{"id":"u1","email":"a@b.c"}}`))
		})
		user, sess, err := c.SignUp(context.Background(), "a@b.c", "secret", "Ann")
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("confirmation required", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"u2","email":"b@b.c"}`))
		})
		user, sess, err := c.SignUp(context.Background(), "b@b.c", "secret", "Bo")
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, "u2", user.ID)
	})

	t.Run("already registered", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
		})
		_, _, err := c.SignUp(context.Background(), "a@b.c", "secret", "Ann")
		assert.True(t, IsAlreadyRegistered(err))
	})
}

func TestUserUsesAccessToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.c"}`))
	})
	u, err := c.User(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
}

func TestStorage(t *testing.T) {
	var uploaded []byte
	var removed []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/storage/v1/object/user-media/u1/before/1_a.jpg":
			assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
			assert.Equal(t, "false", r.Header.Get("x-upsert"))
			uploaded, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{"Key":"user-media/u1/before/1_a.jpg"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/storage/v1/object/list/user-media":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "u1/before", body["prefix"])
			_, _ = w.Write([]byte(`[{"name":"1_a.jpg","id":"x","metadata":{"size":3,"mimetype":"image/jpeg"}},{"name":"sub","id":""}]`))
		case r.Method == http.MethodDelete && r.URL.Path == "/storage/v1/object/user-media":
			var body map[string][]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			removed = body["prefixes"]
			_, _ = w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	require.NoError(t, c.Upload(ctx, "tok", "user-media", "u1/before/1_a.jpg", []byte("abc"), "image/jpeg"))
	assert.Equal(t, []byte("abc"), uploaded)

	objects, err := c.List(ctx, "tok", "user-media", "/u1/before/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, int64(3), objects[0].Metadata.Size)
	assert.False(t, objects[0].IsFolder())
	assert.True(t, objects[1].IsFolder())

	require.NoError(t, c.Remove(ctx, "tok", "user-media", []string{"u1/before/1_a.jpg"}))
	assert.Equal(t, []string{"u1/before/1_a.jpg"}, removed)
}

func TestPublicURL(t *testing.T) {
	c := New(Config{URL: "https://proj.example.co/", AnonKey: "k"})
	assert.Equal(t,
		"https://proj.example.co/storage/v1/object/public/user-media/u1/progress/1_my%20pic.jpg",
		c.PublicURL("user-media", "u1/progress/1_my pic.jpg"))
}
