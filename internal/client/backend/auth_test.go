package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInWithPassword(t *testing.T) {
	var gotBody map[string]any
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"access_token":"tok123","expires_in":3600,"user":{"id":"u1","email":"a@b.c"}}`))
	})

	sess, err := c.SignInWithPassword(context.Background(), "a@b.c", "pw", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "grant_type=password", gotQuery)
	assert.Equal(t, "a@b.c", gotBody["email"])
	assert.Equal(t, float64(3600), gotBody["expires_in"])

	assert.Equal(t, "tok123", sess.AccessToken)
	assert.Equal(t, "u1", sess.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)
}

func TestSignIn_BadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"msg":"invalid login credentials"}`))
	})

	_, err := c.SignInWithPassword(context.Background(), "a@b.c", "wrong", time.Hour)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid login credentials", apiErr.Message)
}

func TestSignUp_SendsProfileData(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"access_token":"t","expires_in":60,"user":{"id":"u2","email":"n@e.w","full_name":"New User"}}`))
	})

	sess, err := c.SignUp(context.Background(), "n@e.w", "pw", "New User")
	require.NoError(t, err)

	data, ok := gotBody["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "New User", data["full_name"])
	assert.Equal(t, "u2", sess.User.ID)
}

func TestResetPasswordForEmail(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/recover", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	err := c.ResetPasswordForEmail(context.Background(), "a@b.c", "https://shop.example/reset-password")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/reset-password", gotBody["redirect_to"])
}

func TestUpdateUserAndSignOut(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path+" "+r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	c.SetAccessToken("tok")

	require.NoError(t, c.UpdateUser(context.Background(), UserPatch{Password: "newpw"}))
	require.NoError(t, c.SignOut(context.Background()))

	require.Len(t, calls, 2)
	assert.Equal(t, "PUT /auth/v1/user Bearer tok", calls[0])
	assert.Equal(t, "POST /auth/v1/logout Bearer tok", calls[1])
}
