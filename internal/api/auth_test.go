package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_system/internal/utils"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	w := doRequest(t, r, http.MethodPost, "/users",
		map[string]any{"username": "Alice", "password": "password1"}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	// Usernames are lowercased before storage, so re-registering collides
	w = doRequest(t, r, http.MethodPost, "/users",
		map[string]any{"username": "alice", "password": "password1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing password", map[string]any{"username": "alice"}},
		{"non-alphabetic username", map[string]any{"username": "alice99", "password": "password1"}},
		{"short password", map[string]any{"username": "alice", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPost, "/users", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user := createUser(t, db, "alice")

	w := doRequest(t, r, http.MethodPost, "/users/login",
		map[string]any{"username": "alice", "password": "password1"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The issued token identifies the user
	claims, err := utils.ParseJWT(resp.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	createUser(t, db, "alice")

	w := doRequest(t, r, http.MethodPost, "/users/login",
		map[string]any{"username": "alice", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/users/login",
		map[string]any{"username": "nobody", "password": "password1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
