package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/validate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer svc", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["access_token"] != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(ValidateResponse{UserID: "u1", Name: "Ada", Email: "ada@example.com"})
	}))
	defer srv.Close()

	client := NewAuthServiceClient(srv.URL+"/", "svc")

	resp, err := client.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, "Ada", resp.Name)

	_, err = client.ValidateToken(context.Background(), "bad")
	assert.Error(t, err)
}

func TestValidateToken_EmptyUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"nobody"}`))
	}))
	defer srv.Close()

	_, err := NewAuthServiceClient(srv.URL, "").ValidateToken(context.Background(), "tok")
	assert.Error(t, err)
}
