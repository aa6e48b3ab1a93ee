package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "missing uses default", query: "", want: 50},
		{name: "garbage uses default", query: "limit=muitos", want: 50},
		{name: "float uses default", query: "limit=2.5", want: 50},
		{name: "in range", query: "limit=25", want: 25},
		{name: "below min clamps", query: "limit=0", want: 1},
		{name: "negative clamps", query: "limit=-10", want: 1},
		{name: "above max clamps", query: "limit=99999", want: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?"+tt.query, nil)
			assert.Equal(t, tt.want, parseIntParam(r, "limit", 50, 1, 200))
		})
	}
}

func TestHandleAPICSRF(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	auth := testAuth()

	rec := httptest.NewRecorder()
	r := withAuth(httptest.NewRequest(http.MethodGet, "/api/v1/csrf", nil), auth)
	s.handleAPICSRF(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	assert.True(t, s.verifyCSRF(resp.Token, auth.Token))
	assert.False(t, s.verifyCSRF(resp.Token, "someone-else"),
		"issued token is bound to the requesting identity")
}
