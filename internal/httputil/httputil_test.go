package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_ProblemDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusBadGateway, "generate-code returned status 503: down")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Bad Gateway", problem.Title)
	assert.Equal(t, 502, problem.Status)
	assert.Equal(t, "generate-code returned status 503: down", problem.Detail)
}

func TestParseOptionalJSON(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	require.NoError(t, ParseOptionalJSON(httptest.NewRecorder(), r, &dest))
	assert.Empty(t, dest.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, ParseOptionalJSON(httptest.NewRecorder(), r, &dest))
	assert.Equal(t, "x", dest.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, ParseOptionalJSON(httptest.NewRecorder(), r, &dest))
}

func TestPathInt64(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/chat/rooms/42", nil)
	r.SetPathValue("room_id", "42")
	id, err := PathInt64(r, "room_id")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	r.SetPathValue("room_id", "abc")
	_, err = PathInt64(r, "room_id")
	assert.Error(t, err)
}

func TestQueryString(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/chat/rooms?repo_url=https://x&empty=", nil)
	assert.Equal(t, "https://x", *QueryString(r, "repo_url"))
	assert.Equal(t, "", *QueryString(r, "empty"))
	assert.Nil(t, QueryString(r, "name"))
}

func TestUserIDVisibleToOuterRequest(t *testing.T) {
	outer := WithRequestID(httptest.NewRequest(http.MethodGet, "/", nil), "req-1")
	inner := WithUserID(outer, "user-9")

	assert.Equal(t, "user-9", GetUserID(inner))
	assert.Equal(t, "user-9", GetUserID(outer))
	assert.Equal(t, "req-1", GetRequestID(inner))
	assert.Empty(t, GetUserID(httptest.NewRequest(http.MethodGet, "/", nil)))
}
