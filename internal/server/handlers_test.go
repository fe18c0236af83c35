package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhe931/jobflow/internal/types"
)

func registerUser(t *testing.T, s *Server, email string) (types.LoginResponse, string) {
	t.Helper()
	body := fmt.Sprintf(`{"name": "Test User", "email": %q, "password": "secret-password"}`, email)
	req := httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body))
	w := s.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp, "Bearer " + resp.Token
}

func authedRequest(method, path, auth string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", auth)
	return req
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, newMemStore(), &fakeLLM{})

	resp, _ := registerUser(t, s, "jane@example.com")
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.True(t, resp.User.PasswordSet)

	// Duplicate email is a conflict
	body := `{"name": "Other", "email": "jane@example.com", "password": "another-password"}`
	w := s.do(httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with correct credentials
	w = s.do(httptest.NewRequest("POST", "/v1/auth/login",
		strings.NewReader(`{"email": "jane@example.com", "password": "secret-password"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password is unauthorized with a generic message
	w = s.do(httptest.NewRequest("POST", "/v1/auth/login",
		strings.NewReader(`{"email": "jane@example.com", "password": "wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestRegister_ValidationErrors(t *testing.T) {
	s := newTestServer(t, newMemStore(), &fakeLLM{})

	// Short password
	w := s.do(httptest.NewRequest("POST", "/v1/auth/register",
		strings.NewReader(`{"name": "X", "email": "x@example.com", "password": "short"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bad email
	w = s.do(httptest.NewRequest("POST", "/v1/auth/register",
		strings.NewReader(`{"name": "X", "email": "not-an-email", "password": "long-enough-pw"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, newMemStore(), &fakeLLM{})

	w := s.do(httptest.NewRequest("GET", "/v1/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest("GET", "/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = s.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfile(t *testing.T) {
	s := newTestServer(t, newMemStore(), &fakeLLM{})
	_, auth := registerUser(t, s, "jane@example.com")

	w := s.do(authedRequest("GET", "/v1/users/me", auth, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var profile types.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Empty(t, profile.History)
}

func TestUpdateParameters(t *testing.T) {
	s := newTestServer(t, newMemStore(), &fakeLLM{})
	_, auth := registerUser(t, s, "jane@example.com")

	body := `{"titles": ["Backend Engineer"], "hubs": ["Berlin", "Amsterdam"], "keywords": ["golang"]}`
	w := s.do(authedRequest("PUT", "/v1/users/me/parameters", auth, []byte(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(authedRequest("GET", "/v1/users/me", auth, nil))
	var profile types.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, []string{"Backend Engineer"}, profile.Parameters.Titles)
	assert.Equal(t, []string{"golang"}, profile.Parameters.Keywords)

	// Empty titles are rejected
	w = s.do(authedRequest("PUT", "/v1/users/me/parameters", auth, []byte(`{"titles": [], "hubs": ["Berlin"]}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func resumeBody(t *testing.T) []byte {
	t.Helper()
	text := "Jane Doe\n" + strings.Repeat("Led Go platform teams across three companies. ", 10)
	body, err := json.Marshal(map[string]string{"text": text})
	require.NoError(t, err)
	return body
}

func analysisLLM() *fakeLLM {
	return &fakeLLM{responses: map[string]string{
		"technical recruiter": `{"skills": ["Go", "PostgreSQL"], "seniority": "Senior"}`,
		"career strategist":   `{"hubs": ["Berlin", "Amsterdam", "London", "Paris", "Dublin", "Zurich", "Stockholm", "Munich", "Madrid", "Lisbon"], "titles": ["Backend Engineer", "Platform Engineer", "SRE", "Staff Engineer", "Infra Engineer", "Cloud Engineer", "API Engineer", "Systems Engineer"]}`,
	}}
}

func TestUpdateResume_TextFlow(t *testing.T) {
	s := newTestServer(t, newMemStore(), analysisLLM())
	_, auth := registerUser(t, s, "jane@example.com")

	w := s.do(authedRequest("PUT", "/v1/users/me/resume", auth, resumeBody(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Analysis struct {
			Skills    []string `json:"skills"`
			Seniority string   `json:"seniority"`
		} `json:"analysis"`
		ProposedParameters types.StrategicParameters `json:"proposed_parameters"`
		ParametersApplied  bool                      `json:"parameters_applied"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Go", "PostgreSQL"}, resp.Analysis.Skills)
	assert.Equal(t, "Senior", resp.Analysis.Seniority)
	assert.Len(t, resp.ProposedParameters.Hubs, 10)
	assert.Len(t, resp.ProposedParameters.Titles, 8)
	assert.True(t, resp.ParametersApplied)

	// Parameters were seeded on the profile
	w = s.do(authedRequest("GET", "/v1/users/me", auth, nil))
	var profile types.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Len(t, profile.Parameters.Hubs, 10)
}

func TestUpdateResume_PreservesUserParameters(t *testing.T) {
	s := newTestServer(t, newMemStore(), analysisLLM())
	_, auth := registerUser(t, s, "jane@example.com")

	// User configures parameters by hand first
	body := `{"titles": ["Handpicked Title"], "hubs": ["Handpicked Hub"]}`
	w := s.do(authedRequest("PUT", "/v1/users/me/parameters", auth, []byte(body)))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(authedRequest("PUT", "/v1/users/me/resume", auth, resumeBody(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Re-analysis proposes but does not overwrite
	w = s.do(authedRequest("GET", "/v1/users/me", auth, nil))
	var profile types.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, []string{"Handpicked Title"}, profile.Parameters.Titles)
}

func TestUpdateResume_RejectsTextAndURL(t *testing.T) {
	s := newTestServer(t, newMemStore(), analysisLLM())
	_, auth := registerUser(t, s, "jane@example.com")

	body := `{"text": "some text", "url": "https://example.com/resume"}`
	w := s.do(authedRequest("PUT", "/v1/users/me/resume", auth, []byte(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(authedRequest("PUT", "/v1/users/me/resume", auth, []byte(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateResume_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, newMemStore(), &fakeLLM{err: fmt.Errorf("api down")})
	_, auth := registerUser(t, s, "jane@example.com")

	w := s.do(authedRequest("PUT", "/v1/users/me/resume", auth, resumeBody(t)))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAPIKeyLifecycle(t *testing.T) {
	store := newMemStore()
	s := newTestServer(t, store, &fakeLLM{})
	resp, auth := registerUser(t, s, "jane@example.com")

	w := s.do(authedRequest("PUT", "/v1/users/me/api-key", auth,
		[]byte(`{"api_key": "AIzaSyUserOwnedKey1234567890"}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Sealed at rest: ciphertext never contains the plaintext key
	ciphertext := store.apiKeys[resp.User.ID]
	require.NotEmpty(t, ciphertext)
	assert.NotContains(t, string(ciphertext), "AIzaSyUserOwnedKey")

	// Too-short keys are rejected
	w = s.do(authedRequest("PUT", "/v1/users/me/api-key", auth, []byte(`{"api_key": "short"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(authedRequest("DELETE", "/v1/users/me/api-key", auth, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.apiKeys[resp.User.ID])
}

func TestAnalyze_ReusesStoredResume(t *testing.T) {
	s := newTestServer(t, newMemStore(), analysisLLM())
	_, auth := registerUser(t, s, "jane@example.com")

	w := s.do(authedRequest("PUT", "/v1/users/me/resume", auth, resumeBody(t)))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(authedRequest("POST", "/v1/users/me/analyze", auth, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Analysis struct {
			Seniority string `json:"seniority"`
		} `json:"analysis"`
		ParametersApplied bool `json:"parameters_applied"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Senior", resp.Analysis.Seniority)
	// Parameters were already seeded by the first analysis
	assert.False(t, resp.ParametersApplied)
}

func TestAnalyze_NoResumeOnFile(t *testing.T) {
	s := newTestServer(t, newMemStore(), analysisLLM())
	_, auth := registerUser(t, s, "jane@example.com")

	w := s.do(authedRequest("POST", "/v1/users/me/analyze", auth, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no resume on file")
}

func TestGetParameters(t *testing.T) {
	s := newTestServer(t, newMemStore(), &fakeLLM{})
	_, auth := registerUser(t, s, "jane@example.com")

	w := s.do(authedRequest("GET", "/v1/users/me/parameters", auth, nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := `{"titles": ["SRE"], "hubs": ["London"], "keywords": ["kubernetes"]}`
	w = s.do(authedRequest("PUT", "/v1/users/me/parameters", auth, []byte(body)))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(authedRequest("GET", "/v1/users/me/parameters", auth, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var params types.StrategicParameters
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &params))
	assert.Equal(t, []string{"SRE"}, params.Titles)
	assert.Equal(t, []string{"kubernetes"}, params.Keywords)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, newMemStore(), &fakeLLM{})
	w := s.do(httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
