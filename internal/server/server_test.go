package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mhe931/jobflow/internal/db"
	"github.com/mhe931/jobflow/internal/llm"
	"github.com/mhe931/jobflow/internal/types"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*db.User
	profiles map[uuid.UUID]*types.UserProfile
	apiKeys  map[uuid.UUID][]byte
	sessions map[uuid.UUID][]types.SearchSession
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*db.User),
		profiles: make(map[uuid.UUID]*types.UserProfile),
		apiKeys:  make(map[uuid.UUID][]byte),
		sessions: make(map[uuid.UUID][]types.SearchSession),
	}
}

func (m *memStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	now := time.Now()
	m.users[id] = &db.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	m.profiles[id] = &types.UserProfile{ID: id, Email: email, Name: name, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetProfile(_ context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	view := *p
	view.History = append([]types.SearchSession(nil), m.sessions[userID]...)
	return &view, nil
}

func (m *memStore) UpdateResume(_ context.Context, userID uuid.UUID, resumeText string, skills []string, seniority string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return &types.NotFoundError{Kind: "profile", ID: userID.String()}
	}
	p.ResumeText = resumeText
	p.Skills = skills
	p.Seniority = seniority
	return nil
}

func (m *memStore) UpdateParameters(_ context.Context, userID uuid.UUID, params types.StrategicParameters) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return &types.NotFoundError{Kind: "profile", ID: userID.String()}
	}
	p.Parameters = params.Clone()
	return nil
}

func (m *memStore) SetAPIKey(_ context.Context, userID uuid.UUID, ciphertext []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKeys[userID] = ciphertext
	return nil
}

func (m *memStore) GetAPIKey(_ context.Context, userID uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiKeys[userID], nil
}

func (m *memStore) ClearAPIKey(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.apiKeys, userID)
	return nil
}

func (m *memStore) SaveSession(_ context.Context, userID uuid.UUID, session types.SearchSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Newest first
	m.sessions[userID] = append([]types.SearchSession{session}, m.sessions[userID]...)
	return nil
}

func (m *memStore) ListSessions(_ context.Context, userID uuid.UUID) ([]types.SearchSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.SearchSession(nil), m.sessions[userID]...), nil
}

func (m *memStore) GetSession(_ context.Context, userID uuid.UUID, sessionID string) (*types.SearchSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sessions[userID] {
		if m.sessions[userID][i].ID == sessionID {
			s := m.sessions[userID][i]
			s.Results = append([]types.ResultRecord(nil), m.sessions[userID][i].Results...)
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memStore) findResult(userID uuid.UUID, sessionID, resultID string) (*types.ResultRecord, error) {
	for i := range m.sessions[userID] {
		if m.sessions[userID][i].ID != sessionID {
			continue
		}
		for j := range m.sessions[userID][i].Results {
			if m.sessions[userID][i].Results[j].ID == resultID {
				return &m.sessions[userID][i].Results[j], nil
			}
		}
		return nil, &types.NotFoundError{Kind: "result", ID: resultID}
	}
	return nil, &types.NotFoundError{Kind: "session", ID: sessionID}
}

func (m *memStore) MarkInteracted(_ context.Context, userID uuid.UUID, sessionID, resultID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.findResult(userID, sessionID, resultID)
	if err != nil {
		return err
	}
	r.MarkInteracted(at)
	return nil
}

func (m *memStore) MarkViewed(_ context.Context, userID uuid.UUID, sessionID, resultID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.findResult(userID, sessionID, resultID)
	if err != nil {
		return err
	}
	r.MarkViewed(at)
	return nil
}

// fakeLLM routes prompts to canned responses, keyed by a marker phrase.
type fakeLLM struct {
	responses map[string]string
	err       error
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", f.err
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for marker, response := range f.responses {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}
	return "", fmt.Errorf("no canned response for prompt")
}

func (f *fakeLLM) GetModel(_ llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                    { return nil }

// newTestServer builds a Server on a memStore with a fake LLM.
func newTestServer(t *testing.T, store Store, client llm.Client) *Server {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	t.Setenv("API_KEY_SECRET", "test-api-key-secret")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	s, err := newServer(store, Config{Port: "0", APIKey: "server-default-key"})
	require.NoError(t, err)
	s.newLLMClient = func(_ context.Context, _ string) (llm.Client, error) {
		return client, nil
	}
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func (s *Server) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}
