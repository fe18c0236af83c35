package server

import (
	"net/http"
	"time"

	"github.com/mhe931/jobflow/internal/discovery"
	"github.com/mhe931/jobflow/internal/ranking"
	"github.com/mhe931/jobflow/internal/server/middleware"
	"github.com/mhe931/jobflow/internal/types"
)

// sessionView is a session with results in display order.
type sessionView struct {
	ID         string                    `json:"id"`
	CreatedAt  int64                     `json:"created_at"`
	Parameters types.StrategicParameters `json:"parameters"`
	Results    []types.ResultRecord      `json:"results"`
}

func toSessionView(s types.SearchSession) sessionView {
	return sessionView{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Parameters: s.Parameters,
		Results:    ranking.Rank(s.Results),
	}
}

// handleCreateSession runs a discovery request with the user's current
// parameters, persists the new session and returns it ranked.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.domainError(w, err)
		return
	}
	if profile == nil {
		s.domainError(w, &types.NotFoundError{Kind: "profile", ID: userID.String()})
		return
	}

	apiKey, err := s.resolveAPIKey(r.Context(), userID)
	if err != nil {
		s.domainError(w, err)
		return
	}
	client, err := s.newLLMClient(r.Context(), apiKey)
	if err != nil {
		s.domainError(w, &types.UpstreamError{Collaborator: "job discovery", Cause: err})
		return
	}
	defer func() { _ = client.Close() }()

	svc := discovery.New(client, s.cache, s.verbose)
	results, err := svc.Discover(r.Context(), profile, profile.Parameters)
	if err != nil {
		s.domainError(w, err)
		return
	}

	session := types.NewSearchSession(profile.Parameters, results)
	if err := s.store.SaveSession(r.Context(), userID, session); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, toSessionView(session))
}

// handleListSessions returns the user's session history, newest first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessions, err := s.store.ListSessions(r.Context(), userID)
	if err != nil {
		s.domainError(w, err)
		return
	}

	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, toSessionView(session))
	}
	s.jsonResponse(w, http.StatusOK, views)
}

// handleSessionResults returns one session's results in display order.
func (s *Server) handleSessionResults(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sessionID := r.PathValue("id")

	session, err := s.store.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		s.domainError(w, err)
		return
	}
	if session == nil {
		s.domainError(w, &types.NotFoundError{Kind: "session", ID: sessionID})
		return
	}

	s.jsonResponse(w, http.StatusOK, ranking.Rank(session.Results))
}

// handleResultClick records an interaction with a result. Idempotent: the
// flag never reverts, the timestamp always refreshes.
func (s *Server) handleResultClick(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sessionID := r.PathValue("id")
	resultID := r.PathValue("result_id")

	if err := s.store.MarkInteracted(r.Context(), userID, sessionID, resultID, time.Now()); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "interaction recorded"})
}

// handleResultView stamps the first view of a result; later views keep the
// original stamp.
func (s *Server) handleResultView(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sessionID := r.PathValue("id")
	resultID := r.PathValue("result_id")

	if err := s.store.MarkViewed(r.Context(), userID, sessionID, resultID, time.Now()); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "view recorded"})
}
