package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mhe931/jobflow/internal/analyzer"
	"github.com/mhe931/jobflow/internal/ingestion"
	"github.com/mhe931/jobflow/internal/ranking"
	"github.com/mhe931/jobflow/internal/server/middleware"
	"github.com/mhe931/jobflow/internal/types"
)

// resolveAPIKey returns the user's own decrypted key when one is stored,
// falling back to the server's default key.
func (s *Server) resolveAPIKey(ctx context.Context, userID uuid.UUID) (string, error) {
	ciphertext, err := s.store.GetAPIKey(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(ciphertext) > 0 {
		key, err := s.apiKeyConfig.Decrypt(ciphertext)
		if err == nil {
			return key, nil
		}
		// A key that no longer decrypts (rotated secret) falls back to the default
	}
	if s.defaultAPIKey != "" {
		return s.defaultAPIKey, nil
	}
	return "", &types.ValidationError{
		Field:   "api_key",
		Message: "no API key available; set one via PUT /v1/users/me/api-key",
	}
}

// rankedView returns a copy of the profile with every session's results in
// display order. Stored order is never touched.
func rankedView(p *types.UserProfile) *types.UserProfile {
	view := *p
	view.History = make([]types.SearchSession, len(p.History))
	for i, session := range p.History {
		session.Results = ranking.Rank(session.Results)
		view.History[i] = session
	}
	return &view
}

// handleGetProfile returns the authenticated user's profile with session
// history newest first and results in display order.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
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

	s.jsonResponse(w, http.StatusOK, rankedView(profile))
}

// resumeAnalysisResponse is the payload returned after a resume update.
type resumeAnalysisResponse struct {
	Analysis           *analyzer.Analysis        `json:"analysis"`
	ProposedParameters types.StrategicParameters `json:"proposed_parameters"`
	ParametersApplied  bool                      `json:"parameters_applied"`
}

// handleUpdateResume ingests resume content (pasted text or hosted URL),
// analyzes it and proposes strategic parameters. Proposed parameters are
// applied automatically only when the user hasn't configured any yet.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.UpdateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.domainError(w, err)
		return
	}

	var resumeText string
	if req.URL != "" {
		resumeText, err = ingestion.IngestFromURL(r.Context(), req.URL, s.useBrowser, s.verbose)
	} else {
		resumeText, err = ingestion.IngestText(req.Text)
	}
	if err != nil {
		s.domainError(w, err)
		return
	}

	response, err := s.analyzeAndPropose(r.Context(), userID, resumeText)
	if err != nil {
		s.domainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// handleAnalyze re-runs the analysis on the resume already on file, without
// requiring the content to be uploaded again.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
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
	if profile.ResumeText == "" {
		s.domainError(w, &types.ValidationError{
			Field:   "resume_text",
			Message: "no resume on file; upload one via PUT /v1/users/me/resume",
		})
		return
	}

	response, err := s.analyzeAndPropose(r.Context(), userID, profile.ResumeText)
	if err != nil {
		s.domainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// analyzeAndPropose analyzes resume text, persists skills and seniority, and
// proposes a search matrix. The first analysis seeds the strategic parameters;
// later ones only propose, so user edits survive re-analysis.
func (s *Server) analyzeAndPropose(ctx context.Context, userID uuid.UUID, resumeText string) (*resumeAnalysisResponse, error) {
	apiKey, err := s.resolveAPIKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	client, err := s.newLLMClient(ctx, apiKey)
	if err != nil {
		return nil, &types.UpstreamError{Collaborator: "profile analyzer", Cause: err}
	}
	defer func() { _ = client.Close() }()

	a := analyzer.New(client)
	analysis, err := a.AnalyzeResume(ctx, resumeText)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateResume(ctx, userID, resumeText, analysis.Skills, analysis.Seniority); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &types.NotFoundError{Kind: "profile", ID: userID.String()}
	}

	matrix, err := a.BuildSearchMatrix(ctx, profile)
	if err != nil {
		return nil, err
	}

	proposed := types.StrategicParameters{
		Titles: matrix.Titles,
		Hubs:   matrix.Hubs,
	}

	applied := false
	if profile.Parameters.IsEmpty() {
		if err := s.store.UpdateParameters(ctx, userID, proposed); err != nil {
			return nil, err
		}
		applied = true
	}

	return &resumeAnalysisResponse{
		Analysis:           analysis,
		ProposedParameters: proposed,
		ParametersApplied:  applied,
	}, nil
}

// handleGetParameters returns the user's current strategic parameters.
func (s *Server) handleGetParameters(w http.ResponseWriter, r *http.Request) {
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

	s.jsonResponse(w, http.StatusOK, profile.Parameters)
}

// handleUpdateParameters replaces the user's strategic parameters.
func (s *Server) handleUpdateParameters(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.UpdateParametersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.domainError(w, err)
		return
	}

	params := types.StrategicParameters{
		Titles:   req.Titles,
		Hubs:     req.Hubs,
		Keywords: req.Keywords,
	}
	if err := s.store.UpdateParameters(r.Context(), userID, params); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, params)
}

// handleSetAPIKey stores the user's own Gemini key, sealed at rest.
func (s *Server) handleSetAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.SetAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.domainError(w, err)
		return
	}

	ciphertext, err := s.apiKeyConfig.Encrypt(req.APIKey)
	if err != nil {
		s.domainError(w, err)
		return
	}
	if err := s.store.SetAPIKey(r.Context(), userID, ciphertext); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "API key stored"})
}

// handleClearAPIKey removes the stored key; the server default applies again.
func (s *Server) handleClearAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.store.ClearAPIKey(r.Context(), userID); err != nil {
		s.domainError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "API key removed"})
}
