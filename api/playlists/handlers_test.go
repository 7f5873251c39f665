package playlists

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationhq/media-api/api/types"
	"github.com/stationhq/media-api/internal/record"
	playlistsService "github.com/stationhq/media-api/internal/services/playlists"
)

// stubService is a canned PlaylistService for handler tests.
type stubService struct {
	createResult map[string]any
	createErr    error
	listResult   []map[string]any
	listErr      error
	updateResult map[string]any
	updateErr    error
	deleteErr    error

	lastPlaylistID int64
	lastRuleID     int64
	lastPayload    map[string]any
}

func (s *stubService) CreateRule(ctx context.Context, playlistID int64, data map[string]any) (map[string]any, error) {
	s.lastPlaylistID = playlistID
	s.lastPayload = data
	return s.createResult, s.createErr
}

func (s *stubService) ListRules(ctx context.Context, playlistID int64) ([]map[string]any, error) {
	s.lastPlaylistID = playlistID
	return s.listResult, s.listErr
}

func (s *stubService) UpdateRule(ctx context.Context, ruleID int64, data map[string]any) (map[string]any, error) {
	s.lastRuleID = ruleID
	s.lastPayload = data
	return s.updateResult, s.updateErr
}

func (s *stubService) DeleteRule(ctx context.Context, ruleID int64) error {
	s.lastRuleID = ruleID
	return s.deleteErr
}

func newRouter(service playlistsService.PlaylistService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1/playlists")
	RegisterRoutes(group, &types.Dependencies{PlaylistService: service})
	return router
}

func TestPostRule(t *testing.T) {
	service := &stubService{
		createResult: map[string]any{"id": int64(12), "criteria": "artist_name"},
	}
	router := newRouter(service)

	body, _ := json.Marshal(gin.H{"criteria": "artist_name", "modifier": "contains", "value": "Coltrane"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/4/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(4), service.lastPlaylistID)
	assert.Equal(t, "contains", service.lastPayload["modifier"])

	var response types.SinglePlaylistRuleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "artist_name", response.Rule["criteria"])
}

func TestPostRulePlaylistNotFound(t *testing.T) {
	router := newRouter(&stubService{createErr: playlistsService.ErrPlaylistNotFound})

	body, _ := json.Marshal(gin.H{"criteria": "genre", "modifier": "is"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/99/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostRuleValidationFailure(t *testing.T) {
	verr := &record.ValidationErrors{Failures: []record.FieldError{
		{Table: "cc_playlistcriteria", Field: "modifier", Message: "is required"},
	}}
	router := newRouter(&stubService{createErr: verr})

	body, _ := json.Marshal(gin.H{"criteria": "genre"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/4/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetRules(t *testing.T) {
	service := &stubService{
		listResult: []map[string]any{
			{"id": int64(1), "criteria": "artist_name"},
			{"id": int64(2), "criteria": "genre"},
		},
	}
	router := newRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists/4/rules", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), service.lastPlaylistID)

	var response types.PlaylistRulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
}

func TestPutRule(t *testing.T) {
	service := &stubService{updateResult: map[string]any{"id": int64(2), "value": "bebop"}}
	router := newRouter(service)

	body, _ := json.Marshal(gin.H{"value": "bebop"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/playlists/4/rules/2", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), service.lastRuleID)
}

func TestDeleteRule(t *testing.T) {
	service := &stubService{}
	router := newRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/4/rules/2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(2), service.lastRuleID)
}

func TestDeleteRuleNotFound(t *testing.T) {
	router := newRouter(&stubService{deleteErr: playlistsService.ErrRuleNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/4/rules/9", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuleServerFailure(t *testing.T) {
	router := newRouter(&stubService{listErr: errors.New("db gone")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists/4/rules", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
