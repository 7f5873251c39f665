package podcasts

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
	podcastsService "github.com/stationhq/media-api/internal/services/podcasts"
)

// stubService is a canned PodcastService for handler tests.
type stubService struct {
	createResult map[string]any
	createErr    error
	getResult    map[string]any
	getErr       error
	listResult   []map[string]any
	listErr      error
	updateResult map[string]any
	updateErr    error
	deleteErr    error

	lastURL     string
	lastOwnerID int64
	lastID      int64
	lastPayload map[string]any
}

func (s *stubService) CreateFromFeed(ctx context.Context, url string, ownerID int64) (map[string]any, error) {
	s.lastURL = url
	s.lastOwnerID = ownerID
	return s.createResult, s.createErr
}

func (s *stubService) GetByID(ctx context.Context, id int64) (map[string]any, error) {
	s.lastID = id
	return s.getResult, s.getErr
}

func (s *stubService) List(ctx context.Context) ([]map[string]any, error) {
	return s.listResult, s.listErr
}

func (s *stubService) UpdateFromMap(ctx context.Context, id int64, data map[string]any) (map[string]any, error) {
	s.lastID = id
	s.lastPayload = data
	return s.updateResult, s.updateErr
}

func (s *stubService) DeleteByID(ctx context.Context, id int64) error {
	s.lastID = id
	return s.deleteErr
}

func newRouter(service podcastsService.PodcastService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1/podcasts")
	noop := func(c *gin.Context) { c.Next() }
	RegisterRoutes(group, &types.Dependencies{PodcastService: service}, noop)
	return router
}

func TestPostImport(t *testing.T) {
	service := &stubService{
		createResult: map[string]any{"id": int64(1), "title": "Morning Show"},
	}
	router := newRouter(service)

	body, _ := json.Marshal(gin.H{"url": "https://example.com/feed.xml", "owner_id": 7})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/podcasts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://example.com/feed.xml", service.lastURL)
	assert.Equal(t, int64(7), service.lastOwnerID)

	var response types.SinglePodcastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, types.StatusOK, response.Status)
	assert.Equal(t, "Morning Show", response.Podcast["title"])
}

func TestPostImportRejectsBadBody(t *testing.T) {
	service := &stubService{}
	router := newRouter(service)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing url", body: `{}`},
		{name: "malformed json", body: `{`},
		{name: "relative url", body: `{"url": "not-a-url"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/podcasts", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, service.lastURL, "service must not be called")
		})
	}
}

func TestPostImportServiceErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "limit reached",
			err:            podcastsService.LimitReachedError{Limit: 50},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid source",
			err:            podcastsService.InvalidSourceError{URL: "https://x", Err: errors.New("boom")},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "unexpected failure",
			err:            errors.New("database gone"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&stubService{createErr: tt.err})

			body, _ := json.Marshal(gin.H{"url": "https://example.com/feed.xml"})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/podcasts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestGetList(t *testing.T) {
	router := newRouter(&stubService{
		listResult: []map[string]any{
			{"id": int64(1), "title": "A"},
			{"id": int64(2), "title": "B"},
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/podcasts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response types.PodcastsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	require.Len(t, response.Podcasts, 2)
}

func TestGetByID(t *testing.T) {
	service := &stubService{getResult: map[string]any{"id": int64(3), "title": "A"}}
	router := newRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/podcasts/3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), service.lastID)
}

func TestGetByIDNotFound(t *testing.T) {
	router := newRouter(&stubService{getErr: podcastsService.ErrNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/podcasts/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByIDBadParam(t *testing.T) {
	router := newRouter(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/podcasts/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutUpdate(t *testing.T) {
	service := &stubService{updateResult: map[string]any{"id": int64(3), "title": "New"}}
	router := newRouter(service)

	// The field map rides under a "podcast" wrapper key.
	body, _ := json.Marshal(gin.H{"podcast": gin.H{"title": "New"}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/podcasts/3", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), service.lastID)
	assert.Equal(t, "New", service.lastPayload["title"])
}

func TestPutUpdateRejectsMissingWrapper(t *testing.T) {
	service := &stubService{}
	router := newRouter(service)

	tests := []struct {
		name string
		body string
	}{
		{name: "flat field map", body: `{"title": "New"}`},
		{name: "empty body", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/podcasts/3", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, service.lastPayload, "service must not be called")
		})
	}
}

func TestDelete(t *testing.T) {
	service := &stubService{}
	router := newRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/podcasts/3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(3), service.lastID)
}

func TestDeleteNotFound(t *testing.T) {
	router := newRouter(&stubService{deleteErr: podcastsService.ErrNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/podcasts/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
