package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemascope/internal/handlers"
	"schemascope/internal/models"
	"schemascope/internal/routes"
	"schemascope/internal/services"
)

type mockAnalysisRunner struct {
	result     *services.AnalysisResult
	analyzeErr error
	run        *models.AnalysisRun
	runs       []models.AnalysisRun
	guide      string
	digest     string
	repoErr    error
}

func (m *mockAnalysisRunner) Analyze(ctx context.Context, req services.AnalysisRequest) (*services.AnalysisResult, error) {
	return m.result, m.analyzeErr
}

func (m *mockAnalysisRunner) GetRun(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	return m.run, m.repoErr
}

func (m *mockAnalysisRunner) ListRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	return m.runs, m.repoErr
}

func (m *mockAnalysisRunner) GetGuideText(ctx context.Context, id uuid.UUID) (string, error) {
	return m.guide, m.repoErr
}

func (m *mockAnalysisRunner) GetDigestText(ctx context.Context, id uuid.UUID) (string, error) {
	return m.digest, m.repoErr
}

func newTestRouter(runner handlers.AnalysisRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.RegisterRoutes(router, handlers.NewAnalysisHandler(runner))
	return router
}

func TestCreateAnalysis_Success(t *testing.T) {
	run := &models.AnalysisRun{Status: models.RunStatusCompleted, TableCount: 2}
	run.Prepare()
	router := newTestRouter(&mockAnalysisRunner{
		result: &services.AnalysisResult{Run: run, InsertionOrder: []string{"customers", "orders"}},
	})

	body := `{"connection": {"host": "localhost", "database": "shopdb", "username": "scout"}, "schema": "public"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"insertion_order":["customers","orders"]`)
}

func TestCreateAnalysis_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockAnalysisRunner{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAnalysis_CircularDependency(t *testing.T) {
	router := newTestRouter(&mockAnalysisRunner{
		analyzeErr: &services.CircularDependencyError{Table: "orders"},
	})

	body := `{"connection": {"uri": "postgres://scout@localhost/shopdb"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "orders")
	assert.Contains(t, w.Body.String(), "mode=digest")
}

func TestCreateAnalysis_CatalogUnavailable(t *testing.T) {
	router := newTestRouter(&mockAnalysisRunner{
		analyzeErr: errors.New("failed to ping target database: connection refused"),
	})

	body := `{"connection": {"uri": "postgres://scout@localhost/shopdb"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestGetRun_NotFound(t *testing.T) {
	router := newTestRouter(&mockAnalysisRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRun_InvalidID(t *testing.T) {
	router := newTestRouter(&mockAnalysisRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGuide_ReturnsPlainText(t *testing.T) {
	router := newTestRouter(&mockAnalysisRunner{guide: "DATA INSERTION GUIDE\n"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString()+"/guide", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DATA INSERTION GUIDE\n", w.Body.String())
}

func TestGetDigest_ExpiredReturnsNotFound(t *testing.T) {
	router := newTestRouter(&mockAnalysisRunner{digest: ""})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString()+"/digest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRuns(t *testing.T) {
	runs := []models.AnalysisRun{{DatabaseName: "shopdb", Status: models.RunStatusCompleted}}
	router := newTestRouter(&mockAnalysisRunner{runs: runs})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopdb")
}

func TestListRuns_InvalidLimit(t *testing.T) {
	router := newTestRouter(&mockAnalysisRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
