package ui

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcenrich/app"
	"pcenrich/domain/enrichment"
)

func newTestServer() *Server {
	return NewServer(app.NewEnrichmentService(nil, 2))
}

func testRunRequest() RunRequest {
	rng := rand.New(rand.NewSource(5))
	data := make([][]float64, 15)
	for i := range data {
		row := make([]float64, 8)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		data[i] = row
	}
	return RunRequest{
		Data: data,
		GeneSets: []enrichment.GeneSet{
			{Name: "pathwayA", Members: []int{0, 1, 2, 3}},
			{Name: "pathwayB", Members: []int{4, 5, 6, 7}},
		},
	}
}

func postRun(t *testing.T, server *Server, req RunRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewReader(body)))
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_CreateRun(t *testing.T) {
	rec := postRun(t, newTestServer(), testRunRequest())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var run enrichment.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.NotEmpty(t, run.ID)
	require.NotNil(t, run.Result)
	assert.Equal(t, []string{"pathwayA", "pathwayB"}, run.Result.GroupNames)
	require.Len(t, run.Result.PValues, 2)
	for _, row := range run.Result.PValues {
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}

func TestServer_CreateRunValidation(t *testing.T) {
	t.Run("bad option value", func(t *testing.T) {
		req := testRunRequest()
		req.Options.GeneStatistic = "spearman"
		rec := postRun(t, newTestServer(), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("permutation testing", func(t *testing.T) {
		req := testRunRequest()
		req.Options.TestMethod = enrichment.TestPermutation
		rec := postRun(t, newTestServer(), req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("empty data matrix", func(t *testing.T) {
		req := testRunRequest()
		req.Data = [][]float64{}
		rec := postRun(t, newTestServer(), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "no rows")
	})

	t.Run("ragged data rows", func(t *testing.T) {
		req := testRunRequest()
		req.Data = [][]float64{{1, 2, 3}, {1, 2}}
		rec := postRun(t, newTestServer(), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("degenerate gene set", func(t *testing.T) {
		req := testRunRequest()
		req.GeneSets[0].Members = []int{0}
		rec := postRun(t, newTestServer(), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer().Handler().ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewReader([]byte("{"))))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetRunNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ListRunsWithoutStore(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
