package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdemo/app"
	"statdemo/internal/cache"
	"statdemo/internal/hypothesis"
	"statdemo/internal/simulation"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := app.NewDemoService(simulation.New(cache.NewMemory()), hypothesis.NewRunner(), nil, nil)
	h := NewHandler(svc, Options{DefaultSampleSize: 200, DefaultSeed: 42, MaxSampleSize: 1000}, nil)

	r := gin.New()
	h.Register(r)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, target string, body []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func TestGetPosterior_Defaults(t *testing.T) {
	r := newTestRouter(t)

	w, out := doRequest(t, r, http.MethodGet, "/api/bayes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	result := out["result"].(map[string]any)
	assert.InDelta(t, 0.04539, result["positive_predictive_value"].(float64), 1e-5)
	assert.InDelta(t, 0.02093, result["prob_positive_test"].(float64), 1e-9)
}

func TestGetPosterior_Errors(t *testing.T) {
	r := newTestRouter(t)

	w, out := doRequest(t, r, http.MethodGet, "/api/bayes?prevalence=1.2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETER", out["code"])
	assert.Equal(t, "prevalence", out["field"])

	w, out = doRequest(t, r, http.MethodGet, "/api/bayes?sensitivity=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "sensitivity", out["field"])
}

func TestGetPosterior_UnderflowingTruePositives(t *testing.T) {
	r := newTestRouter(t)

	w, out := doRequest(t, r, http.MethodGet, "/api/bayes?prevalence=1e-200&sensitivity=1e-200", nil)
	require.Equal(t, http.StatusOK, w.Code)

	explanation := out["explanation"].(map[string]any)
	assert.Contains(t, explanation, "false_positive_ratio")
	assert.Nil(t, explanation["false_positive_ratio"])
	assert.Equal(t, 0.0, out["result"].(map[string]any)["positive_predictive_value"])
}

func TestGetPosterior_Clamp(t *testing.T) {
	r := newTestRouter(t)

	w, out := doRequest(t, r, http.MethodGet, "/api/bayes?prevalence=0.5&clamp=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	in := out["input"].(map[string]any)
	assert.Equal(t, 0.10, in["prevalence"])
}

func TestGetRanges(t *testing.T) {
	r := newTestRouter(t)

	w, out := doRequest(t, r, http.MethodGet, "/api/bayes/ranges", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, out, "ranges")
	assert.Contains(t, out, "defaults")
}

func TestListScenarios(t *testing.T) {
	r := newTestRouter(t)

	w, out := doRequest(t, r, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["scenarios"], 2)
}

func TestGetScenarioReport(t *testing.T) {
	r := newTestRouter(t)

	w, out := doRequest(t, r, http.MethodGet, "/api/scenarios/skewed/report?n=200&seed=42", nil)
	require.Equal(t, http.StatusOK, w.Code)

	report := out["report"].(map[string]any)
	assert.Equal(t, "MANN_WHITNEY", report["recommended_test"])
	assert.Contains(t, report, "t_statistic")
	assert.Equal(t, 200.0, out["sample_size"])
	assert.NotEmpty(t, out["justification"])
}

func TestGetScenarioReport_Errors(t *testing.T) {
	r := newTestRouter(t)

	w, out := doRequest(t, r, http.MethodGet, "/api/scenarios/bimodal/report", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_SCENARIO", out["code"])

	w, _ = doRequest(t, r, http.MethodGet, "/api/scenarios/symmetric/report?n=5001", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, "/api/scenarios/symmetric/report?n=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = doRequest(t, r, http.MethodGet, "/api/scenarios/symmetric/report?n=2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INSUFFICIENT_SAMPLE_SIZE", out["code"])
}

func TestAnalyze(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(AnalyzeRequest{Control: []float64{1, 2, 3}, Treatment: []float64{4, 5, 6}})
	w, out := doRequest(t, r, http.MethodPost, "/api/analyze", body)
	require.Equal(t, http.StatusOK, w.Code)

	report := out["report"].(map[string]any)
	assert.InDelta(t, -3.674235, report["t_statistic"].(float64), 1e-5)
	assert.Equal(t, 0.0, report["u_statistic"])
}

func TestAnalyze_NonFiniteStatisticIsNull(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(AnalyzeRequest{Control: []float64{1, 1, 1}, Treatment: []float64{2, 2, 2}})
	w, out := doRequest(t, r, http.MethodPost, "/api/analyze", body)
	require.Equal(t, http.StatusOK, w.Code)

	report := out["report"].(map[string]any)
	assert.Contains(t, report, "t_statistic")
	assert.Nil(t, report["t_statistic"])
}

func TestAnalyze_BadInput(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doRequest(t, r, http.MethodPost, "/api/analyze", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, _ := json.Marshal(AnalyzeRequest{Control: []float64{1, 2}, Treatment: []float64{4, 5, 6}})
	w, out := doRequest(t, r, http.MethodPost, "/api/analyze", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "control", out["field"])
}

func TestAnalyze_OverflowingGroup(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(AnalyzeRequest{Control: []float64{-1e308, 0, 1e308}, Treatment: []float64{1, 2, 4}})
	w, out := doRequest(t, r, http.MethodPost, "/api/analyze", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETER", out["code"])
	assert.Equal(t, "control", out["field"])
}

func TestRespond_EncodingFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, Options{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/bayes", nil)

	h.respond(c, http.StatusOK, gin.H{"ratio": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "INTERNAL_ERROR", out["code"])
}
