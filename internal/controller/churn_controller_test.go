package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/churn-predictor/internal/classifier"
	"github.com/unclebandit/churn-predictor/internal/controller"
	appErrors "github.com/unclebandit/churn-predictor/internal/errors"
	"github.com/unclebandit/churn-predictor/internal/handler"
	"github.com/unclebandit/churn-predictor/internal/metrics"
	"github.com/unclebandit/churn-predictor/internal/model"
	"github.com/unclebandit/churn-predictor/internal/service"
)

// --- Mock Repositories ---

type MockCustomerRepo struct{}

func (m *MockCustomerRepo) GetByID(_ context.Context, id int) (*model.CustomerRecord, error) {
	if id != 1 {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	rec := model.DefaultCustomerRecord()
	rec.ID = 1
	return &rec, nil
}

func newRouter(t *testing.T, c classifier.Classifier, timeout time.Duration) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	inference := service.NewInferenceService(c, timeout, m)
	svc := &service.ChurnService{
		Inference:    inference,
		CustomerRepo: &MockCustomerRepo{},
		Metrics:      m,
	}
	ctrl := &controller.ChurnController{ChurnService: svc}
	health := handler.NewHealthHandler(inference.ModelInfo())
	return controller.NewRouter(ctrl, health, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type predictResponse struct {
	Probability float64  `json:"probability"`
	Percentage  string   `json:"percentage"`
	Label       string   `json:"label"`
	Indicator   string   `json:"indicator"`
	Advisories  []string `json:"advisories"`
	Celebrate   bool     `json:"celebrate"`
}

func TestPredict_HighRisk(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.82), time.Second)
	body, _ := json.Marshal(map[string]any{
		"tenure":           0,
		"contract":         "Month-to-month",
		"monthly_charges":  90.0,
		"internet_service": "Fiber optic",
	})

	w := doRequest(h, http.MethodPost, "/predict", string(body))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var res predictResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 0.82, res.Probability)
	assert.Equal(t, "82.00%", res.Percentage)
	assert.Equal(t, model.LabelChurn, res.Label)
	assert.Equal(t, model.IndicatorError, res.Indicator)
	assert.Equal(t, []string{service.HighRiskAdvisory}, res.Advisories)
}

func TestPredict_Loyal(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.05), time.Second)

	w := doRequest(h, http.MethodPost, "/predict", `{"tenure": 60, "contract": "Two year", "monthly_charges": 20.0}`)

	require.Equal(t, http.StatusOK, w.Code)
	var res predictResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, model.LabelNotChurn, res.Label)
	assert.Equal(t, "5.00%", res.Percentage)
	assert.Empty(t, res.Advisories)
	assert.True(t, res.Celebrate)
}

func TestPredict_EmptyBodyUsesDefaults(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.3), time.Second)

	w := doRequest(h, http.MethodPost, "/predict", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPredict_BadRequests(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.3), time.Second)

	cases := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"tenure":`, "bad_request"},
		{"unknown field", `{"churned": true}`, "bad_request"},
		{"wrong type", `{"tenure": "twelve"}`, "invalid_field_value"},
		{"out of domain", `{"contract": "Lifetime"}`, "invalid_field_value"},
		{"negative charges", `{"total_charges": -5}`, "invalid_field_value"},
		{"trailing object", `{"tenure": 1} {"tenure": -5, "contract": "Lifetime"}`, "bad_request"},
		{"trailing garbage", `{"tenure": 1} x`, "bad_request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(h, http.MethodPost, "/predict", tc.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			var res map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
			assert.Equal(t, tc.code, res["error"])
			assert.NotEmpty(t, res["error_description"])
		})
	}
}

func TestPredict_WrongTypeNamesExpectedKind(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.3), time.Second)

	w := doRequest(h, http.MethodPost, "/predict", `{"tenure": "twelve"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var res map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Contains(t, res["error_description"], "tenure")
	assert.Contains(t, res["error_description"], "must be an integer")
}

func TestPredict_TrailingWhitespaceIsAccepted(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.3), time.Second)

	w := doRequest(h, http.MethodPost, "/predict", "{\"tenure\": 1}\n  \n")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPredict_OversizedBodyIs413(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.3), time.Second)
	body := `{"gender": "` + strings.Repeat("a", 70<<10) + `"}`

	w := doRequest(h, http.MethodPost, "/predict", body)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var res map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, "request_too_large", res["error"])
}

func TestPredict_InferenceErrorIs422(t *testing.T) {
	stub := &classifier.Stub{Fn: func(model.Features) (float64, error) {
		return 0, appErrors.NewInferenceError(model.ColTotalCharges, "missing column")
	}}
	h := newRouter(t, stub, time.Second)

	w := doRequest(h, http.MethodPost, "/predict", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPredict_TimeoutIs504(t *testing.T) {
	slow := &classifier.Stub{Fn: func(model.Features) (float64, error) {
		time.Sleep(100 * time.Millisecond)
		return 0.5, nil
	}}
	h := newRouter(t, slow, 5*time.Millisecond)

	w := doRequest(h, http.MethodPost, "/predict", `{}`)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestScoreCustomer(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.65), time.Second)

	w := doRequest(h, http.MethodGet, "/customers/1/churn", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res predictResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, model.LabelChurn, res.Label)
	assert.Len(t, res.Advisories, 1)

	assert.Equal(t, http.StatusNotFound, doRequest(h, http.MethodGet, "/customers/2/churn", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, http.MethodGet, "/customers/abc/churn", "").Code)
}

func TestScoreCustomer_NoStoreConfigured(t *testing.T) {
	inference := service.NewInferenceService(classifier.Fixed(0.2), time.Second, nil)
	ctrl := &controller.ChurnController{ChurnService: &service.ChurnService{Inference: inference}}
	h := controller.NewRouter(ctrl, handler.NewHealthHandler(inference.ModelInfo()), nil)

	w := doRequest(h, http.MethodGet, "/customers/1/churn", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestFormAndModelEndpoints(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.2), time.Second)

	w := doRequest(h, http.MethodGet, "/form", "")
	require.Equal(t, http.StatusOK, w.Code)
	var layout struct {
		Sections []string         `json:"sections"`
		Fields   []map[string]any `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&layout))
	assert.Len(t, layout.Sections, 2)
	assert.Len(t, layout.Fields, 19)

	w = doRequest(h, http.MethodGet, "/model", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte(`"advisory":0.6`)))

	w = doRequest(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newRouter(t, classifier.Fixed(0.7), time.Second)
	require.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/predict", `{}`).Code)

	w := doRequest(h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `churn_predictions_total{label="Churn"} 1`)
	assert.Contains(t, w.Body.String(), "churn_advisories_total 1")
}
