package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rewards/voucherhub/internal/clock"
	"rewards/voucherhub/internal/codegen"
	"rewards/voucherhub/internal/config"
	"rewards/voucherhub/internal/handler"
	"rewards/voucherhub/internal/handler/middleware"
	"rewards/voucherhub/internal/metrics"
	"rewards/voucherhub/internal/model"
	"rewards/voucherhub/internal/repository"
	"rewards/voucherhub/internal/service"
)

const wordsPath = "/voucher/offensive-words"

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type unreachableParams struct {
	repository.ParamStore
}

func (unreachableParams) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

type testServer struct {
	router *gin.Engine
	repo   repository.VoucherRepository
	params repository.ParamStore
	clock  *clock.Mock
}

func newTestServer(t *testing.T, params repository.ParamStore) *testServer {
	t.Helper()
	if params == nil {
		params = repository.NewMemoryParamStore(nil)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT"},
		},
	}
	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ts := &testServer{
		repo:   repository.NewMemoryVoucherRepository(),
		params: params,
		clock:  clock.NewMock(now),
	}

	voucherService := service.NewVoucherService(ts.repo, params, codegen.NewGenerator(), ts.clock, wordsPath, m, logger)
	expiryService := service.NewExpiryService(ts.repo, ts.clock, m, logger)

	ts.router = handler.SetupRouter(
		cfg,
		logger,
		handler.NewVoucherHandler(voucherService),
		handler.NewAdminHandler(voucherService, expiryService),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestIssueVoucher_Created(t *testing.T) {
	ts := newTestServer(t, nil)

	w, env := ts.do(t, http.MethodPost, "/api/v1/vouchers", `{"value": 100, "expiryDate": "2024-12-31"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "Voucher generated and stored successfully", env.Message)

	var data struct {
		VoucherCode string `json:"voucherCode"`
		Voucher     struct {
			Code       string  `json:"code"`
			Value      float64 `json:"value"`
			ExpiryDate string  `json:"expiryDate"`
			CreatedAt  string  `json:"createdAt"`
			IsValid    bool    `json:"isValid"`
		} `json:"voucher"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	assert.True(t, codegen.IsWellFormed(data.VoucherCode))
	assert.Equal(t, data.VoucherCode, data.Voucher.Code)
	assert.Equal(t, 100.0, data.Voucher.Value)
	assert.Equal(t, "2024-12-31T00:00:00Z", data.Voucher.ExpiryDate)
	assert.Equal(t, "2024-01-15T12:00:00Z", data.Voucher.CreatedAt)
	assert.True(t, data.Voucher.IsValid)

	exists, err := ts.repo.Exists(context.Background(), data.VoucherCode)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIssueVoucher_InvalidData(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing expiry", `{"value": 100}`, "invalid request body"},
		{"missing value", `{"expiryDate": "2024-12-31"}`, "invalid request body"},
		{"empty expiry", `{"value": 100, "expiryDate": ""}`, "invalid request body"},
		{"zero value", `{"value": 0, "expiryDate": "2024-12-31"}`, "invalid voucher data"},
		{"past expiry", `{"value": 100, "expiryDate": "2020-01-01"}`, "invalid voucher data"},
		{"bad expiry", `{"value": 100, "expiryDate": "soon"}`, "invalid voucher data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := ts.do(t, http.MethodPost, "/api/v1/vouchers", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 400, env.Code)
			assert.Contains(t, env.Message, tt.wantMsg)
		})
	}
}

func TestIssueVoucher_NoOffsetExpiry(t *testing.T) {
	ts := newTestServer(t, nil)

	w, env := ts.do(t, http.MethodPost, "/api/v1/vouchers", `{"value": 25.555, "expiryDate": "2024-12-31T10:00:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var data handler.IssueVoucherResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 25.555, data.Voucher.Value)
	assert.True(t, time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC).Equal(data.Voucher.ExpiryDate))

	w, env = ts.do(t, http.MethodGet, "/api/v1/vouchers/"+data.VoucherCode, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored model.Voucher
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Equal(t, 25.555, stored.Value)
}

func TestIssueVoucher_MalformedJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	w, env := ts.do(t, http.MethodPost, "/api/v1/vouchers", `{"value": "lots"`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "invalid request body")
}

func TestIssueVoucher_ParameterSourceDown(t *testing.T) {
	ts := newTestServer(t, unreachableParams{})

	w, env := ts.do(t, http.MethodPost, "/api/v1/vouchers", `{"value": 100, "expiryDate": "2024-12-31"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", env.Message)
}

func TestIssueVoucher_ExhaustedIsDistinct(t *testing.T) {
	everyChar := strings.Join(strings.Split(codegen.Alphabet, ""), ",")
	ts := newTestServer(t, repository.NewMemoryParamStore(map[string]string{wordsPath: everyChar}))

	w, env := ts.do(t, http.MethodPost, "/api/v1/vouchers", `{"value": 100, "expiryDate": "2024-12-31"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 503, env.Code)
	assert.Equal(t, "voucher code generation exhausted", env.Message)
}

func TestGetVoucher(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()
	expiry := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ts.repo.Create(ctx, model.NewVoucher("VALIDCODE0000001", 100, expiry, now)))

	w, env := ts.do(t, http.MethodGet, "/api/v1/vouchers/VALIDCODE0000001", "")
	require.Equal(t, http.StatusOK, w.Code)

	var v model.Voucher
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "VALIDCODE0000001", v.Code)
	assert.Equal(t, 100.0, v.Value)
	assert.True(t, expiry.Equal(v.ExpiryDate))
	assert.True(t, now.Equal(v.CreatedAt))
	assert.True(t, v.IsValid)
}

func TestGetVoucher_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, code := range []string{"MISSING000000001", "not-a-code"} {
		w, env := ts.do(t, http.MethodGet, "/api/v1/vouchers/"+code, "")

		assert.Equal(t, http.StatusNotFound, w.Code, code)
		assert.Equal(t, "Voucher not found", env.Message)
	}
}

func TestAdminOffensiveWords_RoundTrip(t *testing.T) {
	ts := newTestServer(t, nil)

	w, env := ts.do(t, http.MethodPut, "/api/v1/admin/offensive-words", `{"words": ["ZZZ", " BAD ", ""]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var put handler.OffensiveWordsResponse
	require.NoError(t, json.Unmarshal(env.Data, &put))
	assert.Equal(t, []string{"BAD", "ZZZ"}, put.Words)
	assert.Equal(t, 2, put.Count)

	raw, ok, err := ts.params.Get(context.Background(), wordsPath)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "BAD,ZZZ", raw)

	w, env = ts.do(t, http.MethodGet, "/api/v1/admin/offensive-words", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got handler.OffensiveWordsResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, put, got)
}

func TestAdminOffensiveWords_RejectsCommas(t *testing.T) {
	ts := newTestServer(t, nil)

	w, _ := ts.do(t, http.MethodPut, "/api/v1/admin/offensive-words", `{"words": ["A,B"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminSweep(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()
	require.NoError(t, ts.repo.Create(ctx, model.NewVoucher("SOON000000000001", 5, now.Add(time.Hour), now)))
	require.NoError(t, ts.repo.Create(ctx, model.NewVoucher("LATER00000000001", 5, now.Add(72*time.Hour), now)))

	ts.clock.Advance(2 * time.Hour)
	w, env := ts.do(t, http.MethodPost, "/api/v1/admin/sweep", "")
	require.Equal(t, http.StatusOK, w.Code)

	var data handler.SweepResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(1), data.Invalidated)

	_, env = ts.do(t, http.MethodGet, "/api/v1/vouchers/SOON000000000001", "")
	var v model.Voucher
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.False(t, v.IsValid)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	w, _ := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	ts.do(t, http.MethodPost, "/api/v1/vouchers", `{"value": 100, "expiryDate": "2024-12-31"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "voucherhub_vouchers_issued_total 1")
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, nil)

	w, _ := ts.do(t, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(middleware.HeaderRequestID))
}
