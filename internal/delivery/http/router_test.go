package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"telehealth-directory/config"
	"telehealth-directory/internal/delivery/http/handler"
	"telehealth-directory/internal/delivery/http/middleware"
	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/infrastructure/classifier"
	"telehealth-directory/internal/infrastructure/directory"
	"telehealth-directory/internal/infrastructure/upstream"
	"telehealth-directory/internal/infrastructure/videocall"
	"telehealth-directory/internal/service"
	"telehealth-directory/internal/usecase"
	"telehealth-directory/pkg/jwt"
	"telehealth-directory/pkg/metrics"
	"telehealth-directory/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type viewData struct {
	SessionID    string `json:"session_id"`
	Query        string `json:"query"`
	Active       bool   `json:"active"`
	NoMatchFound bool   `json:"no_match_found"`
	Banner       string `json:"banner"`
	Total        int    `json:"total"`
	Doctors      []struct {
		ID string `json:"id"`
	} `json:"doctors"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	directorySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"d1": {"name": "A", "specialization": "Cardiology", "approvedAt": "2024-01-01"},
			"d2": {"name": "B", "specialty": "Dermatology"},
			"d3": {"name": "C", "specialty": "Dermatology", "approvedAt": "2024-02-01"}
		}`))
	}))
	t.Cleanup(directorySrv.Close)

	classifierSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Symptoms string `json:"symptoms"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Symptoms, "chest") {
			w.Write([]byte(`{"doctor_specialist": "Cardiology"}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(classifierSrv.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry, "test", "api")
	upstreamCfg := config.UpstreamConfig{Timeout: time.Second, MaxRetries: 1}

	dir := directory.NewClient(directorySrv.URL, upstream.NewClient(metrics.ServiceDirectory, upstreamCfg, nil, log, m), log)
	cls := classifier.NewClient(classifierSrv.URL, upstream.NewClient(metrics.ServiceClassifier, upstreamCfg, nil, log, m), log)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	v := validator.NewValidator()
	audit := service.NewNoopAuditService()
	allowList := entity.AdminAllowList{"admin@clinic.example"}

	directoryUsecase := usecase.NewDirectorySessionUsecase(log, dir, cls, audit, m, time.Minute, time.Minute)
	authUsecase := usecase.NewAuthUsecase(log, nil, allowList, jwtService, redisClient, audit)
	callUsecase := usecase.NewCallUsecase(log, videocall.NewNoopProvider(), audit, m)

	router := NewRouter(
		handler.NewDirectoryHandler(directoryUsecase, v),
		handler.NewAuthHandler(authUsecase, v, jwtService),
		nil,
		handler.NewCallHandler(callUsecase, v),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		middleware.NewAuthMiddleware(jwtService, redisClient),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
		middleware.NewRateLimitMiddleware(100, 100),
		allowList,
	)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func decodeView(t *testing.T, env envelope) viewData {
	t.Helper()
	var view viewData
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view
}

func TestDirectorySessionFlow(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1/directory/sessions"

	status, env := call(t, http.MethodPost, base, nil)
	require.Equal(t, http.StatusCreated, status)
	opened := decodeView(t, env)
	require.NotEmpty(t, opened.SessionID)
	assert.Equal(t, 2, opened.Total)
	sessionURL := base + "/" + opened.SessionID

	status, env = call(t, http.MethodPost, sessionURL+"/search", map[string]string{"query": "chest pain"})
	require.Equal(t, http.StatusOK, status)
	matched := decodeView(t, env)
	assert.True(t, matched.Active)
	require.Len(t, matched.Doctors, 1)
	assert.Equal(t, "d1", matched.Doctors[0].ID)

	status, env = call(t, http.MethodPost, sessionURL+"/search", map[string]string{"query": "headache"})
	require.Equal(t, http.StatusOK, status)
	noMatch := decodeView(t, env)
	assert.True(t, noMatch.NoMatchFound)
	assert.Equal(t, entity.NoMatchBanner, noMatch.Banner)
	assert.Equal(t, 2, noMatch.Total)

	status, env = call(t, http.MethodDelete, sessionURL+"/search", nil)
	require.Equal(t, http.StatusOK, status)
	cleared := decodeView(t, env)
	assert.False(t, cleared.Active)
	assert.False(t, cleared.NoMatchFound)
	assert.Empty(t, cleared.Banner)

	status, _ = call(t, http.MethodGet, sessionURL, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, http.MethodDelete, sessionURL, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, http.MethodGet, sessionURL, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSearchValidatesQueryLength(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1/directory/sessions"

	_, env := call(t, http.MethodPost, base, nil)
	opened := decodeView(t, env)

	status, _ := call(t, http.MethodPost, base+"/"+opened.SessionID+"/search", map[string]string{"query": strings.Repeat("a", 501)})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCallJoinWithNoopProvider(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, http.MethodPost, srv.URL+"/api/v1/calls/join", map[string]string{
		"room_id":   "room-9",
		"user_id":   "patient-1",
		"user_name": "Pat",
	})

	require.Equal(t, http.StatusOK, status)
	var session struct {
		Provider string `json:"provider"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, videocall.ProviderNone, session.Provider)
	assert.Empty(t, session.Token)

	status, _ = call(t, http.MethodPost, srv.URL+"/api/v1/calls/join", map[string]string{"room_id": "room-9"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCallRoutesRejectBlankAndOversizedInput(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, http.MethodPost, srv.URL+"/api/v1/calls/join", map[string]string{
		"room_id":   "   ",
		"user_id":   "  ",
		"user_name": " ",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Contains(t, string(env.Error), "room_id")

	status, _ = call(t, http.MethodPost, srv.URL+"/api/v1/calls/call-1/end", map[string]interface{}{
		"reason":           "completed",
		"duration_seconds": int64(10000000000),
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, http.MethodPost, srv.URL+"/api/v1/calls/call-1/end", map[string]interface{}{
		"reason":           "completed",
		"duration_seconds": 300,
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	status, _ := call(t, http.MethodGet, srv.URL+"/api/v1/admin/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, http.MethodPost, srv.URL+"/api/v1/admin/auth/login", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	call(t, http.MethodPost, srv.URL+"/api/v1/directory/sessions", nil)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_api_directory_sessions_active 1")
	assert.Contains(t, string(body), "test_api_upstream_requests_total")
}
