package classifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"telehealth-directory/config"
	"telehealth-directory/internal/infrastructure/upstream"
	"telehealth-directory/pkg/metrics"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	up := upstream.NewClient(metrics.ServiceClassifier, config.UpstreamConfig{URL: url, Timeout: time.Second, MaxRetries: 1}, nil, log, nil)
	return NewClient(url, up, log)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		specialty string
		found     bool
		malformed bool
	}{
		{"specialist present", `{"doctor_specialist": " Cardiology "}`, "Cardiology", true, false},
		{"field absent", `{"message": "unsure"}`, "", false, false},
		{"field null", `{"doctor_specialist": null}`, "", false, false},
		{"field blank", `{"doctor_specialist": "   "}`, "", false, false},
		{"field not a string", `{"doctor_specialist": 7}`, "", false, false},
		{"array body", `["Cardiology"]`, "", false, true},
		{"empty body", ``, "", false, true},
		{"truncated body", `{"doctor_specialist": "Card`, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specialty, found, err := Decode([]byte(tt.body))
			if tt.malformed {
				assert.ErrorIs(t, err, upstream.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.specialty, specialty)
			assert.Equal(t, tt.found, found)
		})
	}
}

func TestClassifyPostsSymptoms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "chest pain and shortness of breath", req["symptoms"])

		w.Write([]byte(`{"doctor_specialist": "Cardiology"}`))
	}))
	defer srv.Close()

	specialty, found, err := newTestClient(srv.URL).Classify(context.Background(), "chest pain and shortness of breath")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Cardiology", specialty)
}

func TestClassifyResendsBodyOnRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"symptoms": "rash"}`, string(body))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"doctor_specialist": "Dermatology"}`))
	}))
	defer srv.Close()

	specialty, found, err := newTestClient(srv.URL).Classify(context.Background(), "rash")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Dermatology", specialty)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClassifyClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, found, err := newTestClient(srv.URL).Classify(context.Background(), "rash")

	assert.ErrorIs(t, err, upstream.ErrUpstreamStatus)
	assert.False(t, found)
	assert.Equal(t, int32(1), calls.Load())
}
