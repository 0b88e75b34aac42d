package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telehealth-directory/config"
	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/infrastructure/classifier"
	"telehealth-directory/internal/infrastructure/directory"
	"telehealth-directory/internal/infrastructure/upstream"
	"telehealth-directory/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDirectory = `{
	"d1": {"name": "A", "specialization": "Cardiology", "approvedAt": "2024-01-01"},
	"d2": {"name": "B", "specialty": "Dermatology"}
}`

func newScenarioCoordinator(t *testing.T, classifierHandler http.HandlerFunc) (*DirectorySearchCoordinator, *metrics.Metrics) {
	t.Helper()

	directorySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scenarioDirectory))
	}))
	t.Cleanup(directorySrv.Close)

	classifierSrv := httptest.NewServer(classifierHandler)
	t.Cleanup(classifierSrv.Close)

	log := newTestLogger()
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test", "scenario")
	cfg := config.UpstreamConfig{Timeout: time.Second, MaxRetries: 1}

	dir := directory.NewClient(directorySrv.URL, upstream.NewClient(metrics.ServiceDirectory, cfg, nil, log, m), log)
	cls := classifier.NewClient(classifierSrv.URL, upstream.NewClient(metrics.ServiceClassifier, cfg, nil, log, m), log)

	return NewDirectorySearchCoordinator(dir, cls, log, m), m
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestScenarioLoadDirectoryHidesUnapproved(t *testing.T) {
	c, m := newScenarioCoordinator(t, respond(`{}`))

	view := c.LoadDirectory(context.Background())

	require.Len(t, view.Doctors, 1)
	assert.Equal(t, entity.Doctor{ID: "d1", Name: "A", Specialty: "Cardiology", ApprovedAt: "2024-01-01"}, view.Doctors[0])
	assert.Equal(t, 1, testutil.CollectAndCount(m.BaselineSize))
}

func TestScenarioClassifierMatch(t *testing.T) {
	c, m := newScenarioCoordinator(t, respond(`{"doctor_specialist": "Cardiology"}`))
	c.LoadDirectory(context.Background())

	c.Submit(context.Background(), "chest pain")

	st := c.State()
	require.Len(t, st.Results, 1)
	assert.Equal(t, "d1", st.Results[0].ID)
	assert.False(t, st.NoMatchFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Searches.WithLabelValues(metrics.OutcomeMatched)))
}

func TestScenarioClassifierWithoutSpecialist(t *testing.T) {
	c, m := newScenarioCoordinator(t, respond(`{}`))
	baseline := c.LoadDirectory(context.Background()).Doctors

	view, _ := c.Submit(context.Background(), "headache")

	assert.Empty(t, c.State().Results)
	assert.True(t, view.NoMatchFound)
	assert.Equal(t, baseline, view.Doctors)
	assert.Equal(t, entity.NoMatchBanner, view.Banner)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Searches.WithLabelValues(metrics.OutcomeNoMatch)))
}

func TestScenarioClassifierUnavailable(t *testing.T) {
	c, m := newScenarioCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	baseline := c.LoadDirectory(context.Background()).Doctors

	view, _ := c.Submit(context.Background(), "headache")

	assert.Empty(t, c.State().Results)
	assert.True(t, view.NoMatchFound)
	assert.Equal(t, baseline, view.Doctors)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamRetries.WithLabelValues(metrics.ServiceClassifier)))
}
