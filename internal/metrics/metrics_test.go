package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.QuestionsTotal.WithLabelValues(ResultOK).Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.QuestionsTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.QuestionsTotal.WithLabelValues(ResultOK)))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.IndexBuildsTotal.WithLabelValues(ResultReused).Inc()
	m.ActiveSessions.Set(3)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `censusqa_index_builds_total{result="reused"} 1`)
	assert.Contains(t, body, "censusqa_active_sessions 3")
}
