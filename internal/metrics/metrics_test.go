package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposed(t *testing.T) {
	m := New()
	m.ParcelsCreated.WithLabelValues("basic").Inc()
	m.PaymentsSettled.WithLabelValues("parcel", "success").Add(2)
	m.DisputesOpened.Inc()

	require.Equal(t, 1.0, testutil.ToFloat64(m.ParcelsCreated.WithLabelValues("basic")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.PaymentsSettled.WithLabelValues("parcel", "success")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "parcelpeer_disputes_opened_total 1")
	require.Contains(t, string(body), "go_goroutines")
}
