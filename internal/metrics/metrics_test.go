package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordOperation(t *testing.T) {
	m := NewMetricsCollector()

	m.RecordOperation(OperationTypeDeliveryComplete, true, 10*time.Millisecond)
	m.RecordOperation(OperationTypeDeliveryComplete, true, 10*time.Millisecond)
	m.RecordOperation(OperationTypeDeliveryComplete, false, 10*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues(OperationTypeDeliveryComplete, "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(OperationTypeDeliveryComplete, "error")))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetricsCollector()

	m.RecordHTTPRequest("GET", "/api/orders", 200, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/orders", "200")))
}

func TestActiveSessionsGauge(t *testing.T) {
	m := NewMetricsCollector()

	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()

	require.Equal(t, 1.0, testutil.ToFloat64(m.activeSessions))
}

func TestGetMetricsCollectorIsShared(t *testing.T) {
	require.Same(t, GetMetricsCollector(), GetMetricsCollector())
}
