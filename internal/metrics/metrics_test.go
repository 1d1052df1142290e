package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSettlement(t *testing.T) {
	m := New()

	m.ObserveSettlement(2, nil)
	m.ObserveSettlement(0, nil)
	m.ObserveSettlement(0, errors.New("unbalanced"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Settlements.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Settlements.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Transfers))
}

func TestObserveRPC(t *testing.T) {
	m := New()
	m.ObserveRPC("/settleup.v1.SettleService/Settle", "ok", 0.002)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("/settleup.v1.SettleService/Settle", "ok")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRPC("p", "ok", 1)
		m.ObserveSettlement(1, nil)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSettlement(1, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "settleup_settlements_total"))
}
