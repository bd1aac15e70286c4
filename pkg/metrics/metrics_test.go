package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	m, ok := c.(prometheus.Metric)
	require.True(t, ok)
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	return out.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, g.Write(&out))
	return out.GetGauge().GetValue()
}

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := LoansBorrowedTotal
	InitMetrics()

	assert.Same(t, first, LoansBorrowedTotal)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, MessagesPublishedTotal)
}

func TestLoanMetrics(t *testing.T) {
	InitMetrics()
	before := counterValue(t, LoansBorrowedTotal)
	lateBefore := counterValue(t, LoansReturnedTotal.WithLabelValues("true"))
	finesBefore := counterValue(t, FinesAmountTotal)

	LoanBorrowed()
	LoanBorrowed()
	LoanReturned(true)
	FineCreated(20000)

	assert.Equal(t, before+2, counterValue(t, LoansBorrowedTotal))
	assert.Equal(t, lateBefore+1, counterValue(t, LoansReturnedTotal.WithLabelValues("true")))
	assert.Equal(t, finesBefore+20000, counterValue(t, FinesAmountTotal))
}

func TestInfrastructureMetrics(t *testing.T) {
	InitMetrics()

	BreakerState("asset-store", 1)
	assert.Equal(t, float64(1), gaugeValue(t, CircuitBreakerState.WithLabelValues("asset-store")))

	failed := counterValue(t, MessagesPublishedTotal.WithLabelValues("loan.borrowed", "failure"))
	MessagePublished("loan.borrowed", errors.New("closed"))
	assert.Equal(t, failed+1, counterValue(t, MessagesPublishedTotal.WithLabelValues("loan.borrowed", "failure")))

	hits := counterValue(t, BookCacheRequests.WithLabelValues("hit"))
	BookCache("hit")
	assert.Equal(t, hits+1, counterValue(t, BookCacheRequests.WithLabelValues("hit")))
}
