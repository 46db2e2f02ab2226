package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func newIsolatedMetrics(t *testing.T) *StoreMetrics {
	t.Helper()
	return NewStoreMetricsWithRegisterer(prometheus.NewRegistry())
}

func counterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, counter.Write(metric))
	return metric.GetCounter().GetValue()
}

func TestNewStoreMetrics(t *testing.T) {
	m := newIsolatedMetrics(t)

	require.NotNil(t, m.assignmentsProposed)
	require.NotNil(t, m.roleChanges)
	require.NotNil(t, m.bidsPlaced)
	require.NotNil(t, m.bidsRejected)
	require.NotNil(t, m.auctionsCompleted)
	require.NotNil(t, m.offersPlaced)
	require.NotNil(t, m.offersApproved)
	require.NotNil(t, m.offersDeclined)
	require.NotNil(t, m.offersCountered)
	require.NotNil(t, m.purchases)
}

func TestRecordCounters(t *testing.T) {
	m := newIsolatedMetrics(t)

	m.RecordBidPlaced()
	m.RecordBidPlaced()
	m.RecordBidRejected()
	m.RecordOfferPlaced()
	m.RecordOfferApproved()
	m.RecordOfferDeclined()
	m.RecordOfferCountered()
	m.RecordAuctionCompleted()
	m.RecordAssignmentProposed()
	m.RecordRoleChange()
	m.RecordPurchase()

	require.Equal(t, 2.0, counterValue(t, m.bidsPlaced))
	require.Equal(t, 1.0, counterValue(t, m.bidsRejected))
	require.Equal(t, 1.0, counterValue(t, m.offersPlaced))
	require.Equal(t, 1.0, counterValue(t, m.offersApproved))
	require.Equal(t, 1.0, counterValue(t, m.offersDeclined))
	require.Equal(t, 1.0, counterValue(t, m.offersCountered))
	require.Equal(t, 1.0, counterValue(t, m.auctionsCompleted))
	require.Equal(t, 1.0, counterValue(t, m.assignmentsProposed))
	require.Equal(t, 1.0, counterValue(t, m.roleChanges))
	require.Equal(t, 1.0, counterValue(t, m.purchases))
}

func TestReRegisterIsTolerated(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := NewStoreMetricsWithRegisterer(registry)
	second := NewStoreMetricsWithRegisterer(registry)

	first.RecordBidPlaced()
	second.RecordBidPlaced()

	// Повторная регистрация возвращает существующие коллекторы.
	require.Equal(t, 2.0, counterValue(t, second.bidsPlaced))
}
