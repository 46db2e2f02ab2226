package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics содержит метрики операций агрегата магазина.
type StoreMetrics struct {
	// Счётчики ролей
	assignmentsProposed prometheus.Counter
	roleChanges         prometheus.Counter

	// Счётчики аукционов
	bidsPlaced        prometheus.Counter
	bidsRejected      prometheus.Counter
	auctionsCompleted prometheus.Counter

	// Счётчики офферов
	offersPlaced    prometheus.Counter
	offersApproved  prometheus.Counter
	offersDeclined  prometheus.Counter
	offersCountered prometheus.Counter

	// Покупки
	purchases prometheus.Counter
}

// NewStoreMetrics создаёт метрики в default-реестре Prometheus.
func NewStoreMetrics() *StoreMetrics {
	return NewStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStoreMetricsWithRegisterer создаёт метрики в указанном реестре (для тестов).
func NewStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		assignmentsProposed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_assignments_proposed_total",
			Help: "Total number of role assignments proposed",
		}),
		roleChanges: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_role_changes_total",
			Help: "Total number of role grants and removals",
		}),
		bidsPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_bids_placed_total",
			Help: "Total number of accepted auction bids",
		}),
		bidsRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_bids_rejected_total",
			Help: "Total number of rejected auction bids",
		}),
		auctionsCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_auctions_completed_total",
			Help: "Total number of completed auctions",
		}),
		offersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_offers_placed_total",
			Help: "Total number of buyer offers placed",
		}),
		offersApproved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_offers_approved_total",
			Help: "Total number of offers approved unanimously",
		}),
		offersDeclined: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_offers_declined_total",
			Help: "Total number of declined offers",
		}),
		offersCountered: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_offers_countered_total",
			Help: "Total number of counter-offers issued",
		}),
		purchases: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_purchases_total",
			Help: "Total number of completed product purchases",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

// RecordAssignmentProposed увеличивает счётчик предложенных назначений.
func (m *StoreMetrics) RecordAssignmentProposed() {
	m.assignmentsProposed.Inc()
}

// RecordRoleChange увеличивает счётчик изменений ролей.
func (m *StoreMetrics) RecordRoleChange() {
	m.roleChanges.Inc()
}

// RecordBidPlaced увеличивает счётчик принятых ставок.
func (m *StoreMetrics) RecordBidPlaced() {
	m.bidsPlaced.Inc()
}

// RecordBidRejected увеличивает счётчик отклонённых ставок.
func (m *StoreMetrics) RecordBidRejected() {
	m.bidsRejected.Inc()
}

// RecordAuctionCompleted увеличивает счётчик завершённых аукционов.
func (m *StoreMetrics) RecordAuctionCompleted() {
	m.auctionsCompleted.Inc()
}

// RecordOfferPlaced увеличивает счётчик размещённых офферов.
func (m *StoreMetrics) RecordOfferPlaced() {
	m.offersPlaced.Inc()
}

// RecordOfferApproved увеличивает счётчик одобренных офферов.
func (m *StoreMetrics) RecordOfferApproved() {
	m.offersApproved.Inc()
}

// RecordOfferDeclined увеличивает счётчик отклонённых офферов.
func (m *StoreMetrics) RecordOfferDeclined() {
	m.offersDeclined.Inc()
}

// RecordOfferCountered увеличивает счётчик встречных предложений.
func (m *StoreMetrics) RecordOfferCountered() {
	m.offersCountered.Inc()
}

// RecordPurchase увеличивает счётчик покупок.
func (m *StoreMetrics) RecordPurchase() {
	m.purchases.Inc()
}
