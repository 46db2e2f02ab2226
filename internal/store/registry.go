package store

import (
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// Sequences — счётчики идентификаторов, принадлежащие реестру.
// Глобальных изменяемых счётчиков в пакете нет: источник идентификаторов
// передаётся магазинам явно.
type Sequences struct {
	storeIDs   atomic.Int64
	productIDs atomic.Int64
	messageIDs atomic.Int64
}

// NewSequences создаёт источник идентификаторов.
func NewSequences() *Sequences {
	return &Sequences{}
}

// NextStoreID выдаёт следующий идентификатор магазина.
func (s *Sequences) NextStoreID() int64 { return s.storeIDs.Add(1) }

// NextProductID выдаёт следующий идентификатор товара.
func (s *Sequences) NextProductID() int64 { return s.productIDs.Add(1) }

// NextMessageID выдаёт следующий идентификатор обращения.
func (s *Sequences) NextMessageID() int64 { return s.messageIDs.Add(1) }

// Registry — фабрика и каталог магазинов процесса.
type Registry struct {
	mu     sync.RWMutex
	stores map[int64]*Store

	seq    *Sequences
	deps   Deps
	logger *log.Entry
}

// NewRegistry создаёт пустой реестр с общими внешними коллабораторами.
func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = log.New().WithField("component", "registry")
	}
	return &Registry{
		stores: make(map[int64]*Store),
		seq:    NewSequences(),
		deps:   deps,
		logger: deps.Logger,
	}
}

// CreateStore открывает новый магазин с указанным основателем.
func (r *Registry) CreateStore(founderID int64, name string) (*Store, error) {
	if name == "" {
		return nil, domain.InvalidArgument("store name is required")
	}
	if r.deps.Members != nil && !r.deps.Members.IsRegistered(founderID) {
		return nil, domain.PermissionDenied("guest users cannot found stores")
	}

	storeID := r.seq.NextStoreID()
	s := New(storeID, name, founderID, r.seq, r.deps)

	r.mu.Lock()
	r.stores[storeID] = s
	r.mu.Unlock()

	r.logger.WithFields(log.Fields{
		"store_id":   storeID,
		"founder_id": founderID,
	}).Info("store created")
	return s, nil
}

// Get возвращает магазин по идентификатору.
func (r *Registry) Get(storeID int64) (*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[storeID]
	if !ok {
		return nil, domain.NotFound("store %d not found", storeID)
	}
	return s, nil
}

// StoreIDs возвращает идентификаторы всех магазинов.
func (r *Registry) StoreIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]int64, 0, len(r.stores))
	for id := range r.stores {
		result = append(result, id)
	}
	return result
}

// TickAuctions продвигает время аукционов всех магазинов.
// Вызывается внешним планировщиком с грубым интервалом.
func (r *Registry) TickAuctions(delta time.Duration) {
	r.mu.RLock()
	stores := make([]*Store, 0, len(r.stores))
	for _, s := range r.stores {
		stores = append(stores, s)
	}
	r.mu.RUnlock()

	// Тикаем вне блокировки реестра: магазины сериализуют себя сами.
	for _, s := range stores {
		s.Tick(delta)
	}
}

// ClearStoreData уничтожает магазин вместе с принадлежащими ему товарами,
// аукционами и офферами.
func (r *Registry) ClearStoreData(storeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[storeID]; !ok {
		return domain.NotFound("store %d not found", storeID)
	}
	delete(r.stores, storeID)
	r.logger.WithField("store_id", storeID).Info("store data cleared")
	return nil
}
