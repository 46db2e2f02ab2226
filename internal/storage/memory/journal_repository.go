package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// journalRepositoryInMemory хранит журнал событий магазинов в памяти
// (для разработки и тестов).
type journalRepositoryInMemory struct {
	mu      sync.RWMutex
	entries map[int64][]domain.JournalEntry
}

// NewJournalRepository создаёт in-memory реализацию JournalRepository.
func NewJournalRepository() domain.JournalRepository {
	return &journalRepositoryInMemory{entries: make(map[int64][]domain.JournalEntry)}
}

// Append добавляет событие в журнал магазина.
func (r *journalRepositoryInMemory) Append(entry domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entry.StoreID] = append(r.entries[entry.StoreID], entry)

	sort.Slice(r.entries[entry.StoreID], func(i, j int) bool {
		return r.entries[entry.StoreID][i].Occurred.Before(r.entries[entry.StoreID][j].Occurred)
	})

	return nil
}

// List возвращает события магазина в хронологическом порядке.
func (r *journalRepositoryInMemory) List(storeID int64) ([]domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[storeID]
	result := make([]domain.JournalEntry, len(entries))
	copy(result, entries)
	return result, nil
}

var _ domain.JournalRepository = (*journalRepositoryInMemory)(nil)
