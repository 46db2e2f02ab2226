package cart

import (
	"sync"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// Entry — одна выдача в корзину, записанная заглушкой.
type Entry struct {
	UserID    int64
	StoreID   int64
	ProductID int64
	Quantity  int
	Price     *float64
}

// MockService — потокобезопасная заглушка CartService для тестов.
type MockService struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMockService возвращает пустую заглушку.
func NewMockService() *MockService {
	return &MockService{}
}

// GrantCartEntry запоминает выдачу в корзину.
func (m *MockService) GrantCartEntry(userID, storeID, productID int64, quantity int, priceOverride *float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{
		UserID:    userID,
		StoreID:   storeID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     priceOverride,
	})
}

// Entries возвращает копию всех выдач.
func (m *MockService) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

// EntriesFor возвращает выдачи конкретного пользователя.
func (m *MockService) EntriesFor(userID int64) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []Entry
	for _, entry := range m.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result
}

var _ domain.CartService = (*MockService)(nil)
