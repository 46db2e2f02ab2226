package members

import (
	"sync"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// MockService — заглушка справочника пользователей.
// По умолчанию все пользователи считаются зарегистрированными;
// гостей можно отметить явно.
type MockService struct {
	mu     sync.Mutex
	guests map[int64]struct{}
}

// NewMockService возвращает заглушку без гостей.
func NewMockService() *MockService {
	return &MockService{guests: make(map[int64]struct{})}
}

// MarkGuest помечает пользователя гостем.
func (m *MockService) MarkGuest(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guests[userID] = struct{}{}
}

// IsRegistered сообщает, зарегистрирован ли пользователь.
func (m *MockService) IsRegistered(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, guest := m.guests[userID]
	return !guest
}

var _ domain.MemberDirectory = (*MockService)(nil)
