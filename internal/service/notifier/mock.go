package notifier

import (
	"sync"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// MockService — потокобезопасная заглушка Notifier для тестов:
// запоминает все отправленные уведомления.
type MockService struct {
	mu       sync.Mutex
	messages map[int64][]string
	calls    int
}

// NewMockService возвращает пустую заглушку.
func NewMockService() *MockService {
	return &MockService{messages: make(map[int64][]string)}
}

// Notify запоминает уведомление. Никогда не блокирует и не падает.
func (m *MockService) Notify(userID int64, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[userID] = append(m.messages[userID], message)
	m.calls++
}

// MessagesFor возвращает копию уведомлений пользователя.
func (m *MockService) MessagesFor(userID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.messages[userID]))
	copy(result, m.messages[userID])
	return result
}

// Calls возвращает общее количество отправленных уведомлений.
func (m *MockService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ domain.Notifier = (*MockService)(nil)
