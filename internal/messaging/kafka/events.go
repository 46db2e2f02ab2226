package kafka

import (
	"time"

	"github.com/google/uuid"
)

// EventType определяет тип публикуемого события
type EventType string

const (
	// Уведомления пользователям
	EventTypeUserNotified EventType = "user.notified"
)

// Topics для Kafka
const (
	TopicNotifications = "marketplace.notifications"
)

// NotificationEvent представляет уведомление пользователю,
// публикуемое во внешнюю шину доставки.
type NotificationEvent struct {
	ID        string    `json:"id"`
	EventType EventType `json:"event_type"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNotificationEvent создает событие уведомления.
func NewNotificationEvent(userID int64, message string) *NotificationEvent {
	return &NotificationEvent{
		ID:        uuid.NewString(),
		EventType: EventTypeUserNotified,
		UserID:    userID,
		Message:   message,
		Timestamp: time.Now(),
	}
}
