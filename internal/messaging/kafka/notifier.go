package kafka

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// defaultNotifierBuffer — размер очереди уведомлений на отправку.
const defaultNotifierBuffer = 1024

// publisher — то, что умеет отправить событие уведомления (Producer или заглушка в тестах).
type publisher interface {
	PublishNotification(event *NotificationEvent) error
}

// Notifier — асинхронная Kafka-реализация domain.Notifier.
// Notify никогда не блокирует и не возвращает ошибок: событие кладётся
// в буфер, отправкой занимается фоновый worker. Переполненный буфер
// означает потерю уведомления с warn-логом — доставка best-effort.
type Notifier struct {
	publisher publisher
	queue     chan *NotificationEvent
	logger    *log.Entry

	closeOnce sync.Once
	done      chan struct{}
}

// NewNotifier создаёт notifier поверх producer и запускает worker.
func NewNotifier(publisher publisher, logger *log.Entry) *Notifier {
	if logger == nil {
		logger = log.New().WithField("component", "kafka-notifier")
	}
	n := &Notifier{
		publisher: publisher,
		queue:     make(chan *NotificationEvent, defaultNotifierBuffer),
		logger:    logger,
		done:      make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify ставит уведомление в очередь на публикацию.
func (n *Notifier) Notify(userID int64, message string) {
	event := NewNotificationEvent(userID, message)
	select {
	case n.queue <- event:
	default:
		n.logger.WithField("user_id", userID).Warn("notification queue full, dropping notification")
	}
}

// run публикует уведомления из очереди до закрытия.
func (n *Notifier) run() {
	defer close(n.done)
	for event := range n.queue {
		if err := n.publisher.PublishNotification(event); err != nil {
			n.logger.WithError(err).WithField("user_id", event.UserID).
				Warn("failed to publish notification")
		}
	}
}

// Close останавливает worker, дождавшись отправки накопленного.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		close(n.queue)
	})
	<-n.done
}

var _ domain.Notifier = (*Notifier)(nil)
