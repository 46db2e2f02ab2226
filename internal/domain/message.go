package domain

import "time"

// Message — обращение покупателя в магазин и (опционально) ответ на него.
type Message struct {
	ID        int64
	StoreID   int64
	UserID    int64
	Body      string
	Reply     string
	RepliedBy int64
	CreatedAt time.Time
	RepliedAt time.Time
}

// Answered сообщает, был ли дан ответ на обращение.
func (m Message) Answered() bool {
	return m.Reply != ""
}
