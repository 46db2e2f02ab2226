package domain

import "time"

// Notifier доставляет уведомления пользователям.
// Отправка fire-and-forget: реализация не блокирует вызывающего и никогда не возвращает ошибку.
type Notifier interface {
	Notify(userID int64, message string)
}

// CartService — внешняя корзина покупателя.
// Используется при завершении аукциона и одобрении оффера.
type CartService interface {
	// GrantCartEntry добавляет товар в корзину пользователя (аддитивно к уже лежащему количеству).
	// priceOverride задаёт цену за единицу вместо каталожной (nil — каталожная цена).
	GrantCartEntry(userID, storeID, productID int64, quantity int, priceOverride *float64)
}

// MemberDirectory отвечает на вопрос, является ли пользователь зарегистрированным (не гостем).
// Слой сессий и аутентификации находится вне ядра.
type MemberDirectory interface {
	IsRegistered(userID int64) bool
}

// JournalEntry — событие жизненного цикла магазина для внешнего аудита.
type JournalEntry struct {
	ID       string
	StoreID  int64
	Type     string
	ActorID  int64
	Detail   string
	Occurred time.Time
}

// JournalRepository хранит журнал событий магазинов.
// Запись best-effort: ошибки журнала логируются и не влияют на результат операции.
type JournalRepository interface {
	Append(entry JournalEntry) error
	List(storeID int64) ([]JournalEntry, error)
}
