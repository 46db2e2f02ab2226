package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
)

// defaultOfferFloor — минимальная сумма оффера и встречного предложения.
const defaultOfferFloor = 1.0

// Deps — внешние коллабораторы агрегата. Любой из них может быть nil:
// уведомления, корзина и журнал тогда молча пропускаются, а проверка
// регистрации пользователя считается пройденной.
type Deps struct {
	Notifier domain.Notifier
	Cart     domain.CartService
	Members  domain.MemberDirectory
	Journal  domain.JournalRepository
	Metrics  *metrics.StoreMetrics
	Logger   *log.Entry
}

// Store — агрегат магазина: иерархия ролей, каталог, аукционы, офферы и переписка.
// Несколько потоков работают с агрегатом напрямую; корректность обеспечивают
// две крупнозернистые блокировки (см. guards.go) и мьютексы отдельных записей.
type Store struct {
	id        int64
	name      string
	founderID int64

	// rolesMu защищает дерево ролей, владельцев, менеджеров, pending-назначения,
	// офферы, флаг открытости и переписку. invMu защищает каталог и аукционы.
	// Порядок захвата закреплён типами rolesGuard/inventoryGuard.
	rolesMu sync.Mutex
	invMu   sync.Mutex

	open     bool
	tree     *roleTree
	owners   map[int64]struct{}
	managers map[int64]domain.PermissionSet
	pending  *pendingAssignments
	offers   *offerBook
	messages []domain.Message

	inventory *inventoryLedger
	auctions  *auctionEngine

	seq  *Sequences
	deps Deps

	offerFloor float64
	logger     *log.Entry
}

// New создаёт магазин с основателем в корне дерева ролей.
// Основатель всегда владелец и никогда не может быть удалён.
func New(id int64, name string, founderID int64, seq *Sequences, deps Deps) *Store {
	if deps.Logger == nil {
		deps.Logger = log.New().WithField("component", "store")
	}
	return &Store{
		id:         id,
		name:       name,
		founderID:  founderID,
		open:       true,
		tree:       newRoleTree(founderID),
		owners:     map[int64]struct{}{founderID: {}},
		managers:   make(map[int64]domain.PermissionSet),
		pending:    newPendingAssignments(),
		offers:     newOfferBook(),
		inventory:  newInventoryLedger(),
		auctions:   newAuctionEngine(),
		seq:        seq,
		deps:       deps,
		offerFloor: defaultOfferFloor,
		logger:     deps.Logger.WithField("store_id", id),
	}
}

// ID возвращает идентификатор магазина.
func (s *Store) ID() int64 { return s.id }

// Name возвращает имя магазина.
func (s *Store) Name() string { return s.name }

// Founder возвращает идентификатор основателя.
func (s *Store) Founder() int64 { return s.founderID }

// note — отложенное уведомление, отправляемое после снятия блокировок.
type note struct {
	userID int64
	text   string
}

// cartGrant — отложенное добавление в корзину.
type cartGrant struct {
	userID    int64
	productID int64
	quantity  int
	price     *float64
}

// effects копит побочные эффекты операции, пока удерживаются блокировки.
// Всё накопленное выполняется после их снятия: под блокировками агрегат не
// делает I/O, а уведомления fire-and-forget и не упорядочены относительно
// возврата из операции.
type effects struct {
	notes   []note
	entries []domain.JournalEntry
	grants  []cartGrant
}

func (e *effects) notify(userID int64, text string) {
	e.notes = append(e.notes, note{userID: userID, text: text})
}

func (e *effects) record(storeID int64, entryType string, actorID int64, detail string) {
	e.entries = append(e.entries, domain.JournalEntry{
		ID:       uuid.NewString(),
		StoreID:  storeID,
		Type:     entryType,
		ActorID:  actorID,
		Detail:   detail,
		Occurred: time.Now().UTC(),
	})
}

func (e *effects) grant(userID, productID int64, quantity int, price *float64) {
	e.grants = append(e.grants, cartGrant{
		userID:    userID,
		productID: productID,
		quantity:  quantity,
		price:     price,
	})
}

// apply выполняет накопленные эффекты. Вызывается без блокировок.
func (s *Store) apply(eff effects) {
	for _, grant := range eff.grants {
		if s.deps.Cart != nil {
			s.deps.Cart.GrantCartEntry(grant.userID, s.id, grant.productID, grant.quantity, grant.price)
		}
	}
	for _, entry := range eff.entries {
		if s.deps.Journal == nil {
			continue
		}
		if err := s.deps.Journal.Append(entry); err != nil {
			s.logger.WithError(err).WithField("entry_type", entry.Type).Warn("append journal entry failed")
		}
	}
	for _, n := range eff.notes {
		if s.deps.Notifier != nil {
			s.deps.Notifier.Notify(n.userID, n.text)
		}
	}
}

// isRegistered спрашивает внешний справочник пользователей.
func (s *Store) isRegistered(userID int64) bool {
	if s.deps.Members == nil {
		return true
	}
	return s.deps.Members.IsRegistered(userID)
}

// notifyOwnersLocked добавляет уведомление каждому текущему владельцу.
func (s *Store) notifyOwnersLocked(eff *effects, text string) {
	for ownerID := range s.owners {
		eff.notify(ownerID, text)
	}
}

// IsOpen сообщает, открыт ли магазин для торговли.
func (s *Store) IsOpen() bool {
	g := s.lockRoles()
	defer g.unlock()
	return s.open
}

// Close закрывает магазин. Разрешено только основателю; все носители ролей
// получают уведомление. Закрытый магазин не принимает ставки, офферы и покупки.
func (s *Store) Close(requesterID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		if requesterID != s.founderID {
			return domain.PermissionDenied("only the founder can close store %d", s.id)
		}
		if !s.open {
			return domain.Conflict("store %d is already closed", s.id)
		}
		s.open = false
		for ownerID := range s.owners {
			eff.notify(ownerID, storeClosedText(s.name))
		}
		for managerID := range s.managers {
			eff.notify(managerID, storeClosedText(s.name))
		}
		eff.record(s.id, "store.closed", requesterID, "store closed by founder")
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	s.logger.WithField("requester_id", requesterID).Info("store closed")
	return nil
}

// SendMessage регистрирует обращение покупателя; владельцы получают уведомление.
func (s *Store) SendMessage(userID int64, body string) (int64, error) {
	if body == "" {
		return 0, domain.InvalidArgument("message body is required")
	}
	if !s.isRegistered(userID) {
		return 0, domain.PermissionDenied("guest users cannot message the store")
	}

	var eff effects
	messageID := s.seq.NextMessageID()

	g := s.lockRoles()
	s.messages = append(s.messages, domain.Message{
		ID:        messageID,
		StoreID:   s.id,
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	s.notifyOwnersLocked(&eff, newMessageText(s.name, userID))
	g.unlock()

	s.apply(eff)
	return messageID, nil
}

// ReplyToMessage отвечает на обращение. Требует роли владельца или права REQUESTS_REPLY.
func (s *Store) ReplyToMessage(requesterID, messageID int64, reply string) error {
	if reply == "" {
		return domain.InvalidArgument("reply body is required")
	}

	var eff effects

	g := s.lockRoles()
	err := func() error {
		if !s.hasPermissionLocked(requesterID, domain.PermissionRequestsReply) {
			return domain.PermissionDenied("user %d may not reply to store messages", requesterID)
		}
		for i := range s.messages {
			if s.messages[i].ID != messageID {
				continue
			}
			if s.messages[i].Answered() {
				return domain.Conflict("message %d is already answered", messageID)
			}
			s.messages[i].Reply = reply
			s.messages[i].RepliedBy = requesterID
			s.messages[i].RepliedAt = time.Now().UTC()
			eff.notify(s.messages[i].UserID, replyText(s.name, reply))
			return nil
		}
		return domain.NotFound("message %d not found", messageID)
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// Messages возвращает копию переписки магазина. Требует роли владельца
// или права REQUESTS_REPLY.
func (s *Store) Messages(requesterID int64) ([]domain.Message, error) {
	g := s.lockRoles()
	defer g.unlock()

	if !s.hasPermissionLocked(requesterID, domain.PermissionRequestsReply) {
		return nil, domain.PermissionDenied("user %d may not view store messages", requesterID)
	}
	result := make([]domain.Message, len(s.messages))
	copy(result, s.messages)
	return result, nil
}

// hasPermissionLocked проверяет право под roles-локом: владелец имеет все права,
// менеджер — только из своего набора.
func (s *Store) hasPermissionLocked(userID int64, perm domain.Permission) bool {
	if _, ok := s.owners[userID]; ok {
		return true
	}
	perms, ok := s.managers[userID]
	return ok && perms.Has(perm)
}
