package store

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// auctionRecord — состояние аукциона по одному товару.
// Запись живёт под inventory-локом агрегата; собственный мьютекс делает
// обновление ставки атомарным шагом в духе compare-and-swap: две гонящиеся
// ставки сериализуются на записи, и выигрывает ровно одна.
type auctionRecord struct {
	mu            sync.Mutex
	storeID       int64
	productID     int64
	highestBid    float64
	highestBidder int64
	remaining     time.Duration
	completed     bool
	// bidders — все, кто делал ставки; нужны для уведомления проигравших.
	bidders map[int64]struct{}
}

func newAuctionRecord(storeID, productID int64, basePrice float64, duration time.Duration) *auctionRecord {
	return &auctionRecord{
		storeID:       storeID,
		productID:     productID,
		highestBid:    basePrice,
		highestBidder: domain.NoBidder,
		remaining:     duration,
		bidders:       make(map[int64]struct{}),
	}
}

// placeBid пытается перебить текущую ставку. Ставка принимается только строго
// выше текущей: равенство отклоняется, поэтому при гонке двух одинаковых ставок
// проходит ровно одна. Возвращает перебитого лидера для уведомления.
func (r *auctionRecord) placeBid(bidderID int64, amount float64) (domain.Outbid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed || r.remaining <= 0 {
		return domain.Outbid{}, domain.Conflict("auction for product %d is over", r.productID)
	}
	if amount <= r.highestBid {
		return domain.Outbid{}, domain.Conflict(
			"bid %.2f is not higher than current %.2f", amount, r.highestBid)
	}

	previous := domain.Outbid{Bidder: r.highestBidder, Amount: r.highestBid}
	r.highestBid = amount
	r.highestBidder = bidderID
	r.bidders[bidderID] = struct{}{}
	return previous, nil
}

// tick уменьшает оставшееся время и помечает аукцион завершённым, когда оно вышло.
// Возвращает true ровно один раз — в момент завершения.
func (r *auctionRecord) tick(delta time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed {
		return false
	}
	r.remaining -= delta
	if r.remaining > 0 {
		return false
	}
	r.remaining = 0
	r.completed = true
	return true
}

// extend продлевает аукцион на указанное число дней.
func (r *auctionRecord) extend(days int) error {
	if days <= 0 {
		return domain.InvalidArgument("auction extension must be positive, got %d", days)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed {
		return domain.Conflict("auction for product %d is over", r.productID)
	}
	r.remaining += time.Duration(days) * 24 * time.Hour
	return nil
}

// snapshot возвращает копию состояния для read-only потребителей.
func (r *auctionRecord) snapshot() domain.Auction {
	r.mu.Lock()
	defer r.mu.Unlock()

	return domain.Auction{
		ProductID:     r.productID,
		StoreID:       r.storeID,
		HighestBid:    r.highestBid,
		HighestBidder: r.highestBidder,
		Remaining:     r.remaining,
		Completed:     r.completed,
	}
}

// losers возвращает участников, не выигравших аукцион.
func (r *auctionRecord) losers() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]int64, 0, len(r.bidders))
	for bidder := range r.bidders {
		if bidder != r.highestBidder {
			result = append(result, bidder)
		}
	}
	return result
}

// winner возвращает текущего лидера и его ставку.
func (r *auctionRecord) winner() (int64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.highestBidder, r.highestBid
}

// auctionEngine — аукционы магазина по товарам. Доступ к карте только под inventory-локом.
type auctionEngine struct {
	records map[int64]*auctionRecord
}

func newAuctionEngine() *auctionEngine {
	return &auctionEngine{records: make(map[int64]*auctionRecord)}
}

// open создаёт аукцион по товару, если его ещё нет.
func (e *auctionEngine) open(record *auctionRecord) error {
	if _, exists := e.records[record.productID]; exists {
		return domain.Conflict("auction for product %d already exists", record.productID)
	}
	e.records[record.productID] = record
	return nil
}

// get возвращает аукцион по товару или ошибку not_found.
func (e *auctionEngine) get(productID int64) (*auctionRecord, error) {
	record, ok := e.records[productID]
	if !ok {
		return nil, domain.NotFound("no auction for product %d", productID)
	}
	return record, nil
}

// remove выбрасывает аукцион (вместе с товаром или очисткой магазина).
func (e *auctionEngine) remove(productID int64) {
	delete(e.records, productID)
}

// tickAll продвигает время всех аукционов и возвращает завершившиеся на этом тике.
func (e *auctionEngine) tickAll(delta time.Duration) []*auctionRecord {
	var finished []*auctionRecord
	for _, record := range e.records {
		if record.tick(delta) {
			finished = append(finished, record)
		}
	}
	return finished
}
