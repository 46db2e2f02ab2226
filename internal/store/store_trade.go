package store

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// AddProduct добавляет товар в каталог. Требует права INVENTORY.
// Возвращает идентификатор нового товара.
func (s *Store) AddProduct(requesterID int64, name string, price float64, quantity int) (int64, error) {
	product := domain.Product{
		StoreID:  s.id,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Ratings:  make(map[int64]int),
	}
	if errs := product.Validate(); len(errs) != 0 {
		return 0, errs[0]
	}

	g := s.lockRoles()
	defer g.unlock()

	if !s.hasPermissionLocked(requesterID, domain.PermissionInventory) {
		return 0, domain.PermissionDenied("user %d may not modify inventory of store %d", requesterID, s.id)
	}

	product.ID = s.seq.NextProductID()

	ig := g.lockInventory()
	defer ig.unlock()
	s.inventory.add(product)
	return product.ID, nil
}

// EditProduct меняет имя, цену и количество существующего товара.
func (s *Store) EditProduct(requesterID, productID int64, name string, price float64, quantity int) error {
	updated := domain.Product{Name: name, Price: price, Quantity: quantity}
	if errs := updated.Validate(); len(errs) != 0 {
		return errs[0]
	}

	g := s.lockRoles()
	defer g.unlock()

	if !s.hasPermissionLocked(requesterID, domain.PermissionInventory) {
		return domain.PermissionDenied("user %d may not modify inventory of store %d", requesterID, s.id)
	}

	ig := g.lockInventory()
	defer ig.unlock()

	record, err := s.inventory.get(productID)
	if err != nil {
		return err
	}
	record.mu.Lock()
	record.product.Name = name
	record.product.Price = price
	record.product.Quantity = quantity
	record.mu.Unlock()
	return nil
}

// RemoveProduct удаляет товар вместе с его аукционом, офферами
// и встречными предложениями.
func (s *Store) RemoveProduct(requesterID, productID int64) error {
	g := s.lockRoles()
	defer g.unlock()

	if !s.hasPermissionLocked(requesterID, domain.PermissionInventory) {
		return domain.PermissionDenied("user %d may not modify inventory of store %d", requesterID, s.id)
	}

	ig := g.lockInventory()
	defer ig.unlock()

	if err := s.inventory.remove(productID); err != nil {
		return err
	}
	s.auctions.remove(productID)
	s.offers.dropProduct(productID)
	return nil
}

// RateProduct ставит товару оценку от 1 до 5. Повторная оценка перезаписывает прежнюю.
func (s *Store) RateProduct(userID, productID int64, rating int) error {
	if rating < 1 || rating > 5 {
		return domain.InvalidArgument("rating must be between 1 and 5, got %d", rating)
	}
	if !s.isRegistered(userID) {
		return domain.PermissionDenied("guest users cannot rate products")
	}

	ig := s.lockInventory()
	defer ig.unlock()

	record, err := s.inventory.get(productID)
	if err != nil {
		return err
	}
	record.mu.Lock()
	record.product.Ratings[userID] = rating
	record.mu.Unlock()
	return nil
}

// BuyProduct списывает qty единиц товара под покупку. Гонка за последние
// единицы сериализуется мьютексом записи товара.
func (s *Store) BuyProduct(userID, productID int64, qty int) error {
	g := s.lockRoles()
	open := s.open
	g.unlock()
	if !open {
		return domain.Conflict("store %d is closed", s.id)
	}

	ig := s.lockInventory()
	record, err := s.inventory.get(productID)
	if err != nil {
		ig.unlock()
		return err
	}
	err = record.reserve(qty)
	ig.unlock()
	if err != nil {
		return err
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordPurchase()
	}
	return nil
}

// Products возвращает снимок каталога для read-only потребителей
// (поиск, скидки, витрина).
func (s *Store) Products() []domain.Product {
	ig := s.lockInventory()
	defer ig.unlock()
	return s.inventory.snapshot()
}

// Product возвращает копию одного товара.
func (s *Store) Product(productID int64) (domain.Product, error) {
	ig := s.lockInventory()
	defer ig.unlock()

	record, err := s.inventory.get(productID)
	if err != nil {
		return domain.Product{}, err
	}
	return record.product.Clone(), nil
}

// OpenAuction запускает аукцион по товару со стартовой ценой, равной каталожной.
// Требует права INVENTORY.
func (s *Store) OpenAuction(requesterID, productID int64, days int) error {
	if days <= 0 {
		return domain.InvalidArgument("auction duration must be positive, got %d days", days)
	}

	g := s.lockRoles()
	defer g.unlock()

	if !s.hasPermissionLocked(requesterID, domain.PermissionInventory) {
		return domain.PermissionDenied("user %d may not modify inventory of store %d", requesterID, s.id)
	}

	ig := g.lockInventory()
	defer ig.unlock()

	record, err := s.inventory.get(productID)
	if err != nil {
		return err
	}
	if record.product.Quantity <= 0 {
		return domain.Conflict("product %d is out of stock", productID)
	}

	auction := newAuctionRecord(s.id, productID, record.product.Price, time.Duration(days)*24*time.Hour)
	return s.auctions.open(auction)
}

// PlaceBid делает ставку на аукционе товара. Ставка должна быть строго выше
// текущей; перебитый лидер получает уведомление.
func (s *Store) PlaceBid(bidderID, productID int64, amount float64) error {
	if !s.isRegistered(bidderID) {
		return domain.PermissionDenied("guest users cannot place bids")
	}

	g := s.lockRoles()
	open := s.open
	g.unlock()
	if !open {
		return domain.Conflict("store %d is closed", s.id)
	}

	ig := s.lockInventory()
	record, err := s.auctions.get(productID)
	if err != nil {
		ig.unlock()
		return err
	}
	// Мьютекс записи делает обновление ставки атомарным шагом; крупнозернистый
	// inventory-лок лишь находит запись.
	outbid, err := record.placeBid(bidderID, amount)
	ig.unlock()
	if err != nil {
		if s.deps.Metrics != nil && domain.IsConflict(err) {
			s.deps.Metrics.RecordBidRejected()
		}
		return err
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordBidPlaced()
	}
	if !outbid.None() && s.deps.Notifier != nil {
		s.deps.Notifier.Notify(outbid.Bidder, outbidText(s.name, productID, amount))
	}
	return nil
}

// AddAuctionDays продлевает аукцион. Требует права INVENTORY; продление
// только положительное.
func (s *Store) AddAuctionDays(requesterID, productID int64, days int) error {
	g := s.lockRoles()
	defer g.unlock()

	if !s.hasPermissionLocked(requesterID, domain.PermissionInventory) {
		return domain.PermissionDenied("user %d may not modify inventory of store %d", requesterID, s.id)
	}

	ig := g.lockInventory()
	defer ig.unlock()

	record, err := s.auctions.get(productID)
	if err != nil {
		return err
	}
	return record.extend(days)
}

// Auction возвращает снимок аукциона по товару.
func (s *Store) Auction(productID int64) (domain.Auction, error) {
	ig := s.lockInventory()
	record, err := s.auctions.get(productID)
	ig.unlock()
	if err != nil {
		return domain.Auction{}, err
	}
	return record.snapshot(), nil
}

// Tick продвигает время всех аукционов магазина на delta и завершает те,
// у которых время вышло: победитель получает запись в корзине по выигрышной
// цене, единица товара резервируется, владельцы и проигравшие уведомляются.
// Вызывается внешним планировщиком с грубым интервалом.
func (s *Store) Tick(delta time.Duration) {
	var eff effects

	g := s.lockRoles()
	ig := g.lockInventory()
	finished := s.auctions.tickAll(delta)
	for _, record := range finished {
		s.settleAuctionLocked(&eff, record)
	}
	ig.unlock()
	g.unlock()

	s.apply(eff)
}

// settleAuctionLocked оформляет завершившийся аукцион. Вызывается под обеими
// блокировками.
func (s *Store) settleAuctionLocked(eff *effects, record *auctionRecord) {
	winnerID, amount := record.winner()
	productID := record.productID

	if winnerID == domain.NoBidder {
		s.notifyOwnersLocked(eff, auctionNoBidsText(s.name, productID))
		eff.record(s.id, "auction.expired", domain.NoBidder,
			fmt.Sprintf("auction for product %d ended without bids", productID))
		return
	}

	// Резервируем единицу товара под победителя.
	if productRec, err := s.inventory.get(productID); err != nil {
		s.logger.WithError(err).WithField("product_id", productID).
			Error("auction winner refers to a missing product")
	} else if err := productRec.reserve(1); err != nil {
		s.logger.WithError(err).WithField("product_id", productID).
			Warn("could not reserve auction product for winner")
	}

	price := amount
	eff.grant(winnerID, productID, 1, &price)
	eff.notify(winnerID, auctionWonText(s.name, productID, amount))
	for _, loser := range record.losers() {
		eff.notify(loser, auctionLostText(s.name, productID))
	}
	s.notifyOwnersLocked(eff, auctionEndedText(s.name, productID, winnerID, amount))
	eff.record(s.id, "auction.completed", winnerID,
		fmt.Sprintf("auction for product %d won by user %d at %.2f", productID, winnerID, amount))

	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordAuctionCompleted()
	}
}
