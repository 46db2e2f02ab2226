package store

import "github.com/vladislavdragonenkov/marketplace/internal/domain"

// offerKey адресует оффер и встречное предложение: на пару (пользователь, товар)
// одновременно может существовать не больше одного оффера и, независимо,
// не больше одного встречного предложения.
type offerKey struct {
	userID    int64
	productID int64
}

// offerRecord — активный оффер покупателя. Доступ только под roles-локом:
// судьба оффера зависит от живого множества владельцев.
type offerRecord struct {
	userID    int64
	storeID   int64
	productID int64
	amount    float64
	accepted  map[int64]struct{}
	declined  bool
	handled   bool
}

// approvedBy отмечает одобрение владельцем.
func (o *offerRecord) approvedBy(ownerID int64) {
	o.accepted[ownerID] = struct{}{}
}

// unanimous проверяет, покрывает ли собранное множество одобрений всех живых владельцев.
// Одобрения уже удалённых владельцев в множестве безвредны: проверка идёт от живого списка.
func (o *offerRecord) unanimous(owners map[int64]struct{}) bool {
	for ownerID := range owners {
		if _, ok := o.accepted[ownerID]; !ok {
			return false
		}
	}
	return true
}

// snapshot возвращает доменное представление оффера.
func (o *offerRecord) snapshot() domain.Offer {
	accepted := make([]int64, 0, len(o.accepted))
	for ownerID := range o.accepted {
		accepted = append(accepted, ownerID)
	}
	return domain.Offer{
		UserID:     o.userID,
		StoreID:    o.storeID,
		ProductID:  o.productID,
		Amount:     o.amount,
		AcceptedBy: accepted,
		Declined:   o.declined,
		Handled:    o.handled,
	}
}

// offerBook — активные офферы и встречные предложения магазина.
type offerBook struct {
	offers   map[offerKey]*offerRecord
	counters map[offerKey]float64
}

func newOfferBook() *offerBook {
	return &offerBook{
		offers:   make(map[offerKey]*offerRecord),
		counters: make(map[offerKey]float64),
	}
}

// place регистрирует новый оффер. Повторный оффер и оффер при висящем
// встречном предложении отклоняются.
func (b *offerBook) place(storeID, userID, productID int64, amount float64) (*offerRecord, error) {
	key := offerKey{userID: userID, productID: productID}
	if _, exists := b.offers[key]; exists {
		return nil, domain.Conflict("user %d already has an active offer on product %d", userID, productID)
	}
	if _, exists := b.counters[key]; exists {
		return nil, domain.Conflict("user %d has a pending counter-offer on product %d", userID, productID)
	}

	record := &offerRecord{
		userID:    userID,
		storeID:   storeID,
		productID: productID,
		amount:    amount,
		accepted:  make(map[int64]struct{}),
	}
	b.offers[key] = record
	return record, nil
}

// get возвращает активный оффер или ошибку not_found.
func (b *offerBook) get(userID, productID int64) (*offerRecord, error) {
	record, ok := b.offers[offerKey{userID: userID, productID: productID}]
	if !ok {
		return nil, domain.NotFound("no active offer from user %d on product %d", userID, productID)
	}
	return record, nil
}

// resolve помечает оффер обработанным и убирает его из активных.
// Обработанный оффер неизменяем, второй раз обработать его нельзя.
func (b *offerBook) resolve(record *offerRecord, declined bool) {
	record.handled = true
	record.declined = declined
	delete(b.offers, offerKey{userID: record.userID, productID: record.productID})
}

// setCounter записывает встречное предложение по паре (пользователь, товар).
func (b *offerBook) setCounter(userID, productID int64, amount float64) {
	b.counters[offerKey{userID: userID, productID: productID}] = amount
}

// takeCounter извлекает встречное предложение, удаляя его.
func (b *offerBook) takeCounter(userID, productID int64) (float64, error) {
	key := offerKey{userID: userID, productID: productID}
	amount, ok := b.counters[key]
	if !ok {
		return 0, domain.NotFound("no pending counter-offer for user %d on product %d", userID, productID)
	}
	delete(b.counters, key)
	return amount, nil
}

// dropProduct выбрасывает офферы и встречные предложения удалённого товара.
func (b *offerBook) dropProduct(productID int64) {
	for key, record := range b.offers {
		if key.productID == productID {
			record.handled = true
			record.declined = true
			delete(b.offers, key)
		}
	}
	for key := range b.counters {
		if key.productID == productID {
			delete(b.counters, key)
		}
	}
}

// active возвращает все активные офферы (порядок не определён).
func (b *offerBook) active() []*offerRecord {
	result := make([]*offerRecord, 0, len(b.offers))
	for _, record := range b.offers {
		result = append(result, record)
	}
	return result
}
