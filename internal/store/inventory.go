package store

import (
	"sync"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// productRecord — товар каталога вместе с мьютексом конкретной записи.
// Запись защищена inventory-локом агрегата; собственный мьютекс дополнительно
// сериализует гонку за последнюю единицу товара (покупка, резерв аукциона)
// на уровне одной записи.
type productRecord struct {
	mu      sync.Mutex
	product domain.Product
}

// inventoryLedger — каталог товаров магазина. Доступ только под inventory-локом.
type inventoryLedger struct {
	products map[int64]*productRecord
}

func newInventoryLedger() *inventoryLedger {
	return &inventoryLedger{products: make(map[int64]*productRecord)}
}

// add кладёт новый товар в каталог.
func (l *inventoryLedger) add(product domain.Product) {
	if product.Ratings == nil {
		product.Ratings = make(map[int64]int)
	}
	l.products[product.ID] = &productRecord{product: product}
}

// get возвращает запись товара или ошибку not_found.
func (l *inventoryLedger) get(productID int64) (*productRecord, error) {
	record, ok := l.products[productID]
	if !ok {
		return nil, domain.NotFound("product %d not found", productID)
	}
	return record, nil
}

// remove удаляет товар из каталога.
func (l *inventoryLedger) remove(productID int64) error {
	if _, ok := l.products[productID]; !ok {
		return domain.NotFound("product %d not found", productID)
	}
	delete(l.products, productID)
	return nil
}

// snapshot возвращает копии всех товаров для read-only потребителей.
func (l *inventoryLedger) snapshot() []domain.Product {
	result := make([]domain.Product, 0, len(l.products))
	for _, record := range l.products {
		result = append(result, record.product.Clone())
	}
	return result
}

// reserve атомарно списывает qty единиц товара.
// Гонка за последние единицы решается мьютексом записи.
func (r *productRecord) reserve(qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if qty <= 0 {
		return domain.InvalidArgument("quantity must be greater than zero")
	}
	if r.product.Quantity < qty {
		return domain.Conflict("product %d has only %d left", r.product.ID, r.product.Quantity)
	}
	r.product.Quantity -= qty
	return nil
}
