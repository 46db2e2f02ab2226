package store

import (
	"fmt"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// PlaceOffer регистрирует оффер покупателя на товар. Требуется
// зарегистрированный пользователь, товар в наличии и сумма не ниже минимума.
// Все текущие владельцы получают уведомление.
func (s *Store) PlaceOffer(userID, productID int64, amount float64) error {
	if !s.isRegistered(userID) {
		return domain.PermissionDenied("guest users cannot place offers")
	}
	if amount < s.offerFloor {
		return domain.InvalidArgument("offer amount %.2f is below the minimum %.2f", amount, s.offerFloor)
	}

	var eff effects

	g := s.lockRoles()
	err := func() error {
		if !s.open {
			return domain.Conflict("store %d is closed", s.id)
		}

		ig := g.lockInventory()
		record, err := s.inventory.get(productID)
		if err == nil && record.product.Quantity <= 0 {
			err = domain.Conflict("product %d is out of stock", productID)
		}
		ig.unlock()
		if err != nil {
			return err
		}

		if _, err := s.offers.place(s.id, userID, productID, amount); err != nil {
			return err
		}
		s.notifyOwnersLocked(&eff, offerPlacedText(s.name, userID, productID, amount))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordOfferPlaced()
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// AcceptOffer фиксирует одобрение оффера владельцем. Когда собранные одобрения
// покрывают всех живых владельцев, оффер финализируется: сумма попадает
// в корзину покупателя, стороны уведомляются, оффер покидает активные.
func (s *Store) AcceptOffer(ownerID, userID, productID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		if _, ok := s.owners[ownerID]; !ok {
			return domain.PermissionDenied("user %d is not an owner of store %d", ownerID, s.id)
		}
		record, err := s.offers.get(userID, productID)
		if err != nil {
			return err
		}
		record.approvedBy(ownerID)
		// Единогласие пересчитывается по живому множеству владельцев на момент
		// последнего одобрения.
		if record.unanimous(s.owners) {
			s.approveOfferLocked(&eff, record)
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// DeclineOffer отклоняет оффер одним владельцем; этого достаточно для
// финализации. Покупатель получает отказ, владельцы — атрибуцию отказа.
func (s *Store) DeclineOffer(ownerID, userID, productID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		if _, ok := s.owners[ownerID]; !ok {
			return domain.PermissionDenied("user %d is not an owner of store %d", ownerID, s.id)
		}
		record, err := s.offers.get(userID, productID)
		if err != nil {
			return err
		}
		s.offers.resolve(record, true)
		eff.notify(userID, offerDeclinedText(s.name, productID))
		s.notifyOwnersLocked(&eff, offerDeclinedOwnersText(s.name, ownerID, userID, productID))
		eff.record(s.id, "offer.declined", ownerID,
			fmt.Sprintf("offer by user %d on product %d declined", userID, productID))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordOfferDeclined()
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// CounterOffer отклоняет исходный оффер и выставляет встречное предложение.
// Исходный оффер финализируется, пользователь может позже разместить новый;
// встречное предложение висит независимо, не больше одного на пару
// (пользователь, товар).
func (s *Store) CounterOffer(ownerID, userID, productID int64, counterAmount float64) error {
	if counterAmount <= s.offerFloor {
		return domain.InvalidArgument(
			"counter-offer amount %.2f must exceed the minimum %.2f", counterAmount, s.offerFloor)
	}

	var eff effects

	g := s.lockRoles()
	err := func() error {
		if _, ok := s.owners[ownerID]; !ok {
			return domain.PermissionDenied("user %d is not an owner of store %d", ownerID, s.id)
		}
		record, err := s.offers.get(userID, productID)
		if err != nil {
			return err
		}
		s.offers.resolve(record, true)
		s.offers.setCounter(userID, productID, counterAmount)
		eff.notify(userID, counterOfferText(s.name, productID, counterAmount))
		eff.record(s.id, "offer.countered", ownerID,
			fmt.Sprintf("offer by user %d on product %d countered at %.2f", userID, productID, counterAmount))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordOfferCountered()
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// AcceptCounterOffer превращает встречное предложение в свежий оффер на
// предложенную сумму с пустым множеством одобрений.
func (s *Store) AcceptCounterOffer(userID, productID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		amount, err := s.offers.takeCounter(userID, productID)
		if err != nil {
			return err
		}
		if _, err := s.offers.place(s.id, userID, productID, amount); err != nil {
			return err
		}
		s.notifyOwnersLocked(&eff, offerPlacedText(s.name, userID, productID, amount))
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordOfferPlaced()
		}
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// DeclineCounterOffer снимает встречное предложение; владельцы уведомляются.
func (s *Store) DeclineCounterOffer(userID, productID int64) error {
	var eff effects

	g := s.lockRoles()
	err := func() error {
		if _, err := s.offers.takeCounter(userID, productID); err != nil {
			return err
		}
		s.notifyOwnersLocked(&eff, counterDeclinedOwnersText(s.name, userID, productID))
		return nil
	}()
	g.unlock()

	if err != nil {
		return err
	}
	s.apply(eff)
	return nil
}

// Offer возвращает снимок активного оффера.
func (s *Store) Offer(userID, productID int64) (domain.Offer, error) {
	g := s.lockRoles()
	defer g.unlock()

	record, err := s.offers.get(userID, productID)
	if err != nil {
		return domain.Offer{}, err
	}
	return record.snapshot(), nil
}

// Offers возвращает снимки всех активных офферов магазина.
func (s *Store) Offers() []domain.Offer {
	g := s.lockRoles()
	defer g.unlock()

	records := s.offers.active()
	result := make([]domain.Offer, 0, len(records))
	for _, record := range records {
		result = append(result, record.snapshot())
	}
	return result
}

// PendingCounterOffer возвращает висящее встречное предложение, если оно есть.
func (s *Store) PendingCounterOffer(userID, productID int64) (domain.CounterOffer, error) {
	g := s.lockRoles()
	defer g.unlock()

	amount, ok := s.offers.counters[offerKey{userID: userID, productID: productID}]
	if !ok {
		return domain.CounterOffer{}, domain.NotFound(
			"no pending counter-offer for user %d on product %d", userID, productID)
	}
	return domain.CounterOffer{
		UserID:    userID,
		StoreID:   s.id,
		ProductID: productID,
		Amount:    amount,
	}, nil
}

// approveOfferLocked финализирует единогласно одобренный оффер.
// Вызывается под roles-локом.
func (s *Store) approveOfferLocked(eff *effects, record *offerRecord) {
	s.offers.resolve(record, false)
	price := record.amount
	eff.grant(record.userID, record.productID, 1, &price)
	eff.notify(record.userID, offerApprovedText(s.name, record.productID, record.amount))
	s.notifyOwnersLocked(eff, offerApprovedOwnersText(s.name, record.userID, record.productID, record.amount))
	eff.record(s.id, "offer.approved", record.userID,
		fmt.Sprintf("offer by user %d on product %d approved at %.2f", record.userID, record.productID, record.amount))
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordOfferApproved()
	}
}

// finalizeOffersLocked перепроверяет единогласие всех активных офферов.
// Вызывается после сжатия множества владельцев: удаление владельца может
// само по себе довести уже собранные одобрения до полного набора.
func (s *Store) finalizeOffersLocked(eff *effects) {
	for _, record := range s.offers.active() {
		if record.unanimous(s.owners) {
			s.approveOfferLocked(eff, record)
		}
	}
}
