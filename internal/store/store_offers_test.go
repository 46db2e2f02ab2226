package store

import (
	"testing"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

func TestPlaceOfferValidation(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	productID := env.addProduct(t, "chair", 200, 1)
	soldOut := env.addProduct(t, "bench", 150, 0)
	env.members.MarkGuest(999)

	if err := s.PlaceOffer(999, productID, 100); !domain.IsPermissionDenied(err) {
		t.Fatalf("expected permission_denied for guest, got %v", err)
	}
	if err := s.PlaceOffer(500, productID, 0.5); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid_argument below the floor, got %v", err)
	}
	if err := s.PlaceOffer(500, 777, 100); !domain.IsNotFound(err) {
		t.Fatalf("expected not_found for missing product, got %v", err)
	}
	if err := s.PlaceOffer(500, soldOut, 100); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for sold-out product, got %v", err)
	}

	if err := s.PlaceOffer(500, productID, 100); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	if err := s.PlaceOffer(500, productID, 120); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate offer, got %v", err)
	}
	if len(env.notifier.MessagesFor(testFounderID)) == 0 {
		t.Fatal("owner got no notification about the offer")
	}
}

func TestAcceptOfferUnanimity(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	env.addOwner(t, testFounderID, 200)
	productID := env.addProduct(t, "chair", 200, 2)

	if err := s.PlaceOffer(500, productID, 120); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	if err := s.AcceptOffer(999, 500, productID); !domain.IsPermissionDenied(err) {
		t.Fatalf("expected permission_denied for non-owner, got %v", err)
	}

	// Одного одобрения из двух недостаточно.
	if err := s.AcceptOffer(testFounderID, 500, productID); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := s.Offer(500, productID); err != nil {
		t.Fatalf("offer must stay active after partial approval: %v", err)
	}
	if len(env.cart.Entries()) != 0 {
		t.Fatal("cart must stay empty before unanimity")
	}

	if err := s.AcceptOffer(200, 500, productID); err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if _, err := s.Offer(500, productID); !domain.IsNotFound(err) {
		t.Fatalf("approved offer must leave active, got %v", err)
	}

	entries := env.cart.EntriesFor(500)
	if len(entries) != 1 {
		t.Fatalf("expected one cart grant, got %d", len(entries))
	}
	if entries[0].ProductID != productID || entries[0].Quantity != 1 {
		t.Fatalf("unexpected cart entry: %+v", entries[0])
	}
	if entries[0].Price == nil || *entries[0].Price != 120 {
		t.Fatalf("cart entry must carry the offer price, got %+v", entries[0].Price)
	}
	if len(env.notifier.MessagesFor(500)) == 0 {
		t.Fatal("buyer got no approval notification")
	}
}

// Удаление владельца сжимает множество, от которого требуется единогласие:
// уже собранные одобрения могут стать достаточными прямо в момент удаления.
func TestOwnerRemovalFinalizesOffer(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	env.addOwner(t, testFounderID, 201)
	env.addOwner(t, testFounderID, 202)
	productID := env.addProduct(t, "chair", 200, 2)

	if err := s.PlaceOffer(500, productID, 120); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	if err := s.AcceptOffer(testFounderID, 500, productID); err != nil {
		t.Fatalf("founder accept: %v", err)
	}
	if err := s.AcceptOffer(201, 500, productID); err != nil {
		t.Fatalf("owner 201 accept: %v", err)
	}
	if len(env.cart.Entries()) != 0 {
		t.Fatal("offer must not be approved while owner 202 has not voted")
	}

	// Снятие не голосовавшего владельца должно финализировать оффер.
	if err := s.RemoveOwner(testFounderID, 202); err != nil {
		t.Fatalf("remove owner: %v", err)
	}
	if _, err := s.Offer(500, productID); !domain.IsNotFound(err) {
		t.Fatalf("offer must be approved by the removal, got %v", err)
	}
	entries := env.cart.EntriesFor(500)
	if len(entries) != 1 || entries[0].Price == nil || *entries[0].Price != 120 {
		t.Fatalf("unexpected cart grants after removal: %+v", entries)
	}
}

func TestDeclineOffer(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	env.addOwner(t, testFounderID, 200)
	productID := env.addProduct(t, "chair", 200, 2)

	if err := s.PlaceOffer(500, productID, 120); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	if err := s.AcceptOffer(testFounderID, 500, productID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	// Одного отказа достаточно, собранные одобрения не спасают.
	if err := s.DeclineOffer(200, 500, productID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := s.Offer(500, productID); !domain.IsNotFound(err) {
		t.Fatalf("declined offer must leave active, got %v", err)
	}
	if len(env.cart.Entries()) != 0 {
		t.Fatal("declined offer must not reach the cart")
	}
	if len(env.notifier.MessagesFor(500)) == 0 {
		t.Fatal("buyer got no decline notification")
	}

	// После отказа пользователь может сделать новый оффер.
	if err := s.PlaceOffer(500, productID, 150); err != nil {
		t.Fatalf("re-offer after decline: %v", err)
	}
}

func TestCounterOfferFlow(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	productID := env.addProduct(t, "chair", 200, 2)

	if err := s.CounterOffer(testFounderID, 500, productID, 0.5); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid_argument below the floor, got %v", err)
	}
	if err := s.CounterOffer(testFounderID, 500, productID, 150); !domain.IsNotFound(err) {
		t.Fatalf("expected not_found without an active offer, got %v", err)
	}

	if err := s.PlaceOffer(500, productID, 100); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	if err := s.CounterOffer(testFounderID, 500, productID, 150); err != nil {
		t.Fatalf("counter offer: %v", err)
	}
	if _, err := s.Offer(500, productID); !domain.IsNotFound(err) {
		t.Fatalf("countered offer must leave active, got %v", err)
	}
	counter, err := s.PendingCounterOffer(500, productID)
	if err != nil {
		t.Fatalf("pending counter: %v", err)
	}
	if counter.Amount != 150 {
		t.Fatalf("unexpected counter amount: %.2f", counter.Amount)
	}

	// Висящее встречное предложение блокирует новый оффер на ту же пару.
	if err := s.PlaceOffer(500, productID, 130); !domain.IsConflict(err) {
		t.Fatalf("expected conflict while counter is pending, got %v", err)
	}

	// Принятие превращает встречное предложение в свежий оффер без одобрений.
	if err := s.AcceptCounterOffer(500, productID); err != nil {
		t.Fatalf("accept counter: %v", err)
	}
	offer, err := s.Offer(500, productID)
	if err != nil {
		t.Fatalf("offer after accepted counter: %v", err)
	}
	if offer.Amount != 150 || len(offer.AcceptedBy) != 0 {
		t.Fatalf("unexpected offer after counter: %+v", offer)
	}
	if _, err := s.PendingCounterOffer(500, productID); !domain.IsNotFound(err) {
		t.Fatalf("accepted counter must be consumed, got %v", err)
	}
}

func TestDeclineCounterOffer(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	productID := env.addProduct(t, "chair", 200, 2)

	if err := s.PlaceOffer(500, productID, 100); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	if err := s.CounterOffer(testFounderID, 500, productID, 150); err != nil {
		t.Fatalf("counter offer: %v", err)
	}
	if err := s.DeclineCounterOffer(500, productID); err != nil {
		t.Fatalf("decline counter: %v", err)
	}
	if _, err := s.PendingCounterOffer(500, productID); !domain.IsNotFound(err) {
		t.Fatalf("declined counter must be consumed, got %v", err)
	}
	// Пара свободна: новый оффер проходит.
	if err := s.PlaceOffer(500, productID, 130); err != nil {
		t.Fatalf("offer after declined counter: %v", err)
	}
}

func TestRemoveProductDropsOffers(t *testing.T) {
	env := newTestStore(t)
	s := env.store
	productID := env.addProduct(t, "chair", 200, 2)

	if err := s.PlaceOffer(500, productID, 100); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	if err := s.PlaceOffer(501, productID, 110); err != nil {
		t.Fatalf("place offer: %v", err)
	}
	if err := s.CounterOffer(testFounderID, 501, productID, 150); err != nil {
		t.Fatalf("counter offer: %v", err)
	}

	if err := s.RemoveProduct(testFounderID, productID); err != nil {
		t.Fatalf("remove product: %v", err)
	}
	if offers := s.Offers(); len(offers) != 0 {
		t.Fatalf("offers must die with the product: %+v", offers)
	}
	if _, err := s.PendingCounterOffer(501, productID); !domain.IsNotFound(err) {
		t.Fatalf("counter must die with the product, got %v", err)
	}
}
