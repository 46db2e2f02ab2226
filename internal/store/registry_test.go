package store

import (
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/service/members"
)

func TestRegistryCreateStore(t *testing.T) {
	guests := members.NewMockService()
	guests.MarkGuest(999)
	registry := NewRegistry(Deps{Members: guests})

	if _, err := registry.CreateStore(100, ""); !domain.IsInvalidArgument(err) {
		t.Fatalf("expected invalid_argument for empty name, got %v", err)
	}
	if _, err := registry.CreateStore(999, "guest-shop"); !domain.IsPermissionDenied(err) {
		t.Fatalf("expected permission_denied for guest founder, got %v", err)
	}

	s, err := registry.CreateStore(100, "first")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if s.Founder() != 100 || !s.IsOpen() {
		t.Fatalf("unexpected store: founder=%d open=%v", s.Founder(), s.IsOpen())
	}

	got, err := registry.Get(s.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != s {
		t.Fatal("get must return the same store")
	}
	if _, err := registry.Get(777); !domain.IsNotFound(err) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRegistryUniqueIDs(t *testing.T) {
	registry := NewRegistry(Deps{})

	const stores = 20
	ids := make(chan int64, stores)
	var wg sync.WaitGroup
	for i := 0; i < stores; i++ {
		wg.Add(1)
		go func(founderID int64) {
			defer wg.Done()
			s, err := registry.CreateStore(founderID, "shop")
			if err != nil {
				t.Errorf("create store: %v", err)
				return
			}
			ids <- s.ID()
		}(int64(100 + i))
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{})
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate store id %d", id)
		}
		seen[id] = struct{}{}
	}
	if len(registry.StoreIDs()) != stores {
		t.Fatalf("expected %d stores, got %d", stores, len(registry.StoreIDs()))
	}
}

func TestRegistryProductIDsGlobal(t *testing.T) {
	registry := NewRegistry(Deps{})
	first, err := registry.CreateStore(100, "first")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	second, err := registry.CreateStore(101, "second")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	// Идентификаторы товаров выдаются из общего источника: коллизий
	// между магазинами нет.
	idA, err := first.AddProduct(100, "lamp", 10, 1)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	idB, err := second.AddProduct(101, "shade", 5, 1)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if idA == idB {
		t.Fatalf("product ids must be globally unique, both are %d", idA)
	}
}

func TestRegistryTickAuctions(t *testing.T) {
	registry := NewRegistry(Deps{})
	s, err := registry.CreateStore(100, "shop")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	productID, err := s.AddProduct(100, "lamp", 100, 1)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if err := s.OpenAuction(100, productID, 1); err != nil {
		t.Fatalf("open auction: %v", err)
	}

	registry.TickAuctions(24 * time.Hour)
	auction, err := s.Auction(productID)
	if err != nil {
		t.Fatalf("auction: %v", err)
	}
	if !auction.Completed {
		t.Fatal("registry tick must complete the auction")
	}
}

func TestRegistryClearStoreData(t *testing.T) {
	registry := NewRegistry(Deps{})
	s, err := registry.CreateStore(100, "shop")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := registry.ClearStoreData(777); !domain.IsNotFound(err) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if err := registry.ClearStoreData(s.ID()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := registry.Get(s.ID()); !domain.IsNotFound(err) {
		t.Fatalf("cleared store must be gone, got %v", err)
	}
}
