package analytics

import (
	"context"
	"testing"

	"mandi/kv"
	"mandi/models"
	"mandi/mq"
	"mandi/seed"
	"mandi/store"
)

func TestFarmerDashboard(t *testing.T) {
	st := store.New(seed.Default(), kv.NewMemoryStore())
	svc := NewService(st, mq.NewEmitter(nil))

	// seed carries one delivered order: 10x prod1 at 120
	dash := svc.farmerDashboard("farmer1")
	if dash.ProductCount != 3 {
		t.Fatalf("expected 3 products, got %d", dash.ProductCount)
	}
	if dash.TotalPoints != 150 {
		t.Fatalf("expected 150 points, got %d", dash.TotalPoints)
	}
	if dash.Revenue != 1200 {
		t.Fatalf("expected delivered revenue 1200, got %v", dash.Revenue)
	}
	if dash.OrdersByStatus[models.OrderDelivered] != 1 {
		t.Fatalf("expected 1 delivered order, got %d", dash.OrdersByStatus[models.OrderDelivered])
	}
	if len(dash.TopProducts) != 1 || dash.TopProducts[0].ProductID != "prod1" {
		t.Fatalf("unexpected top products: %+v", dash.TopProducts)
	}
	if dash.TopProducts[0].UnitsSold != 10 {
		t.Fatalf("expected 10 units sold, got %d", dash.TopProducts[0].UnitsSold)
	}
}

func TestConsumerDashboard(t *testing.T) {
	st := store.New(seed.Default(), kv.NewMemoryStore())
	svc := NewService(st, mq.NewEmitter(nil))

	dash := svc.consumerDashboard("consumer1")
	if dash.OrderCount != 1 || dash.TotalSpent != 1200 {
		t.Fatalf("unexpected consumer dashboard: %+v", dash)
	}
}

func TestEventCountersTrackEmits(t *testing.T) {
	st := store.New(seed.Default(), kv.NewMemoryStore())
	events := mq.NewEmitter(nil)
	svc := NewService(st, events)

	ctx := context.Background()
	events.Emit(ctx, mq.Event{Name: "order-placed", Amount: 500})
	events.Emit(ctx, mq.Event{Name: "order-placed", Amount: 250})
	events.Emit(ctx, mq.Event{Name: "product-added"})

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.counters["order-placed"] != 2 || svc.counters["product-added"] != 1 {
		t.Fatalf("unexpected counters: %v", svc.counters)
	}
	if svc.revenue != 750 {
		t.Fatalf("expected revenue 750, got %v", svc.revenue)
	}
}
