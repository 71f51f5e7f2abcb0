package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mandi/globals"
	"mandi/kv"
	"mandi/seed"
	"mandi/store"

	"github.com/julienschmidt/httprouter"
)

func authedRequest(method, target, userID, role string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), globals.UserIDKey, userID)
	ctx = context.WithValue(ctx, globals.RoleKey, role)
	return req.WithContext(ctx)
}

func TestGetOrderOwnership(t *testing.T) {
	api := &API{Store: store.New(seed.Default(), kv.NewMemoryStore())}
	// seeded order1 belongs to consumer1 and contains farmer1's prod1

	cases := []struct {
		name   string
		userID string
		role   string
		want   int
	}{
		{"owning consumer", "consumer1", "consumer", http.StatusOK},
		{"other consumer", "consumer2", "consumer", http.StatusForbidden},
		{"farmer with product in order", "farmer1", "farmer", http.StatusOK},
		{"unrelated farmer", "farmer2", "farmer", http.StatusForbidden},
	}
	for _, c := range cases {
		req := authedRequest(http.MethodGet, "/api/orders/order1", c.userID, c.role)
		w := httptest.NewRecorder()
		api.GetOrder(w, req, httprouter.Params{{Key: "id", Value: "order1"}})
		if w.Code != c.want {
			t.Errorf("%s: expected %d, got %d", c.name, c.want, w.Code)
		}
	}
}

func TestGetOrderNotFound(t *testing.T) {
	api := &API{Store: store.New(seed.Default(), kv.NewMemoryStore())}

	req := authedRequest(http.MethodGet, "/api/orders/order-missing", "consumer1", "consumer")
	w := httptest.NewRecorder()
	api.GetOrder(w, req, httprouter.Params{{Key: "id", Value: "order-missing"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetOrdersByRole(t *testing.T) {
	api := &API{Store: store.New(seed.Default(), kv.NewMemoryStore())}

	req := authedRequest(http.MethodGet, "/api/orders", "farmer1", "farmer")
	w := httptest.NewRecorder()
	api.GetOrders(w, req, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	orders := api.ordersForFarmer("farmer1")
	if len(orders) != 1 || orders[0].ID != "order1" {
		t.Fatalf("expected farmer1 to see order1, got %v", orders)
	}
	if got := api.ordersForFarmer("farmer2"); len(got) != 0 {
		t.Fatalf("expected no orders for farmer2, got %v", got)
	}
}
