// Package store is the single source of truth for marketplace state. All
// collections are seeded at startup and live in memory for the process
// lifetime; only the per-session slices (current user, cart, language) are
// mirrored out through kv.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"mandi/kv"
	"mandi/models"
	"mandi/seed"
	"mandi/utils"
)

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrTerminalStatus = errors.New("order status is terminal")
)

type Store struct {
	mu       sync.RWMutex
	users    []models.User
	products []models.Product
	orders   []models.Order
	rewards  []models.Reward

	sessions    map[string]*session
	kvs         kv.Store
	defaultLang models.Language
}

// New seeds a store and wires its session persistence.
func New(data seed.Data, kvs kv.Store) *Store {
	return &Store{
		users:       data.Users,
		products:    data.Products,
		orders:      data.Orders,
		rewards:     data.Rewards,
		sessions:    make(map[string]*session),
		kvs:         kvs,
		defaultLang: data.Settings.DefaultLanguage,
	}
}

// --- Users ---

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) UserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// --- Products ---

// Products returns listings, optionally filtered by category and/or farmer.
func (s *Store) Products(category, farmerID string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if farmerID != "" && p.FarmerID != farmerID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Store) ProductByID(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// AddProduct synthesizes the id and creation timestamp; everything else is
// taken as supplied. Duplicate (name, farmer) pairs are permitted.
func (s *Store) AddProduct(p models.Product) models.Product {
	p.ID = utils.NewID("prod")
	p.CreatedAt = time.Now()

	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	return p
}

// ProductUpdate carries the fields a partial update may touch; nil fields
// are left as they are.
type ProductUpdate struct {
	Name             *string              `json:"name"`
	NameHindi        *string              `json:"nameHindi"`
	Price            *float64             `json:"price"`
	Quantity         *int                 `json:"quantity"`
	Unit             *string              `json:"unit"`
	Category         *string              `json:"category"`
	Image            *string              `json:"image"`
	Specifications   *models.ProductSpecs `json:"specifications"`
	AISuggestedPrice *float64             `json:"aiSuggestedPrice"`
}

// UpdateProduct merges non-nil fields into the matching product. Returns
// false (no-op) when the id is unknown.
func (s *Store) UpdateProduct(id string, upd ProductUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.NameHindi != nil {
			p.NameHindi = *upd.NameHindi
		}
		if upd.Price != nil {
			p.Price = *upd.Price
		}
		if upd.Quantity != nil {
			p.Quantity = *upd.Quantity
		}
		if upd.Unit != nil {
			p.Unit = *upd.Unit
		}
		if upd.Category != nil {
			p.Category = *upd.Category
		}
		if upd.Image != nil {
			p.Image = *upd.Image
		}
		if upd.Specifications != nil {
			p.Specifications = *upd.Specifications
		}
		if upd.AISuggestedPrice != nil {
			p.AISuggestedPrice = *upd.AISuggestedPrice
		}
		return true
	}
	return false
}

// --- Orders ---

func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) OrdersByConsumer(consumerID string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if o.ConsumerID == consumerID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) OrderByID(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// PlaceOrder requires a logged-in session. The order freezes the supplied
// items and their total; the session's live cart is cleared unconditionally
// afterwards. Product stock is decremented best-effort, never below zero.
func (s *Store) PlaceOrder(ctx context.Context, sessionID string, items []models.CartItem) (models.Order, error) {
	s.mu.Lock()
	sess := s.getSessionLocked(ctx, sessionID)
	if sess.user == nil {
		s.mu.Unlock()
		return models.Order{}, ErrNotLoggedIn
	}

	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}

	order := models.Order{
		ID:          utils.NewID("order"),
		ConsumerID:  sess.user.ID,
		Items:       append([]models.CartItem(nil), items...),
		TotalAmount: total,
		Status:      models.OrderPending,
		OrderDate:   time.Now(),
	}
	s.orders = append(s.orders, order)

	for _, it := range items {
		for i := range s.products {
			if s.products[i].ID == it.ProductID {
				s.products[i].Quantity -= it.Quantity
				if s.products[i].Quantity < 0 {
					s.products[i].Quantity = 0
				}
				break
			}
		}
	}

	sess.cart = nil
	s.mu.Unlock()

	s.persistCart(ctx, sessionID, nil)
	return order, nil
}

// UpdateOrderStatus moves an order along pending → confirmed → shipped →
// delivered, or to cancelled. Delivered and cancelled are terminal.
func (s *Store) UpdateOrderStatus(id string, status models.OrderStatus) (models.Order, error) {
	switch status {
	case models.OrderPending, models.OrderConfirmed, models.OrderShipped,
		models.OrderDelivered, models.OrderCancelled:
	default:
		return models.Order{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		if s.orders[i].Status.Terminal() {
			return models.Order{}, ErrTerminalStatus
		}
		s.orders[i].Status = status
		if status == models.OrderDelivered {
			now := time.Now()
			s.orders[i].DeliveryDate = &now
		}
		return s.orders[i], nil
	}
	return models.Order{}, ErrOrderNotFound
}

// --- Rewards ---

// AddReward appends a reward with a synthesized id and timestamp. The
// farmer id is not validated; rewards are append-only.
func (s *Store) AddReward(farmerID string, points int, rewardType, description string) models.Reward {
	reward := models.Reward{
		ID:          utils.NewID("reward"),
		FarmerID:    farmerID,
		Points:      points,
		Type:        rewardType,
		Description: description,
		EarnedAt:    time.Now(),
	}
	s.mu.Lock()
	s.rewards = append(s.rewards, reward)
	s.mu.Unlock()
	return reward
}

func (s *Store) RewardsByFarmer(farmerID string) []models.Reward {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Reward{}
	for _, r := range s.rewards {
		if r.FarmerID == farmerID {
			out = append(out, r)
		}
	}
	return out
}

// TotalPoints sums every reward the farmer has earned.
func (s *Store) TotalPoints(farmerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, r := range s.rewards {
		if r.FarmerID == farmerID {
			total += r.Points
		}
	}
	return total
}
