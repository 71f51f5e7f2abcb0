// Package analytics derives dashboard aggregates from store state and keeps
// running counters of domain events.
package analytics

import (
	"net/http"
	"sort"
	"sync"

	"mandi/models"
	"mandi/mq"
	"mandi/store"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
)

type Service struct {
	store *store.Store

	mu       sync.RWMutex
	counters map[string]int64
	revenue  float64
}

// NewService subscribes to the emitter so counters track domain activity
// for the process lifetime.
func NewService(st *store.Store, events *mq.Emitter) *Service {
	s := &Service{
		store:    st,
		counters: make(map[string]int64),
	}
	events.Subscribe(s.handle)
	return s
}

func (s *Service) handle(e mq.Event) {
	s.mu.Lock()
	s.counters[e.Name]++
	if e.Name == "order-placed" {
		s.revenue += e.Amount
	}
	s.mu.Unlock()
}

// FarmerDashboard aggregates the farmer's listings, sales and rewards.
type FarmerDashboard struct {
	ProductCount   int                        `json:"productCount"`
	TotalPoints    int                        `json:"totalPoints"`
	OrdersByStatus map[models.OrderStatus]int `json:"ordersByStatus"`
	Revenue        float64                    `json:"revenue"`
	TopProducts    []ProductSales             `json:"topProducts"`
}

// ProductSales is one row of the top-products table, ranked by units sold.
type ProductSales struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitsSold int     `json:"unitsSold"`
	Revenue   float64 `json:"revenue"`
}

func (s *Service) farmerDashboard(farmerID string) FarmerDashboard {
	dash := FarmerDashboard{
		OrdersByStatus: make(map[models.OrderStatus]int),
	}
	products := s.store.Products("", farmerID)
	dash.ProductCount = len(products)
	dash.TotalPoints = s.store.TotalPoints(farmerID)

	mine := make(map[string]*ProductSales)
	for _, p := range products {
		mine[p.ID] = &ProductSales{ProductID: p.ID, Name: p.Name}
	}
	for _, order := range s.store.Orders() {
		var share float64
		for _, item := range order.Items {
			sales, ok := mine[item.ProductID]
			if !ok {
				continue
			}
			lineTotal := item.Price * float64(item.Quantity)
			share += lineTotal
			sales.UnitsSold += item.Quantity
			sales.Revenue += lineTotal
		}
		if share == 0 {
			continue
		}
		dash.OrdersByStatus[order.Status]++
		if order.Status == models.OrderDelivered {
			dash.Revenue += share
		}
	}

	for _, sales := range mine {
		if sales.UnitsSold > 0 {
			dash.TopProducts = append(dash.TopProducts, *sales)
		}
	}
	sort.Slice(dash.TopProducts, func(i, j int) bool {
		return dash.TopProducts[i].UnitsSold > dash.TopProducts[j].UnitsSold
	})
	if len(dash.TopProducts) > 5 {
		dash.TopProducts = dash.TopProducts[:5]
	}
	return dash
}

// ConsumerDashboard aggregates the consumer's order history.
type ConsumerDashboard struct {
	OrderCount     int                        `json:"orderCount"`
	TotalSpent     float64                    `json:"totalSpent"`
	OrdersByStatus map[models.OrderStatus]int `json:"ordersByStatus"`
}

func (s *Service) consumerDashboard(consumerID string) ConsumerDashboard {
	dash := ConsumerDashboard{
		OrdersByStatus: make(map[models.OrderStatus]int),
	}
	for _, order := range s.store.OrdersByConsumer(consumerID) {
		dash.OrderCount++
		dash.TotalSpent += order.TotalAmount
		dash.OrdersByStatus[order.Status]++
	}
	return dash
}

// Dashboard serves the role-appropriate aggregate view.
func (s *Service) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if utils.GetRoleFromRequest(r) == string(models.RoleFarmer) {
		utils.RespondWithJSON(w, http.StatusOK, s.farmerDashboard(userID))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s.consumerDashboard(userID))
}

// Activity reports the event counters since startup.
func (s *Service) Activity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.RLock()
	counters := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		counters[k] = v
	}
	revenue := s.revenue
	s.mu.RUnlock()

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"events":       counters,
		"orderRevenue": revenue,
	})
}
