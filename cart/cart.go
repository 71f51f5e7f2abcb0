package cart

import (
	"encoding/json"
	"log"
	"net/http"

	"mandi/models"
	"mandi/mq"
	"mandi/store"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
)

type API struct {
	Store  *store.Store
	Events *mq.Emitter
}

// GetCart returns the session's cart, oldest entries first.
func (a *API) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a.Store.Cart(r.Context(), sessionID))
}

type addRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// AddToCart increments quantity if the product is already carted, keeping
// the first add's price snapshot; otherwise appends a new entry.
func (a *API) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" || req.Quantity < 1 || req.Price < 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	a.Store.AddToCart(r.Context(), sessionID, req.ProductID, req.Quantity, req.Price)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// RemoveFromCart deletes the entry when present; a miss is a quiet no-op.
func (a *API) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}
	a.Store.RemoveFromCart(r.Context(), sessionID, ps.ByName("productId"))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (a *API) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}
	a.Store.ClearCart(r.Context(), sessionID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Checkout places an order from the live cart and clears it. The cart is
// read server-side so the order and the cleared cart can never diverge.
func (a *API) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	items := a.Store.Cart(r.Context(), sessionID)
	if len(items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	order, err := a.Store.PlaceOrder(r.Context(), sessionID, items)
	if err == store.ErrNotLoggedIn {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Println("Checkout error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
		return
	}

	a.grantSaleBonuses(order)

	a.Events.Emit(r.Context(), mq.Event{
		Name:       "order-placed",
		EntityType: "order",
		EntityID:   order.ID,
		Actor:      order.ConsumerID,
		Amount:     order.TotalAmount,
	})

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// grantSaleBonuses awards each distinct farmer with products in the order.
func (a *API) grantSaleBonuses(order models.Order) {
	awarded := map[string]bool{}
	for _, item := range order.Items {
		product, ok := a.Store.ProductByID(item.ProductID)
		if !ok || awarded[product.FarmerID] {
			continue
		}
		awarded[product.FarmerID] = true
		a.Store.AddReward(product.FarmerID, 20, models.RewardSaleBonus, "Bonus for selling products")
	}
}
