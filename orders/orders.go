package orders

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mandi/models"
	"mandi/store"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
)

type API struct {
	Store *store.Store
}

// GetOrders lists the authenticated consumer's orders. A farmer sees the
// orders containing their products instead.
func (a *API) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if utils.GetRoleFromRequest(r) == string(models.RoleFarmer) {
		utils.RespondWithJSON(w, http.StatusOK, a.ordersForFarmer(userID))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a.Store.OrdersByConsumer(userID))
}

func (a *API) ordersForFarmer(farmerID string) []models.Order {
	out := []models.Order{}
	for _, order := range a.Store.Orders() {
		for _, item := range order.Items {
			product, ok := a.Store.ProductByID(item.ProductID)
			if ok && product.FarmerID == farmerID {
				out = append(out, order)
				break
			}
		}
	}
	return out
}

func (a *API) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	order, ok := a.Store.OrderByID(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if !a.canView(order, userID, utils.GetRoleFromRequest(r)) {
		http.Error(w, "Not your order", http.StatusForbidden)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// canView admits the consumer who placed the order, or a farmer with a
// product in it.
func (a *API) canView(order models.Order, userID, role string) bool {
	if order.ConsumerID == userID {
		return true
	}
	if role != string(models.RoleFarmer) {
		return false
	}
	for _, item := range order.Items {
		product, ok := a.Store.ProductByID(item.ProductID)
		if ok && product.FarmerID == userID {
			return true
		}
	}
	return false
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateStatus moves an order along its lifecycle. Delivered and cancelled
// are terminal; there is no scheduler, every transition is an explicit call.
func (a *API) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("UpdateStatus decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	order, err := a.Store.UpdateOrderStatus(ps.ByName("id"), req.Status)
	switch {
	case errors.Is(err, store.ErrInvalidStatus):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order status")
	case errors.Is(err, store.ErrTerminalStatus):
		utils.RespondWithError(w, http.StatusConflict, "Order status can no longer change")
	case errors.Is(err, store.ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
	case err != nil:
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
	default:
		utils.RespondWithJSON(w, http.StatusOK, order)
	}
}
