package products

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"strings"

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

// GetProducts lists the marketplace, optionally filtered by ?category= and
// ?farmerId=.
func (a *API) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	products := a.Store.Products(
		r.URL.Query().Get("category"),
		r.URL.Query().Get("farmerId"),
	)
	utils.RespondWithJSON(w, http.StatusOK, products)
}

func (a *API) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	product, ok := a.Store.ProductByID(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct lists a new product for the authenticated farmer and grants
// the listing reward.
func (a *API) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if utils.GetRoleFromRequest(r) != string(models.RoleFarmer) {
		http.Error(w, "Only farmers can list products", http.StatusForbidden)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Println("CreateProduct decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if product.Name == "" || product.Unit == "" || product.Category == "" ||
		product.Price <= 0 || product.Quantity < 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}
	product.FarmerID = userID

	created := a.Store.AddProduct(product)
	a.Store.AddReward(userID, 10, models.RewardProductAdded, "Added new product to marketplace")

	a.Events.Emit(r.Context(), mq.Event{
		Name:       "product-added",
		EntityType: "product",
		EntityID:   created.ID,
		Actor:      userID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// UpdateProduct merges the supplied fields into the product.
func (a *API) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var upd store.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.Println("UpdateProduct decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	id := ps.ByName("id")
	if !a.Store.UpdateProduct(id, upd) {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	product, _ := a.Store.ProductByID(id)
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// basePrices feeds the advisory price suggestion; the suggestion is never
// authoritative.
var basePrices = map[string]float64{
	"grains":     50,
	"vegetables": 30,
	"fruits":     80,
	"pulses":     120,
	"spices":     200,
	"dairy":      60,
}

// SuggestPrice returns a mock AI price for a category, with an organic
// premium and ±20% variation.
func (a *API) SuggestPrice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	category := strings.ToLower(r.URL.Query().Get("category"))
	if category == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "category is required")
		return
	}

	base, ok := basePrices[category]
	if !ok {
		base = 50
	}
	multiplier := 1.0
	if r.URL.Query().Get("organic") == "true" {
		multiplier = 1.3
	}
	variation := 0.8 + rand.Float64()*0.4

	suggested := float64(int(base*multiplier*variation + 0.5))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"suggestedPrice": suggested})
}
