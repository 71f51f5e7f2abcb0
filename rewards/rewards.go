package rewards

import (
	"encoding/json"
	"log"
	"net/http"

	"mandi/mq"
	"mandi/store"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
)

type API struct {
	Store  *store.Store
	Events *mq.Emitter
}

// GetRewards lists the authenticated farmer's rewards with the running
// points total.
func (a *API) GetRewards(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"rewards":     a.Store.RewardsByFarmer(userID),
		"totalPoints": a.Store.TotalPoints(userID),
	})
}

type grantRequest struct {
	FarmerID    string `json:"farmerId"`
	Points      int    `json:"points"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// GrantReward appends a reward. The farmer id is taken as supplied and not
// validated against the user collection; rewards are append-only.
func (a *API) GrantReward(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("GrantReward decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.FarmerID == "" || req.Points <= 0 || req.Type == "" {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	reward := a.Store.AddReward(req.FarmerID, req.Points, req.Type, req.Description)

	a.Events.Emit(r.Context(), mq.Event{
		Name:       "reward-earned",
		EntityType: "reward",
		EntityID:   reward.ID,
		Actor:      req.FarmerID,
		Amount:     float64(req.Points),
	})

	utils.RespondWithJSON(w, http.StatusCreated, reward)
}
