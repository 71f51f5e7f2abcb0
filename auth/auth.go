package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"mandi/middleware"
	"mandi/models"
	"mandi/store"
	"mandi/utils"

	"github.com/julienschmidt/httprouter"
)

type API struct {
	Store *store.Store
}

type loginRequest struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Login finds the seeded user with the exact (email, role) pair. There is
// no password; a miss is a soft failure, not a fault.
func (a *API) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Login decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.Email == "" || (req.Role != models.RoleFarmer && req.Role != models.RoleConsumer) {
		utils.RespondWithError(w, http.StatusBadRequest, "email and role are required")
		return
	}

	user, ok := a.Store.Login(r.Context(), sessionID, req.Email, req.Role)
	if !ok {
		utils.RespondWithJSON(w, http.StatusUnauthorized, utils.M{
			"success": false,
			"message": "No account found for this email and role",
		})
		return
	}

	token, err := middleware.CreateToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		log.Println("Login token error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Logout clears the session's user and cart unconditionally.
func (a *API) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}
	a.Store.Logout(r.Context(), sessionID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// GetSession returns the rehydrated per-session slices: current user, cart,
// language.
func (a *API) GetSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}

	resp := utils.M{
		"cart":     a.Store.Cart(r.Context(), sessionID),
		"language": a.Store.Language(r.Context(), sessionID),
	}
	if user, ok := a.Store.CurrentUser(r.Context(), sessionID); ok {
		resp["user"] = user
	} else {
		resp["user"] = nil
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ToggleLanguage flips hi ↔ en for the session and reports the new tag.
func (a *API) ToggleLanguage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionID(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}
	lang := a.Store.ToggleLanguage(r.Context(), sessionID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"language": lang})
}
