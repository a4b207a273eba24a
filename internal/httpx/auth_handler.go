package httpx

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	fbdb "firebase.google.com/go/v4/db"
	"github.com/go-chi/chi/v5"

	"github.com/venuegate/storefront/internal/profile"
)

// AuthHandler hosts registration: create the provider user, seed the profile
// record, hand back a custom token for the client's session exchange.
type AuthHandler struct {
	Auth *fbauth.Client
	DB   *fbdb.Client
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResp struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/api/auth/register", h.register)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	params := (&fbauth.UserToCreate{}).Email(req.Email).Password(req.Password)
	user, err := h.Auth.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		log.Printf("register: create user: %v", err)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	seed := profile.Profile{
		Email:           req.Email,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		ProfileComplete: false,
	}
	if err := h.DB.NewRef("users/"+user.UID).Set(ctx, seed); err != nil {
		// the auth user exists without a profile record; the client's
		// subscription reads that as incomplete and the form recreates it
		log.Printf("register: seed profile for %s: %v", user.UID, err)
	}

	token, err := h.Auth.CustomToken(ctx, user.UID)
	if err != nil {
		log.Printf("register: custom token for %s: %v", user.UID, err)
		writeError(w, http.StatusInternalServerError, "could not issue session token")
		return
	}
	writeJSON(w, http.StatusCreated, registerResp{Token: token, UID: user.UID})
}
