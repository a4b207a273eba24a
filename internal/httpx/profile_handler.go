package httpx

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	fbdb "firebase.google.com/go/v4/db"
	"github.com/go-chi/chi/v5"

	"github.com/venuegate/storefront/internal/profile"
)

// ProfileHandler hosts the authenticated profile-completion endpoint. The
// record lives in the Realtime Database; clients observe it through their
// live subscription, so a successful update here is what flips them from the
// completion form into the shell.
type ProfileHandler struct {
	Auth *fbauth.Client
	DB   *fbdb.Client
}

func (h *ProfileHandler) Register(r *chi.Mux) {
	auth := &BearerAuth{Auth: h.Auth}
	r.Group(func(r chi.Router) {
		r.Use(auth.Handler)
		r.Post("/api/user/profile", h.update)
	})
}

func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request) {
	uid := UIDFromContext(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req profile.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg, ok := missingField(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	fields := map[string]any{
		"fullName":        req.FullName,
		"phone":           req.Phone,
		"birthDate":       req.BirthDate,
		"cpfCnpj":         req.CpfCnpj,
		"address":         req.Address,
		"addressNumber":   req.AddressNumber,
		"complement":      req.Complement,
		"province":        req.Province,
		"postalCode":      req.PostalCode,
		"profileComplete": true,
	}
	if err := h.DB.NewRef("users/"+uid).Update(ctx, fields); err != nil {
		log.Printf("profile update for %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "could not update profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"profileComplete": true})
}

// missingField mirrors the form's required list; complement and birthDate are
// optional.
func missingField(req profile.UpdateRequest) (string, bool) {
	required := []struct{ name, value string }{
		{"fullName", req.FullName},
		{"phone", req.Phone},
		{"cpfCnpj", req.CpfCnpj},
		{"address", req.Address},
		{"addressNumber", req.AddressNumber},
		{"province", req.Province},
		{"postalCode", req.PostalCode},
	}
	for _, f := range required {
		if f.value == "" {
			return "field " + f.name + " is required", false
		}
	}
	return "", true
}
