package http

import (
	"encoding/json"
	"net/http"

	"github.com/stackhaven/accounts/internal/account/service"
	"github.com/stackhaven/accounts/pkg/accountsdk"
	"github.com/stackhaven/accounts/pkg/httpx"
	"github.com/stackhaven/accounts/pkg/slogx"
)

// MeHandler serves the authenticated user's own profile. AuthnMiddleware has
// already resolved the bearer token by the time either method runs.
type MeHandler struct {
	UserService *service.UserService
}

// HandleGet returns the caller's profile.
//
//	@Summary		Get own profile
//	@Description	Returns the authenticated user's name and email. The password is never included.
//	@Tags			User
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.ProfileResponse	"name and email"
//	@Failure		401	{object}	accountsdk.APIError			"Missing or invalid bearer token"
//	@Failure		500	{object}	accountsdk.APIError			"Internal server error"
//	@Router			/user/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.ProfileResponse{
		Name:  user.Name,
		Email: user.Email,
	})
}

// HandleUpdate applies a partial profile update (name and/or password).
//
//	@Summary		Update own profile
//	@Description	Partially updates the authenticated user's profile. Accepts name and password; a new password must be at least 5 characters and is re-hashed before storage.
//	@Tags			User
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.UpdateProfileRequest	true	"Fields to update"
//	@Success		200		{object}	accountsdk.ProfileResponse		"Updated profile"
//	@Failure		400		{object}	accountsdk.APIError				"Validation failed"
//	@Failure		401		{object}	accountsdk.APIError				"Missing or invalid bearer token"
//	@Failure		500		{object}	accountsdk.APIError				"Internal server error"
//	@Router			/user/me [patch].
func (h *MeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req accountsdk.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.UpdateProfile(ctx, userID, service.ProfileUpdate{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			accountsdk.NewValidationError(ve.Fields).WriteError(w)
			return
		}
		log.Error("profile update failed", "user_id", userID, "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.ProfileResponse{
		Name:  user.Name,
		Email: user.Email,
	})
}
