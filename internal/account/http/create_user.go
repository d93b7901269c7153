package http

import (
	"encoding/json"
	"net/http"

	"github.com/stackhaven/accounts/internal/account/service"
	"github.com/stackhaven/accounts/pkg/accountsdk"
	"github.com/stackhaven/accounts/pkg/httpx"
	"github.com/stackhaven/accounts/pkg/slogx"
)

type CreateUserHandler struct {
	UserService *service.UserService
}

// ServeHTTP creates a new user account.
//
//	@Summary		Create a new user account
//	@Description	Registers a user with an email, a password of at least 5 characters, and an optional display name. The email is normalized to lowercase and must not already be registered.
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.CreateUserRequest	true	"New account payload"
//	@Success		201		{object}	accountsdk.UserResponse			"Created user (public fields only)"
//	@Failure		400		{object}	accountsdk.APIError				"Validation failed; fields enumerate the problems"
//	@Failure		500		{object}	accountsdk.APIError				"Internal server error"
//	@Router			/user/create [post].
func (h *CreateUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			accountsdk.NewValidationError(ve.Fields).WriteError(w)
			return
		}
		log.Error("user registration failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
}
