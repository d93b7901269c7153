package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stackhaven/accounts/internal/account/service"
	"github.com/stackhaven/accounts/pkg/accountsdk"
	"github.com/stackhaven/accounts/pkg/httpx"
	"github.com/stackhaven/accounts/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the initial superuser on an empty instance.
//
//	@Summary		Bootstrap the account service
//	@Description	Creates the first account as a staff superuser. Only available while no user exists, and only with the configured bootstrap token.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.BootstrapRequest	true	"Bootstrap payload"
//	@Success		201		{object}	accountsdk.UserResponse		"Created superuser (public fields only)"
//	@Failure		400		{object}	accountsdk.APIError			"Validation failed"
//	@Failure		403		{object}	accountsdk.APIError			"Bootstrap token mismatch"
//	@Failure		404		{object}	accountsdk.APIError			"Bootstrap not enabled"
//	@Failure		409		{object}	accountsdk.APIError			"Already bootstrapped"
//	@Failure		500		{object}	accountsdk.APIError			"Internal server error"
//	@Router			/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Disabled entirely unless a token is configured
	if h.BootstrapService.Token == "" {
		http.NotFound(w, r)
		return
	}

	var req accountsdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.BootstrapService.Bootstrap(ctx, req.Token, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			accountsdk.ErrAlreadyBootstrapped.WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			accountsdk.ErrBootstrapForbidden.WriteError(w)
		default:
			if ve, ok := service.AsValidationError(err); ok {
				accountsdk.NewValidationError(ve.Fields).WriteError(w)
				return
			}
			log.Error("bootstrap failed", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
}
