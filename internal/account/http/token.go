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

type TokenHandler struct {
	AuthService  *service.AuthService
	TokenService *service.TokenService
}

// ServeHTTP exchanges credentials for the user's bearer token.
//
//	@Summary		Obtain a bearer token
//	@Description	Authenticates an email/password pair and returns the user's opaque bearer token. Issuance is idempotent: logging in again returns the same token. Failures are deliberately indistinguishable between unknown email, wrong password and deactivated account.
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.TokenRequest		true	"Credentials"
//	@Success		200		{object}	accountsdk.TokenResponse	"Bearer token"
//	@Failure		400		{object}	accountsdk.APIError			"Invalid credentials or malformed request"
//	@Failure		500		{object}	accountsdk.APIError			"Internal server error"
//	@Router			/user/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.AuthService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			accountsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("authentication errored", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	token, err := h.TokenService.IssueOrGet(ctx, user.ID)
	if err != nil {
		log.Error("token issuance failed", "user_id", user.ID, "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.TokenResponse{Token: token})
}
