package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the account service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateAccount registers a new user.
func (c *Client) CreateAccount(ctx context.Context, email, password, name string) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodPost, "/user/create", "",
		CreateUserRequest{Email: email, Password: password, Name: name},
		http.StatusCreated, &out)
	return out, err
}

// ObtainToken exchanges credentials for the user's bearer token.
func (c *Client) ObtainToken(ctx context.Context, email, password string) (string, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/user/token", "",
		TokenRequest{Email: email, Password: password},
		http.StatusOK, &out)
	return out.Token, err
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context, token string) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.do(ctx, http.MethodGet, "/user/me", token, nil, http.StatusOK, &out)
	return out, err
}

// UpdateMe partially updates the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, token string, upd UpdateProfileRequest) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.do(ctx, http.MethodPatch, "/user/me", token, upd, http.StatusOK, &out)
	return out, err
}

// Bootstrap creates the initial superuser.
func (c *Client) Bootstrap(ctx context.Context, token, email, password string) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodPost, "/bootstrap", "",
		BootstrapRequest{Token: token, Email: email, Password: password},
		http.StatusCreated, &out)
	return out, err
}

// Livez reports whether the service process is up.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", "", nil, http.StatusOK, &out)
	return out, err
}

// Readyz reports whether the service is ready to serve traffic.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", "", nil, http.StatusOK, &out)
	return out, err
}

// do performs a JSON request/response round trip. A non-nil out is decoded
// from a wantStatus response; anything else is decoded as an APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body any, wantStatus int, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("accountsdk: encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("accountsdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("accountsdk: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("accountsdk: decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-success response into an *APIError. Responses
// without a JSON body (e.g. bare 401s) still yield a typed error.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
		apiErr.Description = "request failed"
	}
	return apiErr
}
