package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stackhaven/accounts/internal/account/service"
	"github.com/stackhaven/accounts/internal/account/store"
	"github.com/stackhaven/accounts/internal/account/store/drivers/sqlite"
	"github.com/stackhaven/accounts/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "accounts-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

// newTestRouter wires a Router against a migrated in-memory store, the same
// way app.New does in production.
func newTestRouter(t *testing.T, bootstrapToken string) (*Router, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter("test", st, logger)
	r.UserService = &service.UserService{Store: st}
	r.AuthService = &service.AuthService{Store: st}
	r.TokenService = &service.TokenService{Store: st}
	r.BootstrapService = &service.BootstrapService{
		Users: r.UserService,
		Token: bootstrapToken,
	}
	r.ApplyRoutes()

	return r, st
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates a user through the API and returns their token.
func registerAndLogin(t *testing.T, r *Router, email, password, name string) string {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/user/create", "",
		map[string]string{"email": email, "password": password, "name": name})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/user/token", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code)

	token, ok := decodeBody(t, rec)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestCreateUserEndpoint(t *testing.T) {
	t.Run("returns 201 with the public fields", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		rec := doJSON(t, r, http.MethodPost, "/user/create", "",
			map[string]string{"email": "Alice@Example.com", "password": "secret123", "name": "Alice"})
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "alice@example.com", body["email"])
		require.Equal(t, "Alice", body["name"])
		require.NotEmpty(t, body["id"])
		require.NotContains(t, body, "password")
	})

	t.Run("validation failure is a 400 with field detail", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		rec := doJSON(t, r, http.MethodPost, "/user/create", "",
			map[string]string{"email": "not-an-email", "password": "pw"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "invalid_request", body["error"])
		fields, ok := body["fields"].(map[string]any)
		require.True(t, ok)
		require.Contains(t, fields, "email")
		require.Contains(t, fields, "password")
	})

	t.Run("duplicate email is a 400", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		registerAndLogin(t, r, "bob@example.com", "secret123", "Bob")

		rec := doJSON(t, r, http.MethodPost, "/user/create", "",
			map[string]string{"email": "BOB@example.com", "password": "secret123"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		fields, ok := decodeBody(t, rec)["fields"].(map[string]any)
		require.True(t, ok)
		require.Contains(t, fields, "email")
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		req := httptest.NewRequest(http.MethodPost, "/user/create", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GET is a 405", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		rec := doJSON(t, r, http.MethodGet, "/user/create", "", nil)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestTokenEndpoint(t *testing.T) {
	t.Run("returns the token for valid credentials", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		registerAndLogin(t, r, "alice@example.com", "secret123", "Alice")

		rec := doJSON(t, r, http.MethodPost, "/user/token", "",
			map[string]string{"email": "alice@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, decodeBody(t, rec)["token"])
	})

	t.Run("same token on repeat logins", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		first := registerAndLogin(t, r, "bob@example.com", "secret123", "Bob")

		rec := doJSON(t, r, http.MethodPost, "/user/token", "",
			map[string]string{"email": "bob@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, first, decodeBody(t, rec)["token"])
	})

	t.Run("wrong password and unknown email both give the same 400", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		registerAndLogin(t, r, "carol@example.com", "secret123", "Carol")

		wrong := doJSON(t, r, http.MethodPost, "/user/token", "",
			map[string]string{"email": "carol@example.com", "password": "nope"})
		unknown := doJSON(t, r, http.MethodPost, "/user/token", "",
			map[string]string{"email": "nobody@example.com", "password": "secret123"})

		require.Equal(t, http.StatusBadRequest, wrong.Code)
		require.Equal(t, http.StatusBadRequest, unknown.Code)
		require.Equal(t, decodeBody(t, wrong)["error"], decodeBody(t, unknown)["error"])
	})

	t.Run("no token is minted on failure", func(t *testing.T) {
		r, st := newTestRouter(t, "")
		rec := doJSON(t, r, http.MethodPost, "/user/create", "",
			map[string]string{"email": "dave@example.com", "password": "secret123"})
		require.Equal(t, http.StatusCreated, rec.Code)
		userID := decodeBody(t, rec)["id"].(string)

		rec = doJSON(t, r, http.MethodPost, "/user/token", "",
			map[string]string{"email": "dave@example.com", "password": "wrong"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		_, err := st.Tokens().GetTokenByUserID(t.Context(), userID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		rec := doJSON(t, r, http.MethodGet, "/user/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		rec := doJSON(t, r, http.MethodGet, "/user/me", "bogus-token", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("returns exactly name and email", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		token := registerAndLogin(t, r, "alice@example.com", "secret123", "Alice")

		rec := doJSON(t, r, http.MethodGet, "/user/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, map[string]any{
			"name":  "Alice",
			"email": "alice@example.com",
		}, body)
	})

	t.Run("PATCH updates the name", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		token := registerAndLogin(t, r, "bob@example.com", "secret123", "Bob")

		rec := doJSON(t, r, http.MethodPatch, "/user/me", token,
			map[string]string{"name": "Robert"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Robert", decodeBody(t, rec)["name"])

		rec = doJSON(t, r, http.MethodGet, "/user/me", token, nil)
		require.Equal(t, "Robert", decodeBody(t, rec)["name"])
	})

	t.Run("PATCH changes the password", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		token := registerAndLogin(t, r, "carol@example.com", "secret123", "Carol")

		rec := doJSON(t, r, http.MethodPatch, "/user/me", token,
			map[string]string{"password": "fresh-secret"})
		require.Equal(t, http.StatusOK, rec.Code)

		old := doJSON(t, r, http.MethodPost, "/user/token", "",
			map[string]string{"email": "carol@example.com", "password": "secret123"})
		require.Equal(t, http.StatusBadRequest, old.Code)

		fresh := doJSON(t, r, http.MethodPost, "/user/token", "",
			map[string]string{"email": "carol@example.com", "password": "fresh-secret"})
		require.Equal(t, http.StatusOK, fresh.Code)
	})

	t.Run("PATCH rejects a short password", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		token := registerAndLogin(t, r, "dave@example.com", "secret123", "Dave")

		rec := doJSON(t, r, http.MethodPatch, "/user/me", token,
			map[string]string{"password": "pw"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		fields, ok := decodeBody(t, rec)["fields"].(map[string]any)
		require.True(t, ok)
		require.Contains(t, fields, "password")
	})

	t.Run("PUT works like PATCH", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		token := registerAndLogin(t, r, "eve@example.com", "secret123", "Eve")

		rec := doJSON(t, r, http.MethodPut, "/user/me", token,
			map[string]string{"name": "Evelyn"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Evelyn", decodeBody(t, rec)["name"])
	})

	t.Run("POST is a 405", func(t *testing.T) {
		r, _ := newTestRouter(t, "")
		token := registerAndLogin(t, r, "frank@example.com", "secret123", "Frank")

		rec := doJSON(t, r, http.MethodPost, "/user/me", token,
			map[string]string{"name": "Francis"})
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestBootstrapEndpoint(t *testing.T) {
	t.Run("creates the first superuser", func(t *testing.T) {
		r, _ := newTestRouter(t, "bootstrap-token")

		rec := doJSON(t, r, http.MethodPost, "/bootstrap", "",
			map[string]string{"token": "bootstrap-token", "email": "root@example.com", "password": "secret123"})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "root@example.com", decodeBody(t, rec)["email"])
	})

	t.Run("wrong token is a 403", func(t *testing.T) {
		r, _ := newTestRouter(t, "bootstrap-token")

		rec := doJSON(t, r, http.MethodPost, "/bootstrap", "",
			map[string]string{"token": "wrong", "email": "root@example.com", "password": "secret123"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("second bootstrap is a 409", func(t *testing.T) {
		r, _ := newTestRouter(t, "bootstrap-token")

		rec := doJSON(t, r, http.MethodPost, "/bootstrap", "",
			map[string]string{"token": "bootstrap-token", "email": "root@example.com", "password": "secret123"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, r, http.MethodPost, "/bootstrap", "",
			map[string]string{"token": "bootstrap-token", "email": "other@example.com", "password": "secret123"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("hidden when no token is configured", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		rec := doJSON(t, r, http.MethodPost, "/bootstrap", "",
			map[string]string{"token": "anything", "email": "root@example.com", "password": "secret123"})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("livez", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		rec := doJSON(t, r, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", decodeBody(t, rec)["status"])
	})

	t.Run("readyz reports database health", func(t *testing.T) {
		r, _ := newTestRouter(t, "")

		rec := doJSON(t, r, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "ok", body["status"])
	})

	t.Run("readyz degrades when the database is gone", func(t *testing.T) {
		r, st := newTestRouter(t, "")
		require.NoError(t, st.Close())

		rec := doJSON(t, r, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
