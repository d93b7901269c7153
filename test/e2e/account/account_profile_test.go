package account_test

import (
	"net/http"
	"testing"

	"github.com/stackhaven/accounts/pkg/accountsdk"
	"github.com/stretchr/testify/require"
)

// TestProfileLifecycle runs the create, login, view, update flow end to end.
func TestProfileLifecycle(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)

	token := registerAndLogin(t, client, "alice@example.com", "secret123", "Alice")

	profile, err := client.Me(t.Context(), token)
	require.NoError(t, err)
	require.Equal(t, "Alice", profile.Name)
	require.Equal(t, "alice@example.com", profile.Email)

	newName := "Alice B"
	updated, err := client.UpdateMe(t.Context(), token, accountsdk.UpdateProfileRequest{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, updated.Name)
	require.Equal(t, "alice@example.com", updated.Email)

	profile, err = client.Me(t.Context(), token)
	require.NoError(t, err)
	require.Equal(t, newName, profile.Name)

	t.Logf("Profile lifecycle completed for %s", profile.Email)
}

// TestProfileRequiresToken verifies /user/me is unreachable without a valid
// bearer token.
func TestProfileRequiresToken(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)

	_, err := client.Me(t.Context(), "")
	assertAPIError(t, err, http.StatusUnauthorized, "Missing token should be rejected")

	_, err = client.Me(t.Context(), "bogus-token")
	assertAPIError(t, err, http.StatusUnauthorized, "Bogus token should be rejected")
}

// TestPasswordChange verifies changing the password through the profile
// endpoint flips which password authenticates.
func TestPasswordChange(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)

	token := registerAndLogin(t, client, "bob@example.com", "secret123", "Bob")

	newPassword := "brand-new-secret"
	_, err := client.UpdateMe(t.Context(), token, accountsdk.UpdateProfileRequest{Password: &newPassword})
	require.NoError(t, err)

	_, err = client.ObtainToken(t.Context(), "bob@example.com", "secret123")
	assertAPIError(t, err, http.StatusBadRequest, "Old password should stop working")

	_, err = client.ObtainToken(t.Context(), "bob@example.com", newPassword)
	require.NoError(t, err, "New password should authenticate")

	// The existing token keeps working after a password change
	_, err = client.Me(t.Context(), token)
	require.NoError(t, err)
}

// TestProfileShortPasswordRejected verifies the minimum length applies on
// change as well as on registration.
func TestProfileShortPasswordRejected(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)

	token := registerAndLogin(t, client, "carol@example.com", "secret123", "Carol")

	shortPassword := "pw"
	_, err := client.UpdateMe(t.Context(), token, accountsdk.UpdateProfileRequest{Password: &shortPassword})
	apiErr := assertAPIError(t, err, http.StatusBadRequest, "Short password should be rejected")
	require.Contains(t, apiErr.Fields, "password")

	// Old password still authenticates
	_, err = client.ObtainToken(t.Context(), "carol@example.com", "secret123")
	require.NoError(t, err)
}
