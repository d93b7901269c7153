package accountsdk

// CreateUserRequest is the payload for POST /user/create.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// UserResponse is the public view of a user returned on creation and
// bootstrap. It never carries the password or its hash.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenRequest is the payload for POST /user/token.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the opaque bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse is the payload of GET /user/me: exactly name and email.
type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfileRequest is the partial-update payload for PATCH/PUT /user/me.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// BootstrapRequest creates the initial superuser on an empty instance.
type BootstrapRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
