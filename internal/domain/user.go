package domain

import "github.com/google/uuid"

// Auth methods accepted for client users.
const (
	AuthMethodDiscord = "discord"
	AuthMethodLocal   = "local"
)

// AuthMethods lists every supported auth method.
var AuthMethods = []string{AuthMethodDiscord, AuthMethodLocal}

// User is the client-facing identity of a user: the frontend's own id, a
// display name and the way the user authenticated with the frontend.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AuthMethod  string `json:"auth_method"`
}

// StoredUser is a persisted user row, owned by the API client that created it.
type StoredUser struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	AuthMethod  string    `json:"auth_method"`
	DisplayName string    `json:"display_name"`
	APIClientID uuid.UUID `json:"api_client_id"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   string    `json:"created_at"`
}
