package domain

import "github.com/google/uuid"

// APIClient is a credentialed caller of the backend. Enabled and Trusted gate
// what the client is allowed to do.
type APIClient struct {
	ID           uuid.UUID `json:"id"`
	APIKey       string    `json:"api_key"`
	Description  string    `json:"description"`
	AdminEmail   string    `json:"admin_email"`
	Enabled      bool      `json:"enabled"`
	Trusted      bool      `json:"trusted"`
	FrontendType string    `json:"frontend_type,omitempty"`
	CreatedAt    string    `json:"created_at"`
}
