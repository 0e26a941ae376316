package models

import "github.com/google/uuid"

// User identifies an account on the JobPing backend. It is returned
// alongside a token on login/register and is not cached beyond that
// response; only the token's presence drives authentication state.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// AuthResponse is the envelope of POST /api/login and /api/register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
