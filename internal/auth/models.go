// Package auth covers staff accounts and the token pair that authenticates
// them: a short-lived access token plus a refresh token delivered in an
// HTTP-only cookie for silent renewal.
package auth

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// TokenPair is what a successful login or refresh yields.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}
