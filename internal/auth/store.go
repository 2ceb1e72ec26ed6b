package auth

import "context"

// UserStore persists staff accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	ByID(ctx context.Context, id int64) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
}
