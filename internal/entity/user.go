package entity

import (
	"context"
	"time"
)

// Access roles. Role is never stored on the session itself: it is looked up
// in the user_roles mapping, and a missing row means RoleAffiliate.
const (
	RoleAdmin     = "admin"
	RoleAffiliate = "affiliate"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsAffiliate() bool {
	return u != nil && u.Role == RoleAffiliate
}

// UserRole mirrors a row of the role-assignment table. Written once at
// provisioning time, read-only afterwards.
type UserRole struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type RoleRepositoryInterface interface {
	// FindByUserID returns "" (no error) when the user has no role row.
	FindByUserID(ctx context.Context, userID string) (string, error)
}
