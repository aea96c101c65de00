package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role within an organization.
type Role string

const (
	RoleMaster   Role = "master"
	RoleAdmin    Role = "admin"
	RoleSales    Role = "sales"
	RoleProducer Role = "producer"
	RoleTalent   Role = "talent"
	RoleClient   Role = "client"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleMaster, RoleAdmin, RoleSales, RoleProducer, RoleTalent, RoleClient:
		return true
	}
	return false
}

// User lives in a tenant schema; email is unique within the organization only.
// Users are deactivated rather than deleted to preserve referential history.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
