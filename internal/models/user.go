package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role tiers, ordered. Each tier carries every permission of the tiers below it.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var roleRank = map[string]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// RoleRank returns the ordinal rank of a role, 0 for unknown roles.
func RoleRank(role string) int {
	return roleRank[role]
}

// RoleAtLeast reports whether role meets or exceeds the minimum tier.
// Unknown roles never satisfy any tier.
func RoleAtLeast(role, min string) bool {
	r, m := roleRank[role], roleRank[min]
	return r > 0 && m > 0 && r >= m
}

type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email       string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	DisplayName string         `gorm:"size:100" json:"display_name"`
	Role        string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
