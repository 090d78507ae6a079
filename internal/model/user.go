package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the marketplace role of a user.
type UserRole string

const (
	UserRoleUser     UserRole = "USER"
	UserRoleLandlord UserRole = "LANDLORD"
	UserRoleAdmin    UserRole = "ADMIN"
)

// IsValid checks if the role is a valid user role.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleLandlord, UserRoleAdmin:
		return true
	default:
		return false
	}
}

// User is the subset of the marketplace account this service reads.
// Accounts are owned by the identity service; only Balance is written here.
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName string    `json:"full_name" gorm:"column:full_name"`
	Role     UserRole  `json:"role" gorm:"default:USER"`

	// Wallet balance in whole currency units.
	Balance int64 `json:"balance" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// IsAdmin returns true if the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// CanAfford returns true if the balance covers amount.
func (u *User) CanAfford(amount int64) bool {
	return u.Balance >= amount
}

// DisplayName returns the full name, falling back to the email.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
