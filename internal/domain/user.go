package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"
)

type User struct {
	ID         int32           `json:"id"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Role       UserRole        `json:"role"`
	Status     UserStatus      `json:"status"`
	IsVerified bool            `json:"is_verified"`
	Balance    decimal.Decimal `json:"balance"` // never negative
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
