package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FullName   string         `gorm:"column:full_name;not null" json:"full_name"`
	Email      string         `gorm:"column:email;unique;not null" json:"email"`
	IsVerified bool           `gorm:"column:is_verified;default:false" json:"is_verified"`
	Password   string         `gorm:"column:password;not null" json:"password,omitempty"`
	Role       string         `gorm:"column:role;default:customer" json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID   uint
	UserName string
	Role     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
