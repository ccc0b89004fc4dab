package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;size:16;default:user" json:"role"` // user, admin
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	Experience   int        `gorm:"not null;default:0" json:"experience"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLogin    *time.Time `json:"lastLogin"`

	Progress []Progress `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserUpdate carries the optional fields of an account update. Nil means
// "leave unchanged".
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *string
	IsActive     *bool
}
