package models

import (
	"strings"
	"time"

	"uservice/src/types"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID     `gorm:"type:uuid;primarykey" json:"id"`
	FirstName     string        `gorm:"size:50;not null" json:"first_name"`
	LastName      string        `gorm:"size:50;not null" json:"last_name"`
	Email         string        `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string        `gorm:"not null" json:"-"`
	Role          types.Role    `gorm:"size:20;index;not null" json:"role"`
	Company       string        `gorm:"size:100" json:"company,omitempty"`
	Phone         string        `gorm:"size:30" json:"phone,omitempty"`
	Address       types.Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	IsActive      bool          `gorm:"not null" json:"is_active"`
	EmailVerified bool          `gorm:"not null" json:"email_verified"`
	LastLogin     *time.Time    `json:"last_login,omitempty"`

	PasswordChangedAt        *time.Time `json:"-"`
	PasswordResetToken       *string    `gorm:"size:64;index" json:"-"`
	PasswordResetExpires     *time.Time `json:"-"`
	EmailVerificationToken   *string    `gorm:"size:64;index" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`

	types.Timestamps
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) Caller() *types.Caller {
	return &types.Caller{ID: u.ID, Email: u.Email, Role: u.Role}
}

// IssuedBeforePasswordChange reports whether a token issued at iat predates the
// last password change. Token timestamps have second precision.
func (u *User) IssuedBeforePasswordChange(iat time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return iat.Before(u.PasswordChangedAt.Truncate(time.Second))
}
