package domain

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// In checks set membership against an allow-list of roles.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Photo        string `gorm:"not null;default:default.jpg" json:"photo"`
	Role         Role   `gorm:"type:varchar(20);not null;default:user" json:"role"`
	PasswordHash string `json:"-"`

	PasswordChangedAt      *time.Time `json:"-"`
	PasswordResetTokenHash string     `gorm:"index" json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	Active bool `gorm:"not null;default:true" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Tokens older than the change must be rejected.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Before(*u.PasswordChangedAt)
}

// ClearResetToken drops the outstanding reset token hash together with its
// expiry. The two fields are never persisted one without the other.
func (u *User) ClearResetToken() {
	u.PasswordResetTokenHash = ""
	u.PasswordResetExpiresAt = nil
}
