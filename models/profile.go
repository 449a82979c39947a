package models

import "time"

type ProfileRole string

const (
	RoleMember ProfileRole = "member"
	RoleAdmin  ProfileRole = "admin"
)

type Profile struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Role           ProfileRole `json:"role"`
	PasswordHash   string      `json:"-"`
	EmailConfirmed bool        `json:"email_confirmed"`

	EmailConfirmationToken *string    `json:"-"`
	PasswordResetToken     *string    `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
