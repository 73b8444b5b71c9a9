package domain

import "time"

type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleLecturer Role = "LECTURER"
	RoleAdmin    Role = "ADMIN"
)

type Account struct {
	ID           int32      `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	PasswordHash string     `json:"-"`
	// FCM registration token of the account's mobile device, empty when
	// the device never registered for push.
	DeviceToken string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
