package types

import "time"

type UserStatus string

const (
	UserStatusActive    UserStatus = "Active"
	UserStatusSuspended UserStatus = "Suspended"
)

type User struct {
	ID             string     `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	FullName       string     `db:"full_name" json:"full_name"`
	PhoneNumber    *string    `db:"phone_number" json:"phone_number"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender         *string    `db:"gender" json:"gender"`
	Address        *string    `db:"address" json:"address"`
	ProfilePicture *string    `db:"profile_picture" json:"profile_picture"`
	Status         UserStatus `db:"status" json:"status"`
	IsVerified     bool       `db:"is_verified" json:"is_verified"`
	LastLogin      *time.Time `db:"last_login" json:"last_login"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	FullName    string  `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
}
