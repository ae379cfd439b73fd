package user

import (
	"time"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

type User struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Matricule *string `json:"matricule" gorm:"uniqueIndex;size:50"`
	Email     string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password  string  `json:"-" gorm:"size:255;not null"`
	FirstName string  `json:"firstName" gorm:"size:100;not null"`
	LastName  string  `json:"lastName" gorm:"size:100;not null"`
	Role      Role    `json:"role" gorm:"size:20;not null;default:'STUDENT'"`
	ClassID   *uint   `json:"classId" gorm:"index"`

	// Push registration tokens, one per device.
	FCMTokens []string `json:"-" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the caller-facing projection of a user; the password hash is
// never part of it.
type Profile struct {
	ID        uint    `json:"id"`
	Matricule *string `json:"matricule,omitempty"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      Role    `json:"role"`
	ClassID   *uint   `json:"classId,omitempty"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Matricule: u.Matricule,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		ClassID:   u.ClassID,
	}
}
