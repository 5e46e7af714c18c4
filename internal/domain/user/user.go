package user

import (
	"time"

	"github.com/soraleth/wavedex/internal/patch"
)

// closed role set; anything else is rejected at the validation boundary
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // never expose hash in JSON
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	Role            string    `json:"role"`
	ConsentGiven    bool      `json:"consentGiven"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,strongpw"`
	FirstName string `json:"firstName" binding:"required,min=1,max=100"`
	LastName  string `json:"lastName" binding:"required,min=1,max=100"`
	Consent   bool   `json:"consent" binding:"eq=true"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

// admin-side partial update; unknown keys are rejected by the strict binder
type UpdateUserRequest struct {
	Email     patch.Field[string] `json:"email"`
	FirstName patch.Field[string] `json:"firstName"`
	LastName  patch.Field[string] `json:"lastName"`
	Role      patch.Field[string] `json:"role"`
}
