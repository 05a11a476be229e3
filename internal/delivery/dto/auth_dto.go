package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterPatientRequest struct {
	FirstName string `json:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,len=10,numeric"`
	NIC       string `json:"nic" validate:"required,min=9"`
	DOB       string `json:"dob" validate:"required"` // Format: YYYY-MM-DD
	Gender    string `json:"gender" validate:"required,oneof=Male Female Other"`
	Password  string `json:"password" validate:"required,min=8"`
}

// RegisterAdminRequest mirrors patient registration; only staff may submit it.
type RegisterAdminRequest struct {
	FirstName string `json:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,len=10,numeric"`
	NIC       string `json:"nic" validate:"required,min=9"`
	DOB       string `json:"dob" validate:"required"` // Format: YYYY-MM-DD
	Gender    string `json:"gender" validate:"required,oneof=Male Female Other"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=Admin Doctor Patient"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	NIC         string    `json:"nic"`
	DateOfBirth string    `json:"dob"`
	Gender      string    `json:"gender"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
