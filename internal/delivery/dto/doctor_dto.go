package dto

import (
	"github.com/it22188236/Hospital-Management/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	FirstName    string                    `json:"firstName" validate:"required,min=3"`
	LastName     string                    `json:"lastName" validate:"required,min=3"`
	Email        string                    `json:"email" validate:"required,email"`
	Phone        string                    `json:"phone" validate:"required,len=10,numeric"`
	NIC          string                    `json:"nic" validate:"required,min=9"`
	DOB          string                    `json:"dob" validate:"required"` // Format: YYYY-MM-DD
	Gender       string                    `json:"gender" validate:"required,oneof=Male Female Other"`
	Password     string                    `json:"password" validate:"required,min=8"`
	Department   string                    `json:"doctorDepartment" validate:"required,min=3"`
	Fees         float64                   `json:"fees" validate:"gte=0"`
	Availability entity.WeeklyAvailability `json:"availability" validate:"required"`
}

// UpdateDoctorRequest carries a partial doctor-profile update. Availability,
// when present, replaces the whole weekly record and is validated at this
// boundary.
type UpdateDoctorRequest struct {
	FirstName    string                     `json:"firstName" validate:"omitempty,min=3"`
	LastName     string                     `json:"lastName" validate:"omitempty,min=3"`
	Email        string                     `json:"email" validate:"omitempty,email"`
	Phone        string                     `json:"phone" validate:"omitempty,len=10,numeric"`
	Department   string                     `json:"doctorDepartment" validate:"omitempty,min=3"`
	Fees         *float64                   `json:"fees" validate:"omitempty,gte=0"`
	Availability *entity.WeeklyAvailability `json:"availability" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID           uuid.UUID                 `json:"id"`
	FirstName    string                    `json:"firstName"`
	LastName     string                    `json:"lastName"`
	Email        string                    `json:"email"`
	Phone        string                    `json:"phone"`
	Department   string                    `json:"doctorDepartment"`
	Fees         float64                   `json:"fees"`
	Availability entity.WeeklyAvailability `json:"availability,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
