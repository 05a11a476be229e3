package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	FirstName       string    `json:"firstName" validate:"required,min=3"`
	LastName        string    `json:"lastName" validate:"required,min=3"`
	Email           string    `json:"email" validate:"required,email"`
	Phone           string    `json:"phone" validate:"required,len=10,numeric"`
	NIC             string    `json:"nic" validate:"required,min=9"`
	DOB             string    `json:"dob" validate:"required"`              // Format: YYYY-MM-DD
	Gender          string    `json:"gender" validate:"required,oneof=Male Female Other"`
	AppointmentDate string    `json:"appointment_date" validate:"required"` // Format: YYYY-MM-DD
	AppointmentTime string    `json:"appointment_time" validate:"required,hhmm"`
	Department      string    `json:"department" validate:"required,min=3"`
	DoctorID        uuid.UUID `json:"doctorId" validate:"required"`
	Address         string    `json:"address" validate:"required,min=10"`
	HasVisited      bool      `json:"hasVisited"`
}

// UpdateAppointmentStatusRequest carries a lifecycle transition. The value
// is checked against the three known states in the usecase so an unknown
// status reports the specific invalid-status condition.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	NIC             string    `json:"nic"`
	DOB             string    `json:"dob"`
	Gender          string    `json:"gender"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Department      string    `json:"department"`
	HasVisited      bool      `json:"hasVisited"`
	Address         string    `json:"address"`
	DoctorID        uuid.UUID `json:"doctorId"`
	PatientID       uuid.UUID `json:"patientId"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AvailableSlotsResponse lists the offerable HH:MM times for one doctor on
// one date. Message explains an empty list ("doctor is not available on
// Sunday"); slots already taken by non-rejected appointments are filtered
// out.
type AvailableSlotsResponse struct {
	DoctorID uuid.UUID `json:"doctorId"`
	Date     string    `json:"date"`
	Weekday  string    `json:"weekday"`
	Slots    []string  `json:"slots"`
	Message  string    `json:"message,omitempty"`
}
