package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "Pending"
	AppointmentStatusAccepted AppointmentStatus = "Accepted"
	AppointmentStatusRejected AppointmentStatus = "Rejected"
)

// ErrInvalidStatus is returned for any status value outside the three
// known states.
var ErrInvalidStatus = errors.New("invalid appointment status")

// ParseAppointmentStatus validates a status submitted by staff. Only the
// three named values are accepted.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case AppointmentStatusPending, AppointmentStatusAccepted, AppointmentStatusRejected:
		return AppointmentStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Appointment is one booking. Contact and demographic fields are echoed
// from the request for display; the scheduling rules only look at
// (doctor, date, time), (patient, date) and status.
type Appointment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName   string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email       string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone       string    `gorm:"type:varchar(20);not null" json:"phone"`
	NIC         string    `gorm:"type:varchar(30);not null" json:"nic"`
	DateOfBirth time.Time `gorm:"type:date;not null" json:"dob"`
	Gender      string    `gorm:"type:varchar(10);not null" json:"gender"`

	AppointmentDate time.Time `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime string    `gorm:"type:varchar(5);not null" json:"appointment_time"`

	Department string            `gorm:"type:varchar(100);not null" json:"department"`
	HasVisited bool              `gorm:"not null;default:false" json:"has_visited"`
	Address    string            `gorm:"type:text;not null" json:"address"`
	DoctorID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	Status     AppointmentStatus `gorm:"type:varchar(10);not null;default:'Pending';index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// SetStatus applies a lifecycle transition. Transitions between the three
// states are unconditional and idempotent when the status is unchanged.
func (a *Appointment) SetStatus(s string) error {
	status, err := ParseAppointmentStatus(s)
	if err != nil {
		return err
	}
	a.Status = status
	return nil
}

// IsRejected reports whether the appointment no longer blocks its slot.
func (a *Appointment) IsRejected() bool {
	return a.Status == AppointmentStatusRejected
}
