package repository

import (
	"time"

	"github.com/it22188236/Hospital-Management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	// ExistsForPatientOn reports whether the patient holds a non-rejected
	// appointment on the date, with any doctor.
	ExistsForPatientOn(db *gorm.DB, patientID uuid.UUID, date time.Time) (bool, error)
	// ExistsForDoctorAt reports whether the doctor holds a non-rejected
	// appointment at the exact date and HH:MM time.
	ExistsForDoctorAt(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error)
	// FindTimesForDoctorOn returns the HH:MM times of the doctor's
	// non-rejected appointments on the date.
	FindTimesForDoctorOn(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]string, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
