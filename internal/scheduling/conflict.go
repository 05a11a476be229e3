package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDoctorNotFound means the id did not resolve to a Doctor-role record.
	ErrDoctorNotFound = errors.New("doctor not found")
	// ErrPatientAlreadyBooked means the patient already holds an appointment
	// on the requested date, with any doctor.
	ErrPatientAlreadyBooked = errors.New("patient already has an appointment on this date")
	// ErrSlotAlreadyTaken means the doctor already holds an appointment at
	// the requested date and time.
	ErrSlotAlreadyTaken = errors.New("doctor already has an appointment at this date and time")
)

// Doctor is the view of a doctor record the scheduler needs.
type Doctor struct {
	ID     uuid.UUID
	Weekly Weekly
}

// DoctorDirectory resolves doctor ids. FindDoctor returns nil (no error)
// when the id is unknown or the record does not hold the Doctor role.
type DoctorDirectory interface {
	FindDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
}

// AppointmentIndex answers the two existence queries behind the conflict
// rules. Rejected appointments are excluded on the repository side: a
// rejected booking frees both the slot and the patient's day.
type AppointmentIndex interface {
	PatientBookedOn(ctx context.Context, patientID uuid.UUID, date time.Time) (bool, error)
	DoctorBookedAt(ctx context.Context, doctorID uuid.UUID, date time.Time, at ClockTime) (bool, error)
}

// Candidate is a booking request reduced to the fields the conflict rules
// look at.
type Candidate struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      time.Time
	Time      ClockTime
}

// ConflictChecker runs the pre-acceptance checks for a booking. It holds
// no state; every call queries the directory and index afresh.
type ConflictChecker struct {
	directory DoctorDirectory
	index     AppointmentIndex
}

func NewConflictChecker(directory DoctorDirectory, index AppointmentIndex) *ConflictChecker {
	return &ConflictChecker{directory: directory, index: index}
}

// Check validates a candidate in order: doctor resolution, patient-date
// exclusivity, doctor-slot exclusivity. It stops at the first failure and
// returns the resolved doctor on success so callers can reuse the record.
func (c *ConflictChecker) Check(ctx context.Context, cand Candidate) (*Doctor, error) {
	doctor, err := c.directory.FindDoctor(ctx, cand.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	booked, err := c.index.PatientBookedOn(ctx, cand.PatientID, cand.Date)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, ErrPatientAlreadyBooked
	}

	taken, err := c.index.DoctorBookedAt(ctx, cand.DoctorID, cand.Date, cand.Time)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotAlreadyTaken
	}

	return doctor, nil
}
