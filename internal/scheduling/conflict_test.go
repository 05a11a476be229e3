package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeDirectory struct {
	doctors map[uuid.UUID]*Doctor
	err     error
	calls   int
}

func (f *fakeDirectory) FindDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.doctors[id], nil
}

type fakeIndex struct {
	patientBooked bool
	doctorBooked  bool
	patientErr    error
	doctorErr     error

	patientCalls int
	doctorCalls  int
}

func (f *fakeIndex) PatientBookedOn(ctx context.Context, patientID uuid.UUID, date time.Time) (bool, error) {
	f.patientCalls++
	return f.patientBooked, f.patientErr
}

func (f *fakeIndex) DoctorBookedAt(ctx context.Context, doctorID uuid.UUID, date time.Time, at ClockTime) (bool, error) {
	f.doctorCalls++
	return f.doctorBooked, f.doctorErr
}

func testCandidate(doctorID uuid.UUID) Candidate {
	return Candidate{
		DoctorID:  doctorID,
		PatientID: uuid.New(),
		Date:      time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		Time:      9 * 60,
	}
}

func TestConflictCheckerPasses(t *testing.T) {
	doctorID := uuid.New()
	doctor := &Doctor{ID: doctorID, Weekly: Weekly{time.Monday: {Available: true, Start: 9 * 60, End: 17 * 60}}}
	checker := NewConflictChecker(
		&fakeDirectory{doctors: map[uuid.UUID]*Doctor{doctorID: doctor}},
		&fakeIndex{},
	)

	got, err := checker.Check(context.Background(), testCandidate(doctorID))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got == nil || got.ID != doctorID {
		t.Fatalf("Check returned doctor %+v, want id %s", got, doctorID)
	}
}

func TestConflictCheckerDoctorNotFound(t *testing.T) {
	index := &fakeIndex{patientBooked: true, doctorBooked: true}
	checker := NewConflictChecker(&fakeDirectory{doctors: map[uuid.UUID]*Doctor{}}, index)

	_, err := checker.Check(context.Background(), testCandidate(uuid.New()))
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("error = %v, want ErrDoctorNotFound", err)
	}
	// An unresolvable doctor stops the check before any index query.
	if index.patientCalls != 0 || index.doctorCalls != 0 {
		t.Errorf("index queried %d/%d times after doctor lookup failed", index.patientCalls, index.doctorCalls)
	}
}

func TestConflictCheckerPatientDateWins(t *testing.T) {
	// When both conflicts hold, the patient-date rule reports first.
	doctorID := uuid.New()
	index := &fakeIndex{patientBooked: true, doctorBooked: true}
	checker := NewConflictChecker(
		&fakeDirectory{doctors: map[uuid.UUID]*Doctor{doctorID: {ID: doctorID}}},
		index,
	)

	_, err := checker.Check(context.Background(), testCandidate(doctorID))
	if !errors.Is(err, ErrPatientAlreadyBooked) {
		t.Fatalf("error = %v, want ErrPatientAlreadyBooked", err)
	}
	if index.doctorCalls != 0 {
		t.Errorf("doctor-slot query ran %d times after patient-date conflict", index.doctorCalls)
	}
}

func TestConflictCheckerSlotTaken(t *testing.T) {
	doctorID := uuid.New()
	checker := NewConflictChecker(
		&fakeDirectory{doctors: map[uuid.UUID]*Doctor{doctorID: {ID: doctorID}}},
		&fakeIndex{doctorBooked: true},
	)

	_, err := checker.Check(context.Background(), testCandidate(doctorID))
	if !errors.Is(err, ErrSlotAlreadyTaken) {
		t.Fatalf("error = %v, want ErrSlotAlreadyTaken", err)
	}
}

func TestConflictCheckerPropagatesStoreErrors(t *testing.T) {
	doctorID := uuid.New()
	storeErr := errors.New("connection reset")

	checker := NewConflictChecker(&fakeDirectory{err: storeErr}, &fakeIndex{})
	if _, err := checker.Check(context.Background(), testCandidate(doctorID)); !errors.Is(err, storeErr) {
		t.Errorf("directory error = %v, want %v", err, storeErr)
	}

	checker = NewConflictChecker(
		&fakeDirectory{doctors: map[uuid.UUID]*Doctor{doctorID: {ID: doctorID}}},
		&fakeIndex{patientErr: storeErr},
	)
	if _, err := checker.Check(context.Background(), testCandidate(doctorID)); !errors.Is(err, storeErr) {
		t.Errorf("index error = %v, want %v", err, storeErr)
	}
}
