package usecase

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/it22188236/Hospital-Management/internal/delivery/dto"
	"github.com/it22188236/Hospital-Management/internal/delivery/http/middleware"
	"github.com/it22188236/Hospital-Management/internal/domain/entity"
	"github.com/it22188236/Hospital-Management/internal/scheduling"
	"github.com/it22188236/Hospital-Management/internal/service"
	"github.com/it22188236/Hospital-Management/pkg/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fakeConnPool satisfies the transaction surface Begin/Commit/Rollback
// need without a database driver. The query methods are never reached:
// every repository below is a fake that ignores its *gorm.DB argument.
type fakeConnPool struct{}

func (fakeConnPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errors.New("not implemented")
}

func (fakeConnPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errors.New("not implemented")
}

func (fakeConnPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (fakeConnPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (p fakeConnPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	// gorm's Commit/Rollback call reflect.ValueOf(pool).IsNil(), which
	// panics on a non-pointer value, so hand back a pointer.
	return &p, nil
}

func (fakeConnPool) Commit() error   { return nil }
func (fakeConnPool) Rollback() error { return nil }

func testDB() *gorm.DB {
	db := &gorm.DB{Config: &gorm.Config{ConnPool: fakeConnPool{}}}
	db.Statement = &gorm.Statement{DB: db, ConnPool: db.Config.ConnPool}
	return db
}

type fakeUserRepo struct {
	doctor *entity.User
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error { return nil }

func (f *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) FindDoctorByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if f.doctor != nil && f.doctor.ID == id {
		return f.doctor, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByRole(db *gorm.DB, role string) ([]entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) FindDoctorsByDepartment(db *gorm.DB, department string) ([]entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(db *gorm.DB, user *entity.User) error { return nil }

func (f *fakeUserRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) { return 1, nil }

type fakeAppointmentRepo struct {
	takenTimes    []string
	patientBooked bool
	doctorBooked  bool
	existing      *entity.Appointment

	createErr       error
	created         *entity.Appointment
	updateStatusErr error
	updateCalls     int
}

func (f *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	appointment.ID = uuid.New()
	f.created = appointment
	return nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return f.existing, nil
}

func (f *fakeAppointmentRepo) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) ExistsForPatientOn(db *gorm.DB, patientID uuid.UUID, date time.Time) (bool, error) {
	return f.patientBooked, nil
}

func (f *fakeAppointmentRepo) ExistsForDoctorAt(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	return f.doctorBooked, nil
}

func (f *fakeAppointmentRepo) FindTimesForDoctorOn(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]string, error) {
	return f.takenTimes, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	f.updateCalls++
	if f.updateStatusErr != nil {
		return 0, f.updateStatusErr
	}
	return 1, nil
}

func (f *fakeAppointmentRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	return 1, nil
}

type fakeAuditService struct{}

func (fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return nil
}

func (fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return nil
}

func (fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return nil
}

type fakeSlotHolder struct {
	acquireErr error

	acquired      int
	released      int
	releasedToken string
}

func (f *fakeSlotHolder) Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (string, error) {
	f.acquired++
	if f.acquireErr != nil {
		return "", f.acquireErr
	}
	return "hold-token", nil
}

func (f *fakeSlotHolder) Release(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string, token string) {
	f.released++
	f.releasedToken = token
}

// mondayDoctor is available 09:00-11:00 on Monday and closed the rest of
// the week.
func mondayDoctor(id uuid.UUID) *entity.User {
	availability := entity.WeeklyAvailability{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		availability[d.String()] = entity.AvailabilityWindow{}
	}
	availability[time.Monday.String()] = entity.AvailabilityWindow{
		Available: true,
		StartTime: "09:00",
		EndTime:   "11:00",
	}
	return &entity.User{
		ID:           id,
		FirstName:    "Nimal",
		LastName:     "Fernando",
		Role:         entity.RoleDoctor,
		Availability: availability,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newBookingFixture(users *fakeUserRepo, appts *fakeAppointmentRepo, holder *fakeSlotHolder) AppointmentUsecase {
	// 2026-09-07 is a Monday.
	fixed := clock.Fixed{Time: time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)}
	return NewAppointmentUsecase(testDB(), quietLogger(), fixed, users, appts, holder, fakeAuditService{}, time.Second)
}

func bookingRequest(doctorID uuid.UUID) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		FirstName:       "Amara",
		LastName:        "Perera",
		Email:           "amara@example.com",
		Phone:           "0771234567",
		NIC:             "200012345678",
		DOB:             "2000-05-14",
		Gender:          "Female",
		AppointmentDate: "2026-09-07",
		AppointmentTime: "09:30",
		Department:      "Cardiology",
		DoctorID:        doctorID,
		Address:         "12 Temple Road, Colombo",
	}
}

func TestGetAvailableSlotsClosedDay(t *testing.T) {
	doctorID := uuid.New()
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, &fakeAppointmentRepo{}, &fakeSlotHolder{})

	// 2026-09-06 is a Sunday.
	slots, err := u.GetAvailableSlots(context.Background(), doctorID, "2026-09-06")
	if err != nil {
		t.Fatalf("GetAvailableSlots() error = %v", err)
	}
	if len(slots.Slots) != 0 {
		t.Errorf("Slots = %v, want empty", slots.Slots)
	}
	if want := "doctor is not available on Sunday"; slots.Message != want {
		t.Errorf("Message = %q, want %q", slots.Message, want)
	}
}

func TestGetAvailableSlotsFiltersTakenTimes(t *testing.T) {
	doctorID := uuid.New()
	appts := &fakeAppointmentRepo{takenTimes: []string{"09:30"}}
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, appts, &fakeSlotHolder{})

	slots, err := u.GetAvailableSlots(context.Background(), doctorID, "2026-09-07")
	if err != nil {
		t.Fatalf("GetAvailableSlots() error = %v", err)
	}

	want := []string{"09:00", "10:00", "10:30", "11:00"}
	if len(slots.Slots) != len(want) {
		t.Fatalf("Slots = %v, want %v", slots.Slots, want)
	}
	for i, s := range want {
		if slots.Slots[i] != s {
			t.Errorf("Slots[%d] = %q, want %q", i, slots.Slots[i], s)
		}
	}
	if slots.Message != "" {
		t.Errorf("Message = %q, want empty", slots.Message)
	}
}

func TestGetAvailableSlotsFullyBooked(t *testing.T) {
	doctorID := uuid.New()
	appts := &fakeAppointmentRepo{takenTimes: []string{"09:00", "09:30", "10:00", "10:30", "11:00"}}
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, appts, &fakeSlotHolder{})

	slots, err := u.GetAvailableSlots(context.Background(), doctorID, "2026-09-07")
	if err != nil {
		t.Fatalf("GetAvailableSlots() error = %v", err)
	}
	if len(slots.Slots) != 0 {
		t.Errorf("Slots = %v, want empty", slots.Slots)
	}
	if want := "doctor is fully booked on 2026-09-07"; slots.Message != want {
		t.Errorf("Message = %q, want %q", slots.Message, want)
	}
}

func TestGetAvailableSlotsUnknownDoctor(t *testing.T) {
	u := newBookingFixture(&fakeUserRepo{}, &fakeAppointmentRepo{}, &fakeSlotHolder{})

	_, err := u.GetAvailableSlots(context.Background(), uuid.New(), "2026-09-07")
	if err != scheduling.ErrDoctorNotFound {
		t.Errorf("GetAvailableSlots() error = %v, want %v", err, scheduling.ErrDoctorNotFound)
	}
}

func TestRequestBookingCreatesPending(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	appts := &fakeAppointmentRepo{}
	holder := &fakeSlotHolder{}
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, appts, holder)

	ctx := middleware.WithUserID(context.Background(), patientID)
	resp, err := u.RequestBooking(ctx, bookingRequest(doctorID))
	if err != nil {
		t.Fatalf("RequestBooking() error = %v", err)
	}

	if resp.Status != string(entity.AppointmentStatusPending) {
		t.Errorf("Status = %q, want %q", resp.Status, entity.AppointmentStatusPending)
	}
	if resp.AppointmentTime != "09:30" {
		t.Errorf("AppointmentTime = %q, want %q", resp.AppointmentTime, "09:30")
	}
	if resp.PatientID != patientID {
		t.Errorf("PatientID = %s, want %s", resp.PatientID, patientID)
	}
	if appts.created == nil || appts.created.Status != entity.AppointmentStatusPending {
		t.Error("expected a Pending appointment to be persisted")
	}
	if holder.acquired != 1 {
		t.Errorf("slot hold acquired %d times, want 1", holder.acquired)
	}
	if holder.released != 0 {
		t.Errorf("slot hold released %d times, want 0", holder.released)
	}
}

func TestRequestBookingRejectsPastDate(t *testing.T) {
	doctorID := uuid.New()
	appts := &fakeAppointmentRepo{}
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, appts, &fakeSlotHolder{})

	req := bookingRequest(doctorID)
	req.AppointmentDate = "2026-09-06"

	ctx := middleware.WithUserID(context.Background(), uuid.New())
	_, err := u.RequestBooking(ctx, req)
	if err != ErrAppointmentDatePast {
		t.Errorf("RequestBooking() error = %v, want %v", err, ErrAppointmentDatePast)
	}
	if appts.created != nil {
		t.Error("expected no appointment to be persisted")
	}
}

func TestRequestBookingRejectsOffLadderTime(t *testing.T) {
	doctorID := uuid.New()
	holder := &fakeSlotHolder{}
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, &fakeAppointmentRepo{}, holder)

	for _, timeOfDay := range []string{"09:15", "08:30", "11:30"} {
		req := bookingRequest(doctorID)
		req.AppointmentTime = timeOfDay

		ctx := middleware.WithUserID(context.Background(), uuid.New())
		_, err := u.RequestBooking(ctx, req)
		if err != ErrTimeNotBookable {
			t.Errorf("RequestBooking(%q) error = %v, want %v", timeOfDay, err, ErrTimeNotBookable)
		}
	}
	if holder.acquired != 0 {
		t.Errorf("slot hold acquired %d times, want 0", holder.acquired)
	}
}

func TestRequestBookingRejectsClosedDay(t *testing.T) {
	doctorID := uuid.New()
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, &fakeAppointmentRepo{}, &fakeSlotHolder{})

	req := bookingRequest(doctorID)
	// 2026-09-08 is a Tuesday, closed for this doctor.
	req.AppointmentDate = "2026-09-08"

	ctx := middleware.WithUserID(context.Background(), uuid.New())
	_, err := u.RequestBooking(ctx, req)
	if err != ErrTimeNotBookable {
		t.Errorf("RequestBooking() error = %v, want %v", err, ErrTimeNotBookable)
	}
}

func TestRequestBookingHeldSlotReportsTaken(t *testing.T) {
	doctorID := uuid.New()
	holder := &fakeSlotHolder{acquireErr: service.ErrSlotHeld}
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, &fakeAppointmentRepo{}, holder)

	ctx := middleware.WithUserID(context.Background(), uuid.New())
	_, err := u.RequestBooking(ctx, bookingRequest(doctorID))
	if err != scheduling.ErrSlotAlreadyTaken {
		t.Errorf("RequestBooking() error = %v, want %v", err, scheduling.ErrSlotAlreadyTaken)
	}
	if holder.released != 0 {
		t.Errorf("slot hold released %d times, want 0", holder.released)
	}
}

func TestRequestBookingReleasesHoldOnInsertFailure(t *testing.T) {
	doctorID := uuid.New()
	appts := &fakeAppointmentRepo{createErr: errors.New("insert failed")}
	holder := &fakeSlotHolder{}
	u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, appts, holder)

	ctx := middleware.WithUserID(context.Background(), uuid.New())
	_, err := u.RequestBooking(ctx, bookingRequest(doctorID))
	if err == nil {
		t.Fatal("RequestBooking() error = nil, want insert failure")
	}
	if holder.released != 1 {
		t.Fatalf("slot hold released %d times, want 1", holder.released)
	}
	if holder.releasedToken != "hold-token" {
		t.Errorf("released token = %q, want %q", holder.releasedToken, "hold-token")
	}
}

func TestRequestBookingMapsUniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"doctor slot", "uq_appointments_doctor_slot", scheduling.ErrSlotAlreadyTaken},
		{"patient date", "uq_appointments_patient_date", scheduling.ErrPatientAlreadyBooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doctorID := uuid.New()
			appts := &fakeAppointmentRepo{
				createErr: &pgconn.PgError{Code: "23505", ConstraintName: tt.constraint},
			}
			holder := &fakeSlotHolder{}
			u := newBookingFixture(&fakeUserRepo{doctor: mondayDoctor(doctorID)}, appts, holder)

			ctx := middleware.WithUserID(context.Background(), uuid.New())
			_, err := u.RequestBooking(ctx, bookingRequest(doctorID))
			if err != tt.want {
				t.Errorf("RequestBooking() error = %v, want %v", err, tt.want)
			}
			if holder.released != 1 {
				t.Errorf("slot hold released %d times, want 1", holder.released)
			}
		})
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	appointmentID := uuid.New()
	appts := &fakeAppointmentRepo{
		existing: &entity.Appointment{ID: appointmentID, Status: entity.AppointmentStatusPending},
	}
	u := newBookingFixture(&fakeUserRepo{}, appts, &fakeSlotHolder{})

	resp, err := u.UpdateStatus(context.Background(), appointmentID, &dto.UpdateAppointmentStatusRequest{Status: "Accepted"})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusAccepted) {
		t.Errorf("Status = %q, want %q", resp.Status, entity.AppointmentStatusAccepted)
	}
	if appts.updateCalls != 1 {
		t.Errorf("UpdateStatus persisted %d times, want 1", appts.updateCalls)
	}
}

func TestUpdateStatusSameValueSkipsWrite(t *testing.T) {
	appointmentID := uuid.New()
	appts := &fakeAppointmentRepo{
		existing: &entity.Appointment{ID: appointmentID, Status: entity.AppointmentStatusPending},
	}
	u := newBookingFixture(&fakeUserRepo{}, appts, &fakeSlotHolder{})

	resp, err := u.UpdateStatus(context.Background(), appointmentID, &dto.UpdateAppointmentStatusRequest{Status: "Pending"})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusPending) {
		t.Errorf("Status = %q, want %q", resp.Status, entity.AppointmentStatusPending)
	}
	if appts.updateCalls != 0 {
		t.Errorf("UpdateStatus persisted %d times, want 0", appts.updateCalls)
	}
}

func TestUpdateStatusReacceptIntoTakenSlot(t *testing.T) {
	appointmentID := uuid.New()
	appts := &fakeAppointmentRepo{
		existing:        &entity.Appointment{ID: appointmentID, Status: entity.AppointmentStatusRejected},
		updateStatusErr: &pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_doctor_slot"},
	}
	u := newBookingFixture(&fakeUserRepo{}, appts, &fakeSlotHolder{})

	_, err := u.UpdateStatus(context.Background(), appointmentID, &dto.UpdateAppointmentStatusRequest{Status: "Accepted"})
	if err != scheduling.ErrSlotAlreadyTaken {
		t.Errorf("UpdateStatus() error = %v, want %v", err, scheduling.ErrSlotAlreadyTaken)
	}
}

func TestUpdateStatusUnknownAppointment(t *testing.T) {
	u := newBookingFixture(&fakeUserRepo{}, &fakeAppointmentRepo{}, &fakeSlotHolder{})

	_, err := u.UpdateStatus(context.Background(), uuid.New(), &dto.UpdateAppointmentStatusRequest{Status: "Accepted"})
	if err != ErrAppointmentNotFound {
		t.Errorf("UpdateStatus() error = %v, want %v", err, ErrAppointmentNotFound)
	}
}
