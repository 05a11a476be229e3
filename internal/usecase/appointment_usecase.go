package usecase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/it22188236/Hospital-Management/internal/converter"
	"github.com/it22188236/Hospital-Management/internal/delivery/dto"
	"github.com/it22188236/Hospital-Management/internal/delivery/http/middleware"
	"github.com/it22188236/Hospital-Management/internal/domain/entity"
	"github.com/it22188236/Hospital-Management/internal/domain/repository"
	"github.com/it22188236/Hospital-Management/internal/scheduling"
	"github.com/it22188236/Hospital-Management/internal/service"
	"github.com/it22188236/Hospital-Management/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrInvalidAppointmentDate = errors.New("invalid appointment date, use YYYY-MM-DD")
	ErrAppointmentDatePast    = errors.New("cannot book an appointment on a past date")
	ErrTimeNotBookable        = errors.New("requested time is not one of the doctor's bookable slots")
	ErrStoreUnavailable       = errors.New("store temporarily unavailable, retry the request")
)

// SlotHolder serializes concurrent booking attempts for one
// (doctor, date, time). *service.SlotHoldService is the production
// implementation.
type SlotHolder interface {
	Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (string, error)
	Release(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string, token string)
}

type AppointmentUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
	RequestBooking(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, appointmentID uuid.UUID) error
	GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clock           clock.Clock
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	slotHold        SlotHolder
	auditService    service.AuditService
	checker         *scheduling.ConflictChecker
	storeTimeout    time.Duration
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clk clock.Clock,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	slotHold SlotHolder,
	auditService service.AuditService,
	storeTimeout time.Duration,
) AppointmentUsecase {
	u := &appointmentUsecase{
		db:              db,
		log:             log,
		clock:           clk,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		slotHold:        slotHold,
		auditService:    auditService,
		storeTimeout:    storeTimeout,
	}
	u.checker = scheduling.NewConflictChecker(
		&doctorDirectory{db: db, users: userRepo},
		&appointmentIndex{db: db, appointments: appointmentRepo},
	)
	return u
}

// GetAvailableSlots returns the offerable HH:MM times for a doctor on a
// date: the weekday's slot ladder minus slots already taken by non-rejected
// appointments. A closed day is an empty list with a reason, not an error.
func (u *appointmentUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	doctor, err := u.userRepo.FindDoctorByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, mapStoreErr(err)
	}
	if doctor == nil {
		return nil, scheduling.ErrDoctorNotFound
	}

	weekday := day.Weekday().String()
	response := &dto.AvailableSlotsResponse{
		DoctorID: doctorID,
		Date:     day.Format("2006-01-02"),
		Weekday:  weekday,
		Slots:    []string{},
	}

	weekly, err := doctor.Availability.Weekly()
	if err != nil {
		u.log.Warnf("Doctor %s has malformed availability: %+v", doctorID, err)
		return nil, err
	}

	window, open := weekly.WindowFor(day)
	if !open {
		response.Message = fmt.Sprintf("doctor is not available on %s", weekday)
		return response, nil
	}

	takenTimes, err := u.appointmentRepo.FindTimesForDoctorOn(u.db.WithContext(ctx), doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find booked times for doctor %s: %+v", doctorID, err)
		return nil, mapStoreErr(err)
	}
	taken := make(map[string]struct{}, len(takenTimes))
	for _, t := range takenTimes {
		taken[t] = struct{}{}
	}

	for _, slot := range scheduling.Slots(window) {
		if _, ok := taken[slot.String()]; ok {
			continue
		}
		response.Slots = append(response.Slots, slot.String())
	}
	if len(response.Slots) == 0 {
		response.Message = fmt.Sprintf("doctor is fully booked on %s", day.Format("2006-01-02"))
	}
	return response, nil
}

// RequestBooking validates a booking draft, runs the conflict checks,
// reserves the slot in Redis and persists the appointment as Pending.
//
// Flow:
//  1. Parse date/time fields, reject past dates against the injected clock
//  2. Conflict check: doctor exists, patient-date free, doctor-slot free
//  3. Verify the time is one of the doctor's generated slots for that weekday
//  4. Acquire the Redis slot hold (loser of a concurrent race fails here)
//  5. Insert; on failure release the hold so the slot frees immediately
func (u *appointmentUsecase) RequestBooking(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	day, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}
	at, err := scheduling.ParseClockTime(req.AppointmentTime)
	if err != nil {
		return nil, scheduling.ErrInvalidClockTime
	}

	today := u.clock.Now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return nil, ErrAppointmentDatePast
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	doctor, err := u.checker.Check(ctx, scheduling.Candidate{
		DoctorID:  req.DoctorID,
		PatientID: patientID,
		Date:      day,
		Time:      at,
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	window, open := doctor.Weekly.WindowFor(day)
	if !open || !window.Bookable(at) {
		return nil, ErrTimeNotBookable
	}

	holdToken, err := u.slotHold.Acquire(ctx, req.DoctorID, day, at.String())
	if err != nil {
		if errors.Is(err, service.ErrSlotHeld) {
			return nil, scheduling.ErrSlotAlreadyTaken
		}
		u.log.Warnf("Failed to acquire slot hold for doctor %s: %+v", req.DoctorID, err)
		return nil, ErrStoreUnavailable
	}

	appointment := &entity.Appointment{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		NIC:             req.NIC,
		DateOfBirth:     dob,
		Gender:          req.Gender,
		AppointmentDate: day,
		AppointmentTime: at.String(),
		Department:      req.Department,
		HasVisited:      req.HasVisited,
		Address:         req.Address,
		DoctorID:        req.DoctorID,
		PatientID:       patientID,
		Status:          entity.AppointmentStatusPending,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.releaseHold(req.DoctorID, day, at.String(), holdToken)
		// The partial unique indexes are the backstop when two requests
		// slip past the existence checks.
		if isDuplicateKeyError(err, "doctor_slot") {
			return nil, scheduling.ErrSlotAlreadyTaken
		}
		if isDuplicateKeyError(err, "patient_date") {
			return nil, scheduling.ErrPatientAlreadyBooked
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, mapStoreErr(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentCreate,
		"appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the booking for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.releaseHold(req.DoctorID, day, at.String(), holdToken)
		u.log.Warnf("Failed to commit appointment: %+v", err)
		return nil, mapStoreErr(err)
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, date=%s, time=%s",
		appointment.ID, appointment.DoctorID, appointment.AppointmentDate.Format("2006-01-02"), appointment.AppointmentTime)
	return converter.AppointmentToResponse(appointment), nil
}

// UpdateStatus applies a lifecycle transition. Transitions are unconditional
// between the three states and idempotent when the value is unchanged;
// anything else fails as an invalid status before any write.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, mapStoreErr(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	oldStatus := appointment.Status
	if err := appointment.SetStatus(req.Status); err != nil {
		return nil, entity.ErrInvalidStatus
	}
	if appointment.Status == oldStatus {
		return converter.AppointmentToResponse(appointment), nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.appointmentRepo.UpdateStatus(tx, appointmentID, appointment.Status); err != nil {
		// Re-accepting after a newer booking took the slot trips the
		// partial unique index.
		if isDuplicateKeyError(err, "doctor_slot") {
			return nil, scheduling.ErrSlotAlreadyTaken
		}
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, mapStoreErr(err)
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionAppointmentStatusUpdate,
		"appointment", appointmentID.String(), string(oldStatus), string(appointment.Status)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit status update: %+v", err)
		return nil, mapStoreErr(err)
	}

	u.log.Infof("Appointment status updated: id=%s, %s -> %s", appointmentID, oldStatus, appointment.Status)
	return converter.AppointmentToResponse(appointment), nil
}

// DeleteAppointment is the unconditional administrative removal; it is not
// a scheduling decision and ignores the appointment's status.
func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return mapStoreErr(err)
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.appointmentRepo.Delete(tx, appointmentID); err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", appointmentID, err)
		return mapStoreErr(err)
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionAppointmentDelete,
		"appointment", appointmentID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit delete: %+v", err)
		return mapStoreErr(err)
	}

	u.log.Infof("Appointment deleted: id=%s", appointmentID)
	return nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, mapStoreErr(err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, mapStoreErr(err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// releaseHold compensates a failed insert on a fresh context; the request
// context may already be cancelled.
func (u *appointmentUsecase) releaseHold(doctorID uuid.UUID, day time.Time, timeOfDay, token string) {
	releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	u.slotHold.Release(releaseCtx, doctorID, day, timeOfDay, token)
}

// mapStoreErr folds timeouts and connectivity failures into the transient
// store error so callers can retry instead of seeing an internal fault.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStoreUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrStoreUnavailable
	}
	return err
}

// doctorDirectory adapts the user repository to the scheduler's view of
// doctors.
type doctorDirectory struct {
	db    *gorm.DB
	users repository.UserRepository
}

func (d *doctorDirectory) FindDoctor(ctx context.Context, id uuid.UUID) (*scheduling.Doctor, error) {
	user, err := d.users.FindDoctorByID(d.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	weekly, err := user.Availability.Weekly()
	if err != nil {
		return nil, err
	}
	return &scheduling.Doctor{ID: user.ID, Weekly: weekly}, nil
}

// appointmentIndex adapts the appointment repository to the scheduler's
// existence queries.
type appointmentIndex struct {
	db           *gorm.DB
	appointments repository.AppointmentRepository
}

func (a *appointmentIndex) PatientBookedOn(ctx context.Context, patientID uuid.UUID, date time.Time) (bool, error) {
	return a.appointments.ExistsForPatientOn(a.db.WithContext(ctx), patientID, date)
}

func (a *appointmentIndex) DoctorBookedAt(ctx context.Context, doctorID uuid.UUID, date time.Time, at scheduling.ClockTime) (bool, error) {
	return a.appointments.ExistsForDoctorAt(a.db.WithContext(ctx), doctorID, date, at.String())
}
