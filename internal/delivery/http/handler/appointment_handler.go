package handler

import (
	"encoding/json"
	"net/http"

	"github.com/it22188236/Hospital-Management/internal/delivery/dto"
	"github.com/it22188236/Hospital-Management/internal/domain/entity"
	"github.com/it22188236/Hospital-Management/internal/scheduling"
	"github.com/it22188236/Hospital-Management/internal/usecase"
	"github.com/it22188236/Hospital-Management/pkg/response"
	"github.com/it22188236/Hospital-Management/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// GetAvailableSlots handles slot listing for a doctor and date
// @Summary List available slots
// @Description List the bookable HH:MM times for a doctor on a date
// @Tags Appointment
// @Produce json
// @Param doctorId query string true "Doctor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/slots [get]
func (h *AppointmentHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(r.URL.Query().Get("doctorId"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid or missing doctorId", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "Missing date, use YYYY-MM-DD", nil)
		return
	}

	slots, err := h.appointmentUsecase.GetAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAppointmentDate:
			response.Error(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD", nil)
		case scheduling.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "Store temporarily unavailable, retry the request")
		default:
			response.InternalServerError(w, "Failed to get available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

// CreateAppointment handles a patient booking request
// @Summary Book an appointment
// @Description Request a Pending appointment for the authenticated patient
// @Tags Appointment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.RequestBooking(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidAppointmentDate, scheduling.ErrInvalidClockTime:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrAppointmentDatePast:
			response.Error(w, http.StatusBadRequest, "Cannot book an appointment on a past date", nil)
		case usecase.ErrTimeNotBookable:
			response.Error(w, http.StatusBadRequest, "Requested time is not one of the doctor's bookable slots", nil)
		case scheduling.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case scheduling.ErrPatientAlreadyBooked:
			response.Conflict(w, "You already have an appointment on this date")
		case scheduling.ErrSlotAlreadyTaken:
			response.Conflict(w, "This slot has already been taken")
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "Store temporarily unavailable, retry the request")
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment requested successfully", appointment)
}

// GetMyAppointments handles listing the authenticated patient's appointments
// @Summary List my appointments
// @Tags Appointment
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointments/me [get]
func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context())
	if err != nil {
		if err == usecase.ErrStoreUnavailable {
			response.ServiceUnavailable(w, "Store temporarily unavailable, retry the request")
			return
		}
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// GetAllAppointments handles the admin listing of all appointments
// @Summary List all appointments
// @Tags Appointment
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/appointments [get]
func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetAllAppointments(r.Context())
	if err != nil {
		if err == usecase.ErrStoreUnavailable {
			response.ServiceUnavailable(w, "Store temporarily unavailable, retry the request")
			return
		}
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// UpdateStatus handles an appointment lifecycle transition
// @Summary Update appointment status
// @Description Move an appointment between Pending, Accepted and Rejected
// @Tags Appointment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Status Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/appointments/{id} [put]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case entity.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Status must be Pending, Accepted or Rejected", nil)
		case scheduling.ErrSlotAlreadyTaken:
			response.Conflict(w, "This slot has already been taken")
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "Store temporarily unavailable, retry the request")
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

// DeleteAppointment handles the admin removal of an appointment
// @Summary Delete appointment
// @Tags Appointment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/appointments/{id} [delete]
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	if err := h.appointmentUsecase.DeleteAppointment(r.Context(), appointmentID); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrStoreUnavailable:
			response.ServiceUnavailable(w, "Store temporarily unavailable, retry the request")
		default:
			response.InternalServerError(w, "Failed to delete appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}
