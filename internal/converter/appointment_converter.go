package converter

import (
	"github.com/it22188236/Hospital-Management/internal/delivery/dto"
	"github.com/it22188236/Hospital-Management/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		FirstName:       appointment.FirstName,
		LastName:        appointment.LastName,
		Email:           appointment.Email,
		Phone:           appointment.Phone,
		NIC:             appointment.NIC,
		DOB:             appointment.DateOfBirth.Format("2006-01-02"),
		Gender:          appointment.Gender,
		AppointmentDate: appointment.AppointmentDate.Format("2006-01-02"),
		AppointmentTime: appointment.AppointmentTime,
		Department:      appointment.Department,
		HasVisited:      appointment.HasVisited,
		Address:         appointment.Address,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		Status:          string(appointment.Status),
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		responses[i] = *AppointmentToResponse(&appointment)
	}
	return responses
}
