package converter

import (
	"github.com/it22188236/Hospital-Management/internal/delivery/dto"
	"github.com/it22188236/Hospital-Management/internal/domain/entity"
)

// DoctorToResponse converts a Doctor-role User entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.User) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:           doctor.ID,
		FirstName:    doctor.FirstName,
		LastName:     doctor.LastName,
		Email:        doctor.Email,
		Phone:        doctor.Phone,
		Department:   doctor.Department,
		Fees:         doctor.Fees,
		Availability: doctor.Availability,
	}
}

// DoctorsToResponses converts a slice of Doctor-role User entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.User) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		responses[i] = *DoctorToResponse(&doctor)
	}
	return responses
}
