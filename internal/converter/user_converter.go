package converter

import (
	"github.com/it22188236/Hospital-Management/internal/delivery/dto"
	"github.com/it22188236/Hospital-Management/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Phone:       user.Phone,
		NIC:         user.NIC,
		DateOfBirth: user.DateOfBirth.Format("2006-01-02"),
		Gender:      user.Gender,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
