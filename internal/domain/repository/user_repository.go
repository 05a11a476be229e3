package repository

import (
	"github.com/it22188236/Hospital-Management/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	// FindDoctorByID resolves id to a Doctor-role record; nil when the id
	// is unknown or the record holds another role.
	FindDoctorByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByRole(db *gorm.DB, role string) ([]entity.User, error)
	FindDoctorsByDepartment(db *gorm.DB, department string) ([]entity.User, error)
	Update(db *gorm.DB, user *entity.User) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
