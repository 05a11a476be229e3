package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the shared directory record for patients, doctors and admins.
// Doctor-only fields (department, fees, availability) are empty for the
// other roles.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName   string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string    `gorm:"type:varchar(20);not null" json:"phone"`
	NIC         string    `gorm:"type:varchar(30);not null" json:"nic"`
	DateOfBirth time.Time `gorm:"type:date;not null" json:"dob"`
	Gender      string    `gorm:"type:varchar(10);not null" json:"gender"`
	Password    string    `gorm:"type:text;not null" json:"-"`
	Role        string    `gorm:"type:varchar(20);not null;index" json:"role"`

	Department   string             `gorm:"type:varchar(100)" json:"department,omitempty"`
	Fees         float64            `gorm:"type:numeric(10,2);default:0" json:"fees,omitempty"`
	Availability WeeklyAvailability `gorm:"type:jsonb" json:"availability,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	DoctorAppointments  []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsDoctor reports whether the record holds the Doctor role.
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
