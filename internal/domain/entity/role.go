package entity

// Role constants. Roles are stored as a plain enum column on users;
// the directory contract only ever filters on them.
const (
	RoleAdmin   = "Admin"
	RoleDoctor  = "Doctor"
	RolePatient = "Patient"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}
