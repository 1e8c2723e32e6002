package models

// Role controls what a planner account may do.
type Role string

const (
	// RoleAdmin can see and manage every trip.
	RoleAdmin Role = "admin"
	// RolePlanner can manage only trips they created.
	RolePlanner Role = "planner"
)

// User represents a registered planner account. Trip participants are plain
// name strings and do not need accounts; users exist so that trips have an
// owner and mutations are authenticated.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the login identifier (unique).
	Email string

	// Name is the display name of the planner.
	Name string

	// Role is the account role (admin or planner).
	Role Role

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
