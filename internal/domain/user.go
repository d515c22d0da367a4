package domain

// User role constants.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

// User is the read-only projection of an account as seen by this service.
// Account lifecycle (signup, passwords) is owned by the identity service.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
	Role  string `json:"role"`
}

// UserRef is the public subset of a user embedded in review responses.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}
