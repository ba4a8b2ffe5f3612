package domain

// Role enumerates the kinds of authenticated callers.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAgent    Role = "AGENT"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// Actor is the verified identity performing an action.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
