package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleUser     Role = "user"
)

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email_address"`
	Role  Role   `json:"role"`
	OrgID int    `json:"org_id,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

func IsValidRole(role Role) bool {
	switch role {
	case RoleCustomer, RoleAdmin, RoleManager, RoleUser:
		return true
	default:
		return false
	}
}
