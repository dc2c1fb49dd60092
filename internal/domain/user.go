package domain

import "time"

// Role is a coarse authorization tag carried in access tokens.
type Role string

const (
	// RolePenghuni is the default occupant role.
	RolePenghuni Role = "penghuni"
	RoleAdmin    Role = "admin"
)

var roleLevel = map[Role]int{
	RolePenghuni: 1,
	RoleAdmin:    2,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleLevel[r]
	return ok
}

// HasPermission reports whether r is at least min.
func (r Role) HasPermission(min Role) bool {
	return roleLevel[r] >= roleLevel[min] && roleLevel[r] > 0
}

// User is a row of the users table. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
