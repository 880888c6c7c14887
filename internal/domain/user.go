package domain

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a store account. PasswordHash never leaves the data layer in JSON.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal identifies the authenticated caller of an operation.
type Principal struct {
	UserID   int64
	Username string
	Role     string
}
