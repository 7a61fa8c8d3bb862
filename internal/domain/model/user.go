package model

// User represents an account with plain credentials and a set of role labels.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// UserRole is a single users_roles join row.
type UserRole struct {
	UserID int64
	Role   string
}

// NewUserRoles builds join rows for bulk insert. Order and duplicates of roles are preserved.
func NewUserRoles(userID int64, roles []string) []UserRole {
	payload := make([]UserRole, 0, len(roles))
	for _, r := range roles {
		payload = append(payload, UserRole{UserID: userID, Role: r})
	}
	return payload
}
