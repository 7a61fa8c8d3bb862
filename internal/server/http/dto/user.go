package dto

import "github.com/polkiloo/usersvc/internal/domain/model"

// UserRequest describes create, update and validate payloads.
type UserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// ToModel converts request into domain user.
func (r UserRequest) ToModel() model.User {
	return model.User{Username: r.Username, Password: r.Password, Roles: r.Roles}
}

// ErrorResponse carries a human readable failure message.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports storage availability.
type HealthResponse struct {
	Status string `json:"status"`
}
