package user

import (
	"time"

	domain "users-api/internal/domain/user"
)

// CreateUserRequest represents the request payload for creating a new user.
// Both columns are NOT NULL, so each field must be present. An empty string
// is a value and is stored as given.
type CreateUserRequest struct {
	Name  *string `validate:"required"`
	Email *string `validate:"required"`
}

// CreateUserResponse carries the stored user.
type CreateUserResponse struct {
	User User
}

// ListUsersRequest represents the request payload for listing users.
type ListUsersRequest struct{}

// ListUsersResponse carries every user in insertion order.
type ListUsersResponse struct {
	Users []User
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// GetUserResponse carries the requested user.
type GetUserResponse struct {
	User User
}

// UpdateUserRequest represents a partial update. Nil fields are unchanged.
type UpdateUserRequest struct {
	ID    string
	Name  *string
	Email *string
}

// UpdateUserResponse carries the user after the update.
type UpdateUserResponse struct {
	User User
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func fromDomain(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
