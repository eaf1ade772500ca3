package dto

import "reviewhub/internal/http-api/models"

// CreateUserDTO: admin-side user creation; role is settable here,
// unlike self-service signup.
type CreateUserDTO struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"first_name,omitempty" binding:"max=150"`
	LastName  string `json:"last_name,omitempty" binding:"max=150"`
	Bio       string `json:"bio,omitempty"`
}

// UpdateUserDTO: partial update; nil fields stay untouched.
type UpdateUserDTO struct {
	Email     *string `json:"email,omitempty" binding:"omitempty,email,max=254"`
	Role      *string `json:"role,omitempty"`
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
}

// UserResponse mirrors the original API's user shape.
type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

func FromModelToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      string(user.Role),
	}
}
