package dto

import "time"

// RegisterRequest entrada para registrar un usuario (password en texto, se
// hashea en el caso de uso).
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=200"`
	Role        string `json:"role" validate:"omitempty,oneof=admin bodeguero vendedor mecanico"`
	BranchID    string `json:"branch_id" validate:"omitempty,uuid"`
	SeeAll      bool   `json:"see_all"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	BranchID    string    `json:"branch_id,omitempty"`
	SeeAll      bool      `json:"see_all"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
