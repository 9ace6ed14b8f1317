package entity

import "time"

// User usuario del sistema (schema compartido). BranchID nulo más SeeAll en
// true describe a un administrador con visibilidad global.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Role         string // admin | bodeguero | vendedor | mecanico
	BranchID     *string
	SeeAll       bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
