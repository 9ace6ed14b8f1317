package repository

import "github.com/vpmotos/vpmotos-api/internal/domain/entity"

// UserRepository usuarios del sistema (schema compartido).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
