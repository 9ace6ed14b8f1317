// Package auth casos de uso de autenticación: registro y login con JWT. El
// token lleva la sucursal asignada y la bandera de visibilidad global que
// consume el resolutor de tenant.
package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
	"github.com/vpmotos/vpmotos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación.
type UseCase struct {
	users    repository.UserRepository
	branches repository.BranchRepository
	jwtCfg   JWTConfig
}

// NewUseCase construye el caso de uso.
func NewUseCase(users repository.UserRepository, branches repository.BranchRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{users: users, branches: branches, jwtCfg: jwtCfg}
}

// Register crea un usuario: hashea el password con bcrypt y persiste. La
// sucursal asignada, si viene, debe existir.
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	var branchID *string
	if in.BranchID != "" {
		branch, err := uc.branches.GetByID(in.BranchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, domain.ErrNotFound
		}
		branchID = &in.BranchID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.DisplayName
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = "vendedor"
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		DisplayName:  name,
		Role:         role,
		BranchID:     branchID,
		SeeAll:       in.SeeAll,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera el JWT y retorna token + usuario.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}

	principal := jwt.Principal{
		UserID:      user.ID,
		SeeAll:      user.SeeAll,
		Role:        user.Role,
		DisplayName: user.DisplayName,
	}
	if user.BranchID != nil {
		principal.BranchID = *user.BranchID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, principal, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	resp := &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		SeeAll:      u.SeeAll,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
	}
	if u.BranchID != nil {
		resp.BranchID = *u.BranchID
	}
	return resp
}
