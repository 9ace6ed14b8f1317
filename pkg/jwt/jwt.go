package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal describe al usuario autenticado tal como lo consume el resolutor
// de tenant: sucursal asignada (puede ser nula) y visibilidad global.
type Principal struct {
	UserID      string
	BranchID    string // vacío si no tiene sucursal asignada
	SeeAll      bool
	Role        string // "admin" | "bodeguero" | "vendedor" | "mecanico"
	DisplayName string
}

// Claims incluye los claims estándar JWT más los campos propios.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id"`
	BranchID    string `json:"branch_id,omitempty"`
	SeeAll      bool   `json:"see_all"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

// Generate genera un token JWT firmado con los datos del principal.
func Generate(secret string, p Principal, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:      p.UserID,
		BranchID:    p.BranchID,
		SeeAll:      p.SeeAll,
		Role:        p.Role,
		DisplayName: p.DisplayName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el principal. Retorna error si el token es
// inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Principal, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return &Principal{
		UserID:      claims.UserID,
		BranchID:    claims.BranchID,
		SeeAll:      claims.SeeAll,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
	}, nil
}
