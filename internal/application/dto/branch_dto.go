package dto

import (
	"time"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
)

// CreateBranchRequest body para POST /api/branches.
type CreateBranchRequest struct {
	Code           string `json:"code" validate:"required,max=20"`
	Name           string `json:"name" validate:"required,max=200"`
	ShortName      string `json:"short_name" validate:"omitempty,max=50"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Phone          string `json:"phone"`
	DocumentPrefix string `json:"document_prefix" validate:"omitempty,max=10"`
	IsPrimary      bool   `json:"is_primary"`
	SchemaName     string `json:"schema_name" validate:"omitempty,max=63"`
}

// UpdateBranchRequest body para PUT /api/branches/:id.
type UpdateBranchRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	ShortName      string `json:"short_name" validate:"omitempty,max=50"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Phone          string `json:"phone"`
	DocumentPrefix string `json:"document_prefix" validate:"omitempty,max=10"`
	IsPrimary      bool   `json:"is_primary"`
	IsActive       bool   `json:"is_active"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	SchemaName     string    `json:"schema_name"`
	Name           string    `json:"name"`
	ShortName      string    `json:"short_name,omitempty"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	DocumentPrefix string    `json:"document_prefix,omitempty"`
	IsPrimary      bool      `json:"is_primary"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToBranchResponse convierte la entidad al DTO de salida.
func ToBranchResponse(b *entity.Branch) *BranchResponse {
	if b == nil {
		return nil
	}
	return &BranchResponse{
		ID:             b.ID,
		Code:           b.Code,
		SchemaName:     b.SchemaName,
		Name:           b.Name,
		ShortName:      b.ShortName,
		Address:        b.Address,
		City:           b.City,
		Phone:          b.Phone,
		DocumentPrefix: b.DocumentPrefix,
		IsPrimary:      b.IsPrimary,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
	}
}
