// seed inicializa una base vacía: tablas compartidas, sucursal principal con su
// schema, usuario administrador y parámetros globales.
//
// Uso: go run ./cmd/seed
// Configuración vía env (SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD) o valores por
// defecto de desarrollo. Idempotente: sobre una base ya inicializada no falla.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/vpmotos/vpmotos-api/internal/application/auth"
	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/application/usecase"
	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/infrastructure/postgres"
	"github.com/vpmotos/vpmotos-api/pkg/config"
	"github.com/vpmotos/vpmotos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.NewSchemaManager(pool).EnsureSharedTables(ctx); err != nil {
		log.Fatal().Err(err).Msg("tablas compartidas")
	}

	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	paramRepo := postgres.NewParameterRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	branchUC := usecase.NewBranchUseCase(txRunner, branchRepo, eventRepo, log)

	// Sucursal principal
	primary, err := branchRepo.GetPrimary()
	if err != nil {
		log.Fatal().Err(err).Msg("consultar sucursal principal")
	}
	if primary == nil {
		primary, err = branchUC.Create(ctx, usecase.CreateBranchInput{
			Code:           "MATRIZ",
			Name:           cfg.Business.CompanyName + " Matriz",
			ShortName:      "Matriz",
			DocumentPrefix: "001",
			IsPrimary:      true,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("crear sucursal principal")
		}
		log.Info().Str("sucursal", primary.Code).Str("schema", primary.SchemaName).Msg("sucursal principal creada")
	}

	// Usuario administrador
	authUC := auth.NewUseCase(userRepo, branchRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	email := envOr("SEED_ADMIN_EMAIL", "admin@vpmotos.local")
	password := envOr("SEED_ADMIN_PASSWORD", "cambiar-ahora")
	if _, err := authUC.Register(dto.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: "Administrador",
		Role:        "admin",
		BranchID:    primary.ID,
		SeeAll:      true,
	}); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		log.Fatal().Err(err).Msg("crear administrador")
	}

	// Parámetros globales
	now := time.Now()
	params := []entity.SystemParameter{
		{Name: "IVA_PERCENTAGE", Value: cfg.Business.VATPercent.String(), Description: "Porcentaje de IVA vigente", UpdatedAt: now},
		{Name: "CURRENCY", Value: cfg.Business.Currency, Description: "Moneda de operación", UpdatedAt: now},
		{Name: "COMPANY_NAME", Value: cfg.Business.CompanyName, Description: "Razón social de la cadena", UpdatedAt: now},
	}
	for i := range params {
		if err := paramRepo.Upsert(&params[i]); err != nil {
			log.Fatal().Err(err).Str("parametro", params[i].Name).Msg("guardar parámetro")
		}
	}

	log.Info().Str("admin", email).Msg("base inicializada")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
