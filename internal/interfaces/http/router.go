package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/application/auth"
	"github.com/vpmotos/vpmotos-api/internal/application/inventory"
	"github.com/vpmotos/vpmotos-api/internal/application/sales"
	"github.com/vpmotos/vpmotos-api/internal/application/tenant"
	"github.com/vpmotos/vpmotos-api/internal/application/transfer"
	"github.com/vpmotos/vpmotos-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	BranchUC    *usecase.BranchUseCase
	ProductUC   *usecase.ProductUseCase
	InventoryUC *inventory.UseCase
	TransferUC  *transfer.UseCase
	SalesUC     *sales.UseCase
	Resolver    *tenant.Resolver
	JWTSecret   string
	VATPercent  decimal.Decimal
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas: Bearer Token y resolución de tenant por request.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), TenantMiddleware(deps.Resolver))

	// Branches (protegido; escrituras solo con visibilidad global)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.Get)
	branches.Put("/:id", branchHandler.Update)
	branches.Delete("/:id", branchHandler.Archive)

	// Products y catálogo (protegido, por schema de sucursal)
	productHandler := NewProductHandler(deps.ProductUC, deps.VATPercent)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Deactivate)

	categories := protected.Group("/categories")
	categories.Post("/", productHandler.CreateCategory)
	categories.Get("/", productHandler.ListCategories)

	brands := protected.Group("/brands")
	brands.Post("/", productHandler.CreateBrand)
	brands.Get("/", productHandler.ListBrands)

	// Inventory (protegido, por schema de sucursal)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/entries", inventoryHandler.RegisterEntry)
	invGroup.Post("/adjustments", inventoryHandler.RegisterAdjustment)
	invGroup.Get("/products/:id/movements", inventoryHandler.ProductLedger)
	invGroup.Get("/products/:id/totals", inventoryHandler.LedgerTotals)

	// Transfers (protegido; cruzan schemas dentro de una transacción)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/pending", transferHandler.ListPending)
	transfers.Get("/sent", transferHandler.ListSent)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Post("/:id/transit", transferHandler.MarkInTransit)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Sales (protegido, por schema de sucursal)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.Get)
}
