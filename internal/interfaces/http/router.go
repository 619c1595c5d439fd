package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *usecase.ItemUseCase
	WarehouseUC *usecase.WarehouseUseCase
	Engine      *ledger.Engine
	JWTSecret   string
	ServiceName string
	// HealthCheck opcional (p. ej. ping a la base de datos).
	HealthCheck func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Todo lo de /api requiere Bearer Token; el user_id del token es el actor del kardex.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	admin := RequireRole(jwt.RoleAdmin)
	warehouseStaff := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	salesStaff := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)

	// Maestros
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", admin, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", admin, itemHandler.Update)
	items.Delete("/:id", admin, itemHandler.Deactivate)

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", admin, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Delete("/:id", admin, warehouseHandler.Deactivate)

	// Órdenes de compra y venta
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Engine)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id/lines", admin, orderHandler.ReplaceLines)
	orders.Delete("/:id", admin, orderHandler.Delete)
	orders.Post("/:id/receive", warehouseStaff, orderHandler.Receive)
	orders.Post("/:id/fulfill", salesStaff, orderHandler.Fulfill)

	// Traslados
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Engine)
	transfers.Post("/", warehouseStaff, transferHandler.Create)
	transfers.Get("/:no", transferHandler.GetByNo)
	transfers.Put("/:no/rows", warehouseStaff, transferHandler.ReplaceRows)
	transfers.Delete("/:no", warehouseStaff, transferHandler.Delete)
	transfers.Post("/:no/process", warehouseStaff, transferHandler.Process)

	// Ajustes
	adjustments := api.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.Engine)
	adjustments.Post("/", warehouseStaff, adjustmentHandler.Create)
	adjustments.Get("/:no", adjustmentHandler.GetByNo)

	// Consultas de stock
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Engine)
	stock.Get("/balance", stockHandler.Balance)
	stock.Get("/movements", stockHandler.Movements)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/reconcile", admin, stockHandler.Reconcile)
}
