package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodegas-api/internal/application/inventory"
	"github.com/jhoicas/bodegas-api/internal/application/usecase"
	"github.com/jhoicas/bodegas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	InventoryUC *inventory.InventoryUseCase
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Component("http")

	warehouses := app.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, log)
	warehouses.Put("/", warehouseHandler.Register)
	warehouses.Get("/", warehouseHandler.List)

	inv := warehouses.Group("/:wid/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, log)
	inv.Put("/", inventoryHandler.Add)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/reconcile", inventoryHandler.Reconcile)
	inv.Get("/:iid", inventoryHandler.Get)
	inv.Get("/:iid/amount", inventoryHandler.GetAmount)
	inv.Post("/:iid/amount/change", inventoryHandler.ChangeAmount)
}
