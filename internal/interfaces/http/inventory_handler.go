package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/bodegas-api/internal/application/dto"
	"github.com/jhoicas/bodegas-api/internal/application/inventory"
	"github.com/jhoicas/bodegas-api/pkg/logger"
)

// HeaderIdempotencyKey cabecera opcional para que un cambio de cantidad reenviado no se reaplique.
const HeaderIdempotencyKey = "Idempotency-Key"

const itemNotFound = "producto no encontrado"

// InventoryHandler maneja las peticiones HTTP del inventario de una bodega.
type InventoryHandler struct {
	uc  *inventory.InventoryUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// Add godoc
// @Summary      Agregar producto al inventario
// @Description  Genera un inventory_id nuevo y escribe el registro en las vistas por ítem y por categoría.
// @Tags         inventory
// @Accept       json
// @Param        wid   path  string                   true  "ID de la bodega"
// @Param        body  body  dto.AddInventoryRequest  true  "id (producto), amount, description, category"
// @Success      201   "Location apunta al registro creado"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /warehouses/{wid}/inventory [put]
func (h *InventoryHandler) Add(c *fiber.Ctx) error {
	var in dto.AddInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	wid := param(c, "wid")
	inventoryID, err := h.uc.AddItem(c.UserContext(), wid, in)
	if err != nil {
		return respondError(c, h.log, err, "bodega no encontrada")
	}
	c.Location("/warehouses/" + url.PathEscape(wid) + "/inventory/" + url.PathEscape(inventoryID))
	return c.Status(fiber.StatusCreated).Send(nil)
}

// List godoc
// @Summary      Listar inventario de una bodega
// @Tags         inventory
// @Produce      json
// @Param        wid       path   string  true   "ID de la bodega"
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {array}   dto.InventoryItemResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /warehouses/{wid}/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	category := strings.TrimSpace(utils.CopyString(c.Query("category")))
	out, err := h.uc.ListItems(c.UserContext(), param(c, "wid"), category)
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener un registro de inventario
// @Tags         inventory
// @Produce      json
// @Param        wid  path  string  true  "ID de la bodega"
// @Param        iid  path  string  true  "inventory_id"
// @Success      200  {object}  dto.InventoryItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /warehouses/{wid}/inventory/{iid} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.UserContext(), param(c, "wid"), param(c, "iid"))
	if err != nil {
		return respondError(c, h.log, err, itemNotFound)
	}
	return c.JSON(out)
}

// GetAmount godoc
// @Summary      Cantidad de un registro
// @Tags         inventory
// @Produce      json
// @Param        wid  path  string  true  "ID de la bodega"
// @Param        iid  path  string  true  "inventory_id"
// @Success      200  {object}  dto.AmountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /warehouses/{wid}/inventory/{iid}/amount [get]
func (h *InventoryHandler) GetAmount(c *fiber.Ctx) error {
	out, err := h.uc.GetAmount(c.UserContext(), param(c, "wid"), param(c, "iid"))
	if err != nil {
		return respondError(c, h.log, err, itemNotFound)
	}
	return c.JSON(out)
}

// ChangeAmount godoc
// @Summary      Cambiar la cantidad
// @Description  Suma "by" (con signo) a la cantidad. Rechaza cambios que la dejarían negativa o por encima de 2147483647.
// @Description  Responde JSON {message, amount} en lugar del texto plano "Amount of product changed", para que el cliente conozca la cantidad resultante.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        wid              path    string                   true   "ID de la bodega"
// @Param        iid              path    string                   true   "inventory_id"
// @Param        Idempotency-Key  header  string                   false  "Evita reaplicar un cambio reenviado"
// @Param        body             body    dto.ChangeAmountRequest  true   "by: entero con signo"
// @Success      200  {object}  dto.ChangeAmountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /warehouses/{wid}/inventory/{iid}/amount/change [post]
func (h *InventoryHandler) ChangeAmount(c *fiber.Ctx) error {
	var in dto.ChangeAmountRequest
	if err := c.BodyParser(&in); err != nil || in.By == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CHANGE", Message: "cambio de cantidad inválido"})
	}
	key := strings.TrimSpace(utils.CopyString(c.Get(HeaderIdempotencyKey)))
	out, err := h.uc.ChangeAmount(c.UserContext(), param(c, "wid"), param(c, "iid"), *in.By, key)
	if err != nil {
		return respondError(c, h.log, err, itemNotFound)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Reparar la vista por categoría
// @Description  Reescribe las filas por categoría ausentes o distintas de la vista por ítem.
// @Tags         inventory
// @Produce      json
// @Param        wid  path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /warehouses/{wid}/inventory/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	n, err := h.uc.Reconcile(c.UserContext(), param(c, "wid"))
	if err != nil {
		return respondError(c, h.log, err, "")
	}
	return c.JSON(dto.ReconcileResponse{Repaired: n})
}
