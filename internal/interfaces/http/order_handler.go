package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// OrderHandler órdenes de compra y venta (protegido).
type OrderHandler struct {
	engine *ledger.Engine
}

// NewOrderHandler construye el handler.
func NewOrderHandler(engine *ledger.Engine) *OrderHandler {
	return &OrderHandler{engine: engine}
}

// Create godoc
// @Summary      Crear orden de compra o venta
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	order, err := h.engine.CreateOrder(c.UserContext(), GetUserID(c), ledger.NewOrder{
		OrderNo:        in.OrderNo,
		Kind:           entity.OrderKind(in.Kind),
		CounterpartyID: in.CounterpartyID,
		WarehouseID:    in.WarehouseID,
		Lines:          toNewLines(in.Lines),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.engine.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Receive godoc
// @Summary      Recibir líneas de una orden de compra
// @Description  El lote se aplica completo o no se aplica; ref indica la línea que falló.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.ProgressOrderRequest  true  "Cantidades por línea"
// @Success      200   {object}  dto.StatusResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	return h.progress(c, h.engine.ReceivePurchaseLines)
}

// Fulfill godoc
// @Summary      Despachar líneas de una orden de venta
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.ProgressOrderRequest  true  "Cantidades por línea"
// @Success      200   {object}  dto.StatusResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/fulfill [post]
func (h *OrderHandler) Fulfill(c *fiber.Ctx) error {
	return h.progress(c, h.engine.FulfillSaleLines)
}

type progressFunc func(ctx context.Context, actor, orderID string, lines []ledger.LineProgress) (entity.OrderStatus, error)

func (h *OrderHandler) progress(c *fiber.Ctx, fn progressFunc) error {
	var in dto.ProgressOrderRequest
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	lines := make([]ledger.LineProgress, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.LineProgress{LineID: l.LineID, Qty: l.Qty, Note: l.Note})
	}
	status, err := fn(c.UserContext(), GetUserID(c), c.Params("id"), lines)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StatusResponse{Status: string(status)})
}

// ReplaceLines godoc
// @Summary      Editar orden
// @Description  Revierte el avance de todas las líneas y las reemplaza por las nuevas (avance cero).
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la orden"
// @Param        body  body  dto.ReplaceOrderLinesRequest  true  "Líneas nuevas"
// @Success      200   {object}  dto.OrderResponse
// @Router       /api/orders/{id}/lines [put]
func (h *OrderHandler) ReplaceLines(c *fiber.Ctx) error {
	var in dto.ReplaceOrderLinesRequest
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	order, err := h.engine.ReverseAndReplaceOrderLines(c.UserContext(), GetUserID(c), c.Params("id"), toNewLines(in.Lines))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Delete godoc
// @Summary      Eliminar orden
// @Description  Revierte todo el avance y elimina la orden; el kardex se conserva.
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.ReverseAndRemoveOrder(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
