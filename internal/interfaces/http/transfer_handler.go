package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// TransferHandler traslados entre bodegas (protegido).
type TransferHandler struct {
	engine *ledger.Engine
}

// NewTransferHandler construye el handler.
func NewTransferHandler(engine *ledger.Engine) *TransferHandler {
	return &TransferHandler{engine: engine}
}

// Create godoc
// @Summary      Crear traslado
// @Description  Queda pendiente; el stock se mueve al procesar las filas.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Origen, destino y filas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	t, err := h.engine.CreateTransfer(c.UserContext(), GetUserID(c), ledger.NewTransfer{
		TransferNo:        in.TransferNo,
		SourceWarehouseID: in.SourceWarehouseID,
		DestWarehouseID:   in.DestWarehouseID,
		Note:              in.Note,
		Rows:              toNewRows(in.Rows),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(t))
}

// GetByNo godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        no   path  string  true  "Número de traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{no} [get]
func (h *TransferHandler) GetByNo(c *fiber.Ctx) error {
	t, err := h.engine.GetTransfer(c.UserContext(), c.Params("no"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Process godoc
// @Summary      Enviar filas del traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        no    path  string                      true  "Número de traslado"
// @Param        body  body  dto.ProcessTransferRequest  true  "Cantidades por fila"
// @Success      200   {object}  dto.StatusResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transfers/{no}/process [post]
func (h *TransferHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessTransferRequest
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	rows := make([]ledger.RowProgress, 0, len(in.Rows))
	for _, r := range in.Rows {
		rows = append(rows, ledger.RowProgress{RowID: r.RowID, Qty: r.Qty, Note: r.Note})
	}
	status, err := h.engine.ProcessTransferRows(c.UserContext(), GetUserID(c), c.Params("no"), rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StatusResponse{Status: string(status)})
}

// ReplaceRows godoc
// @Summary      Editar traslado
// @Description  Revierte lo enviado (destino primero) y reemplaza las filas.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        no    path  string                          true  "Número de traslado"
// @Param        body  body  dto.ReplaceTransferRowsRequest  true  "Filas nuevas"
// @Success      200   {object}  dto.TransferResponse
// @Router       /api/transfers/{no}/rows [put]
func (h *TransferHandler) ReplaceRows(c *fiber.Ctx) error {
	var in dto.ReplaceTransferRowsRequest
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	t, err := h.engine.ReverseAndReplaceTransferRows(c.UserContext(), GetUserID(c), c.Params("no"), toNewRows(in.Rows))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Delete godoc
// @Summary      Eliminar traslado
// @Tags         transfers
// @Security     Bearer
// @Param        no   path  string  true  "Número de traslado"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{no} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.ReverseAndRemoveTransfer(c.UserContext(), GetUserID(c), c.Params("no")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
