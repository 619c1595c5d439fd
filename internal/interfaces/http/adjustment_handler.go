package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AdjustmentHandler ajustes manuales (protegido).
type AdjustmentHandler struct {
	engine *ledger.Engine
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(engine *ledger.Engine) *AdjustmentHandler {
	return &AdjustmentHandler{engine: engine}
}

// Create godoc
// @Summary      Aplicar ajuste manual
// @Description  Se aplica completo al crearse. Una resta puede dejar saldo negativo.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "Bodega, sentido, motivo y líneas"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	lines := make([]ledger.AdjustmentLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.AdjustmentLine{ItemID: l.ItemID, Qty: l.Qty})
	}
	ctx := c.UserContext()
	adjNo, err := h.engine.ApplyAdjustment(ctx, GetUserID(c), in.WarehouseID, entity.AdjustmentDirection(in.Direction), lines, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	adj, err := h.engine.GetAdjustment(ctx, adjNo)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAdjustmentResponse(adj))
}

// GetByNo godoc
// @Summary      Obtener ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        no   path  string  true  "Número de ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{no} [get]
func (h *AdjustmentHandler) GetByNo(c *fiber.Ctx) error {
	adj, err := h.engine.GetAdjustment(c.UserContext(), c.Params("no"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}
