package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockHandler consultas de saldo y kardex (protegido).
type StockHandler struct {
	engine *ledger.Engine
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *ledger.Engine) *StockHandler {
	return &StockHandler{engine: engine}
}

// Balance godoc
// @Summary      Saldo actual de un artículo en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true  "ID del artículo"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	itemID, whID := c.Query("item_id"), c.Query("warehouse_id")
	if itemID == "" || whID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id y warehouse_id son requeridos"})
	}
	qty, err := h.engine.CurrentBalance(c.UserContext(), itemID, whID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceResponse{ItemID: itemID, WarehouseID: whID, Quantity: qty})
}

// Movements godoc
// @Summary      Kardex filtrado
// @Description  Orden de creación. next_cursor continúa la lectura; vacío si no hay más.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id         query  string  false  "Artículo"
// @Param        warehouse_id    query  string  false  "Bodega"
// @Param        kind            query  string  false  "Tipo de movimiento"
// @Param        reference_type  query  string  false  "Tipo de documento"
// @Param        reference_id    query  string  false  "Documento"
// @Param        batch_id        query  string  false  "Lote"
// @Param        from            query  string  false  "Desde (RFC3339)"
// @Param        to              query  string  false  "Hasta (RFC3339)"
// @Param        limit           query  int     false  "Tamaño de página"
// @Param        cursor          query  string  false  "Cursor de la página anterior"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ItemID:        c.Query("item_id"),
		WarehouseID:   c.Query("warehouse_id"),
		Kind:          entity.MovementKind(c.Query("kind")),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		BatchID:       c.Query("batch_id"),
	}
	var err error
	if filter.From, err = parseTimeQuery(c.Query("from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	if filter.To, err = parseTimeQuery(c.Query("to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	after, err := decodeCursor(c.Query("cursor"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CURSOR", Message: "cursor inválido"})
	}
	limit := c.QueryInt("limit", 0)
	if limit <= 0 || limit > h.engine.PageSize() {
		limit = h.engine.PageSize()
	}

	page, err := h.engine.MovementPage(c.UserContext(), filter, after, limit)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{Items: make([]dto.MovementResponse, 0, len(page))}
	for _, m := range page {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	if len(page) == limit {
		last := page[len(page)-1]
		out.NextCursor = encodeCursor(repository.MovementCursor{CreatedAt: last.CreatedAt, Seq: last.Seq})
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega (vacío = todas)"
// @Success      200  {array}  dto.LowStockResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	alerts, err := h.engine.LowStock(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LowStockResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.LowStockResponse{
			ItemID:      a.ItemID,
			ItemCode:    a.ItemCode,
			ItemName:    a.ItemName,
			WarehouseID: a.WarehouseID,
			Quantity:    a.Quantity,
			MinStock:    a.MinStock,
			Deficit:     a.Deficit,
		})
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar saldos contra el kardex
// @Description  Un descuadre se informa en el cuerpo (consistent=false); no es error del cliente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/stock/reconcile [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	drifts, err := h.engine.Reconcile(c.UserContext())
	if err != nil && !errors.Is(err, domain.ErrInvariantViolation) {
		return writeError(c, err)
	}
	out := dto.ReconcileResponse{Consistent: len(drifts) == 0, Drifts: make([]dto.DriftResponse, 0, len(drifts))}
	for _, d := range drifts {
		out.Drifts = append(out.Drifts, dto.DriftResponse{
			ItemID:      d.ItemID,
			WarehouseID: d.WarehouseID,
			Balance:     d.Balance,
			LedgerSum:   d.LedgerSum,
		})
	}
	return c.JSON(out)
}

func parseTimeQuery(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// El cursor es opaco para el cliente: base64url("<unix nano>.<seq>").
func encodeCursor(cur repository.MovementCursor) string {
	raw := fmt.Sprintf("%d.%d", cur.CreatedAt.UnixNano(), cur.Seq)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(v string) (*repository.MovementCursor, error) {
	if v == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil, err
	}
	nanoStr, seqStr, ok := strings.Cut(string(raw), ".")
	if !ok {
		return nil, fmt.Errorf("cursor sin separador")
	}
	nano, err := strconv.ParseInt(nanoStr, 10, 64)
	if err != nil {
		return nil, err
	}
	seq, err := strconv.ParseInt(seqStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return &repository.MovementCursor{CreatedAt: time.Unix(0, nano).UTC(), Seq: seq}, nil
}
