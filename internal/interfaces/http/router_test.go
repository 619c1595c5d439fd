package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	engine := ledger.NewEngine(store, repos, lock.NewLocal(0), zerolog.Nop(), ledger.WithPageSize(50))

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:      usecase.NewItemUseCase(repos.Items, zerolog.Nop()),
		WarehouseUC: usecase.NewWarehouseUseCase(repos.Warehouses),
		Engine:      engine,
		JWTSecret:   testJWTSecret,
		ServiceName: "stock-ledger-test",
	})
	return &apiClient{t: t, app: app}
}

// do envía body como JSON con el rol indicado y decodifica la respuesta en out (si no es nil).
func (a *apiClient) do(method, path, role string, body, out any) int {
	a.t.Helper()
	auth := ""
	if role != "" {
		auth = tokenForRole(a.t, role)
	}
	return a.send(method, path, auth, body, out)
}

// send igual que do pero con el header Authorization tal cual.
func (a *apiClient) send(method, path, auth string, body, out any) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// seed crea una bodega y un artículo y carga stock inicial con un ajuste.
func (a *apiClient) seed(initial int64) (itemID, whID string) {
	a.t.Helper()
	var wh dto.WarehouseResponse
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/warehouses", pkgjwt.RoleAdmin,
		dto.CreateWarehouseRequest{Code: "BOD-1", Name: "Principal"}, &wh))
	var it dto.ItemResponse
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/items", pkgjwt.RoleAdmin,
		dto.CreateItemRequest{Code: "A-1", Name: "Tornillo", MinStock: decimal.NewFromInt(5)}, &it))
	if initial > 0 {
		require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/adjustments", pkgjwt.RoleBodeguero,
			dto.CreateAdjustmentRequest{
				WarehouseID: wh.ID, Direction: "add", Reason: "inventario inicial",
				Lines: []dto.AdjustmentLineRequest{{ItemID: it.ID, Qty: decimal.NewFromInt(initial)}},
			}, nil))
	}
	return it.ID, wh.ID
}

func (a *apiClient) balance(itemID, whID string) decimal.Decimal {
	a.t.Helper()
	var out dto.BalanceResponse
	require.Equal(a.t, http.StatusOK, a.do(http.MethodGet, "/api/stock/balance?item_id="+itemID+"&warehouse_id="+whID, pkgjwt.RoleVendedor, nil, &out))
	return out.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujos
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	api := newAPI(t)
	var out map[string]string
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil, &out))
	assert.Equal(t, "ok", out["status"])
}

func TestRouter_ApiRequiereToken(t *testing.T) {
	api := newAPI(t)
	var out dto.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/stock/low", "", nil, &out))
	assert.Equal(t, "MISSING_TOKEN", out.Code)
}

func TestRouter_VentaCompletaYDespachoExcedido(t *testing.T) {
	api := newAPI(t)
	itemID, whID := api.seed(10)

	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/orders", pkgjwt.RoleVendedor, dto.CreateOrderRequest{
		Kind: "sale", WarehouseID: whID,
		Lines: []dto.OrderLineRequest{{ItemID: itemID, QtyOrdered: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(1500)}},
	}, &order))
	require.Len(t, order.Lines, 1)
	lineID := order.Lines[0].ID
	assert.Equal(t, "pending", order.Status)

	var status dto.StatusResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/orders/"+order.ID+"/fulfill", pkgjwt.RoleVendedor,
		dto.ProgressOrderRequest{Lines: []dto.LineProgressRequest{{LineID: lineID, Qty: decimal.NewFromInt(4)}}}, &status))
	assert.Equal(t, "complete", status.Status)
	assert.True(t, api.balance(itemID, whID).Equal(decimal.NewFromInt(6)))

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, api.do(http.MethodPost, "/api/orders/"+order.ID+"/fulfill", pkgjwt.RoleVendedor,
		dto.ProgressOrderRequest{Lines: []dto.LineProgressRequest{{LineID: lineID, Qty: decimal.NewFromInt(1)}}}, &errResp))
	assert.Equal(t, "EXCEEDS_ORDERED", errResp.Code)
	assert.Equal(t, lineID, errResp.Ref)
	assert.True(t, api.balance(itemID, whID).Equal(decimal.NewFromInt(6)), "el lote rechazado no mueve stock")
}

func TestRouter_StockInsuficienteRetorna409(t *testing.T) {
	api := newAPI(t)
	itemID, whID := api.seed(2)

	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/orders", pkgjwt.RoleVendedor, dto.CreateOrderRequest{
		Kind: "sale", WarehouseID: whID,
		Lines: []dto.OrderLineRequest{{ItemID: itemID, QtyOrdered: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1)}},
	}, &order))

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/orders/"+order.ID+"/fulfill", pkgjwt.RoleVendedor,
		dto.ProgressOrderRequest{Lines: []dto.LineProgressRequest{{LineID: order.Lines[0].ID, Qty: decimal.NewFromInt(3)}}}, &errResp))
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
}

func TestRouter_ValidacionDevuelveCampos(t *testing.T) {
	api := newAPI(t)
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/orders", pkgjwt.RoleAdmin, dto.CreateOrderRequest{
		Kind: "gift",
	}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, "oneof", errResp.Fields["CreateOrderRequest.Kind"])
	assert.Equal(t, "required", errResp.Fields["CreateOrderRequest.WarehouseID"])
}

func TestRouter_RolesPorOperacion(t *testing.T) {
	api := newAPI(t)
	_, whID := api.seed(0)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/adjustments", pkgjwt.RoleVendedor, dto.CreateAdjustmentRequest{
		WarehouseID: whID, Direction: "add", Reason: "x",
	}, &errResp))
	assert.Equal(t, "FORBIDDEN", errResp.Code)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/stock/reconcile", pkgjwt.RoleBodeguero, nil, nil))

	var rec dto.ReconcileResponse
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/reconcile", pkgjwt.RoleAdmin, nil, &rec))
	assert.True(t, rec.Consistent)
}

func TestRouter_TrasladoEntreBodegas(t *testing.T) {
	api := newAPI(t)
	itemID, srcID := api.seed(10)
	var dst dto.WarehouseResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/warehouses", pkgjwt.RoleAdmin,
		dto.CreateWarehouseRequest{Code: "BOD-2", Name: "Sucursal"}, &dst))

	var tr dto.TransferResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/transfers", pkgjwt.RoleBodeguero, dto.CreateTransferRequest{
		SourceWarehouseID: srcID, DestWarehouseID: dst.ID,
		Rows: []dto.TransferRowRequest{{ItemID: itemID, QtyRequested: decimal.NewFromInt(5)}},
	}, &tr))
	assert.Equal(t, "pending", tr.Status)

	var status dto.StatusResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/transfers/"+tr.TransferNo+"/process", pkgjwt.RoleBodeguero,
		dto.ProcessTransferRequest{Rows: []dto.RowProgressRequest{{RowID: tr.Rows[0].ID, Qty: decimal.NewFromInt(3)}}}, &status))
	assert.Equal(t, "in_transit", status.Status)
	assert.True(t, api.balance(itemID, srcID).Equal(decimal.NewFromInt(7)))
	assert.True(t, api.balance(itemID, dst.ID).Equal(decimal.NewFromInt(3)))

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/transfers/"+tr.TransferNo, pkgjwt.RoleBodeguero, nil, nil))
	assert.True(t, api.balance(itemID, srcID).Equal(decimal.NewFromInt(10)))
	assert.True(t, api.balance(itemID, dst.ID).IsZero())
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/transfers/"+tr.TransferNo, pkgjwt.RoleBodeguero, nil, nil))
}

func TestRouter_KardexPaginadoConCursor(t *testing.T) {
	api := newAPI(t)
	itemID, whID := api.seed(10)
	for range 2 {
		require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/adjustments", pkgjwt.RoleBodeguero,
			dto.CreateAdjustmentRequest{
				WarehouseID: whID, Direction: "subtract", Reason: "merma",
				Lines: []dto.AdjustmentLineRequest{{ItemID: itemID, Qty: decimal.NewFromInt(1)}},
			}, nil))
	}

	base := "/api/stock/movements?item_id=" + itemID + "&limit=2"
	var first dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, base, pkgjwt.RoleAdmin, nil, &first))
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)
	assert.True(t, first.Items[0].QtyChange.Equal(decimal.NewFromInt(10)))

	var second dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, base+"&cursor="+first.NextCursor, pkgjwt.RoleAdmin, nil, &second))
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)
	assert.True(t, second.Items[0].QtyAfter.Equal(decimal.NewFromInt(8)))

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, base+"&cursor=%25%25", pkgjwt.RoleAdmin, nil, &errResp))
	assert.Equal(t, "INVALID_CURSOR", errResp.Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/stock/movements?kind=robo", pkgjwt.RoleAdmin, nil, nil))
}

func TestRouter_ActualizarArticuloConVersionVieja(t *testing.T) {
	api := newAPI(t)
	itemID, _ := api.seed(0)
	name := "Tornillo 1/2"

	var updated dto.ItemResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, "/api/items/"+itemID, pkgjwt.RoleAdmin,
		dto.UpdateItemRequest{Version: 1, Name: &name}, &updated))
	assert.Equal(t, 2, updated.Version)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPut, "/api/items/"+itemID, pkgjwt.RoleAdmin,
		dto.UpdateItemRequest{Version: 1, Name: &name}, &errResp))
	assert.Equal(t, "CONCURRENT_MODIFICATION", errResp.Code)
}
