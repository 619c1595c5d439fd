package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

type ledgerFeature struct {
	ctx        context.Context
	store      *memory.Store
	engine     *ledger.Engine
	items      map[string]string
	warehouses map[string]string
	order      *entity.Order
	transfer   *entity.Transfer
	err        error
}

func (c *ledgerFeature) reset() {
	c.ctx = context.Background()
	c.store = memory.NewStore()
	c.engine = ledger.NewEngine(c.store, c.store.Repos(), lock.NewLocal(0), zerolog.Nop())
	c.items = map[string]string{}
	c.warehouses = map[string]string{}
	c.order = nil
	c.transfer = nil
	c.err = nil
}

func (c *ledgerFeature) elArticulo(code string) error {
	now := time.Now().UTC()
	it := &entity.Item{ID: uuid.New().String(), Code: code, Name: code, Active: true, CreatedAt: now, UpdatedAt: now}
	c.items[code] = it.ID
	return c.store.Repos().Items.Create(c.ctx, it)
}

func (c *ledgerFeature) lasBodegas(a, b string) error {
	for _, code := range []string{a, b} {
		now := time.Now().UTC()
		w := &entity.Warehouse{ID: uuid.New().String(), Code: code, Name: code, Active: true, CreatedAt: now, UpdatedAt: now}
		c.warehouses[code] = w.ID
		if err := c.store.Repos().Warehouses.Create(c.ctx, w); err != nil {
			return err
		}
	}
	return nil
}

func (c *ledgerFeature) unSaldo(qty int, item, wh string) error {
	_, err := c.engine.ApplyAdjustment(c.ctx, "bdd", c.warehouses[wh], entity.AdjustmentAdd,
		[]ledger.AdjustmentLine{{ItemID: c.items[item], Qty: decimal.NewFromInt(int64(qty))}}, "saldo inicial")
	return err
}

func (c *ledgerFeature) unaOrden(kind entity.OrderKind) func(wh string, qty int, item string) error {
	return func(wh string, qty int, item string) error {
		o, err := c.engine.CreateOrder(c.ctx, "bdd", ledger.NewOrder{
			Kind:        kind,
			WarehouseID: c.warehouses[wh],
			Lines:       []ledger.NewLine{{ItemID: c.items[item], QtyOrdered: decimal.NewFromInt(int64(qty)), UnitPrice: decimal.Zero}},
		})
		c.order = o
		return err
	}
}

func (c *ledgerFeature) recibo(qty int) error {
	_, c.err = c.engine.ReceivePurchaseLines(c.ctx, "bdd", c.order.ID,
		[]ledger.LineProgress{{LineID: c.order.Lines[0].ID, Qty: decimal.NewFromInt(int64(qty))}})
	return c.err
}

func (c *ledgerFeature) despacho(qty int) error {
	_, c.err = c.engine.FulfillSaleLines(c.ctx, "bdd", c.order.ID,
		[]ledger.LineProgress{{LineID: c.order.Lines[0].ID, Qty: decimal.NewFromInt(int64(qty))}})
	return nil
}

func (c *ledgerFeature) editoLaOrden(qty int, item string) error {
	o, err := c.engine.ReverseAndReplaceOrderLines(c.ctx, "bdd", c.order.ID,
		[]ledger.NewLine{{ItemID: c.items[item], QtyOrdered: decimal.NewFromInt(int64(qty)), UnitPrice: decimal.Zero}})
	if err != nil {
		return err
	}
	c.order = o
	return nil
}

func (c *ledgerFeature) unTraslado(src, dst string, qty int, item string) error {
	tr, err := c.engine.CreateTransfer(c.ctx, "bdd", ledger.NewTransfer{
		SourceWarehouseID: c.warehouses[src],
		DestWarehouseID:   c.warehouses[dst],
		Rows:              []ledger.NewTransferRow{{ItemID: c.items[item], QtyRequested: decimal.NewFromInt(int64(qty))}},
	})
	c.transfer = tr
	return err
}

func (c *ledgerFeature) envio(qty int) error {
	_, err := c.engine.ProcessTransferRows(c.ctx, "bdd", c.transfer.TransferNo,
		[]ledger.RowProgress{{RowID: c.transfer.Rows[0].ID, Qty: decimal.NewFromInt(int64(qty))}})
	return err
}

func (c *ledgerFeature) laLineaQuedaEnEstado(status string) error {
	o, err := c.engine.GetOrder(c.ctx, c.order.ID)
	if err != nil {
		return err
	}
	if got := string(o.Lines[0].Status); got != status {
		return fmt.Errorf("estado esperado %q, obtenido %q", status, got)
	}
	return nil
}

func (c *ledgerFeature) elSaldoEs(item, wh string, qty int) error {
	got, err := c.engine.CurrentBalance(c.ctx, c.items[item], c.warehouses[wh])
	if err != nil {
		return err
	}
	if !got.Equal(decimal.NewFromInt(int64(qty))) {
		return fmt.Errorf("saldo esperado %d, obtenido %s", qty, got)
	}
	return nil
}

func (c *ledgerFeature) movimientos(refID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for m, err := range c.engine.MovementHistory(c.ctx, repository.MovementFilter{ReferenceID: refID}) {
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *ledgerFeature) laOrdenTieneMovimientos(n int) error {
	movs, err := c.movimientos(c.order.ID)
	if err != nil {
		return err
	}
	if len(movs) != n {
		return fmt.Errorf("movimientos esperados %d, obtenidos %d", n, len(movs))
	}
	return nil
}

func (c *ledgerFeature) elTrasladoTieneMovimientosEnUnLote(n int) error {
	movs, err := c.movimientos(c.transfer.TransferNo)
	if err != nil {
		return err
	}
	if len(movs) != n {
		return fmt.Errorf("movimientos esperados %d, obtenidos %d", n, len(movs))
	}
	for _, m := range movs {
		if m.BatchID != movs[0].BatchID {
			return errors.New("los movimientos no comparten lote")
		}
	}
	return nil
}

func (c *ledgerFeature) laOperacionFalla(msg string) error {
	if c.err == nil {
		return errors.New("se esperaba un error")
	}
	if !strings.Contains(c.err.Error(), msg) {
		return fmt.Errorf("el error %q no contiene %q", c.err, msg)
	}
	return nil
}

func (c *ledgerFeature) elKardexCuadra() error {
	_, err := c.engine.Reconcile(c.ctx)
	return err
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	c := &ledgerFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	ctx.Step(`^el artículo "([^"]*)"$`, c.elArticulo)
	ctx.Step(`^las bodegas "([^"]*)" y "([^"]*)"$`, c.lasBodegas)
	ctx.Step(`^un saldo de (\d+) unidades de "([^"]*)" en "([^"]*)"$`, c.unSaldo)
	ctx.Step(`^una orden de compra en "([^"]*)" con (\d+) unidades de "([^"]*)"$`, c.unaOrden(entity.OrderKindPurchase))
	ctx.Step(`^una orden de venta en "([^"]*)" con (\d+) unidades de "([^"]*)"$`, c.unaOrden(entity.OrderKindSale))
	ctx.Step(`^un traslado de "([^"]*)" a "([^"]*)" con (\d+) unidades de "([^"]*)"$`, c.unTraslado)

	ctx.Step(`^recibo (\d+) unidades de la línea$`, c.recibo)
	ctx.Step(`^despacho (\d+) unidades de la línea$`, c.despacho)
	ctx.Step(`^edito la orden con (\d+) unidades de "([^"]*)"$`, c.editoLaOrden)
	ctx.Step(`^envío (\d+) unidades de la fila$`, c.envio)

	ctx.Step(`^la línea queda en estado "([^"]*)"$`, c.laLineaQuedaEnEstado)
	ctx.Step(`^el saldo de "([^"]*)" en "([^"]*)" es (-?\d+)$`, c.elSaldoEs)
	ctx.Step(`^la orden tiene (\d+) movimientos$`, c.laOrdenTieneMovimientos)
	ctx.Step(`^el traslado tiene (\d+) movimientos en un mismo lote$`, c.elTrasladoTieneMovimientosEnUnLote)
	ctx.Step(`^la operación falla por "([^"]*)"$`, c.laOperacionFalla)
	ctx.Step(`^el kardex cuadra con los saldos$`, c.elKardexCuadra)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/ledger.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
