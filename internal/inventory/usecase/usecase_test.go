package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/events"
	"github.com/fekuna/orderflow-service/internal/inventory/dto"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

const companyID = "c-1"

type fakeRepo struct {
	mu        sync.Mutex
	items     map[string]*model.Inventory
	movements []model.StockMovement
}

func newFakeRepo() *fakeRepo { return &fakeRepo{items: map[string]*model.Inventory{}} }

func (f *fakeRepo) Create(_ context.Context, inv *model.Inventory) error {
	cp := *inv
	f.items[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, company, id string) (*model.Inventory, error) {
	inv, ok := f.items[id]
	if !ok || inv.CompanyID != company {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeRepo) FindAll(_ context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error) {
	var out []model.Inventory
	for _, inv := range f.items {
		if inv.CompanyID != filters.CompanyID || (filters.LowStock && !inv.LowStock()) {
			continue
		}
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (f *fakeRepo) FindActiveByProducts(_ context.Context, company string, productIDs []string) ([]model.Inventory, error) {
	var out []model.Inventory
	for _, inv := range f.items {
		if inv.CompanyID != company || !inv.IsActive || inv.ProductID == nil {
			continue
		}
		for _, id := range productIDs {
			if *inv.ProductID == id {
				out = append(out, *inv)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, inv *model.Inventory) error {
	cp := *inv
	f.items[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) ApplyMovement(_ context.Context, m *model.StockMovement) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.items[m.InventoryID]
	if !ok || inv.CompanyID != m.CompanyID {
		return false, nil
	}
	next, err := model.NextStock(m.Type, inv.CurrentStock, m.Quantity)
	if err != nil {
		return true, err
	}
	m.QuantityBefore, m.QuantityAfter = inv.CurrentStock, next
	inv.CurrentStock = next
	f.movements = append(f.movements, *m)
	return true, nil
}

func (f *fakeRepo) HasOrderMovement(_ context.Context, company, inventoryID, orderID string, typ model.MovementType) (bool, error) {
	for _, m := range f.movements {
		if m.CompanyID == company && m.InventoryID == inventoryID && m.Type == typ && m.OrderID != nil && *m.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) FindMovementByID(_ context.Context, company, id string) (*model.StockMovement, error) {
	for _, m := range f.movements {
		if m.ID == id && m.CompanyID == company {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListMovements(_ context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var out []model.StockMovement
	for _, m := range f.movements {
		if m.InventoryID == filters.InventoryID && m.CompanyID == filters.CompanyID {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

type fakeLocker struct {
	held    map[string]string
	busy    bool
	acquire int
}

func (l *fakeLocker) AcquireLock(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	l.acquire++
	if l.busy {
		return false, nil
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocker) ReleaseLock(_ context.Context, key, value string) error {
	if l.held[key] == value {
		delete(l.held, key)
	}
	return nil
}

type recordingPublisher struct{ events []events.Envelope }

func (p *recordingPublisher) Publish(_ context.Context, e events.Envelope) error {
	p.events = append(p.events, e)
	return nil
}

func ctx() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "u-1", CompanyID: companyID})
}

func qty(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func seed(t *testing.T, repo *fakeRepo, stock string) *model.Inventory {
	t.Helper()
	uc := NewInventoryUseCase(repo, nil, nil, logger.NewNop())
	inv, err := uc.CreateInventory(ctx(), &dto.CreateInventoryInput{
		Name:         "Farine T55",
		Type:         model.InventoryKindRawMaterial,
		CurrentStock: decimal.RequireFromString(stock),
	})
	require.NoError(t, err)
	return inv
}

func TestCreateInventoryDefaults(t *testing.T) {
	inv := seed(t, newFakeRepo(), "0")
	assert.Equal(t, "pièce", inv.Unit)
	assert.True(t, inv.IsActive)
	assert.False(t, inv.MaxStockLevel.Valid)
	assert.Equal(t, companyID, inv.CompanyID)
}

func TestCreateInventoryValidation(t *testing.T) {
	uc := NewInventoryUseCase(newFakeRepo(), nil, nil, logger.NewNop())
	_, err := uc.CreateInventory(ctx(), &dto.CreateInventoryInput{Type: "gadget", CurrentStock: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: Required")
	assert.Contains(t, err.Error(), "type: Invalid enum value. Expected finished_product | raw_material")
	assert.Contains(t, err.Error(), "current_stock: Must be greater than or equal to 0")
}

func TestRecordMovementArithmetic(t *testing.T) {
	repo := newFakeRepo()
	inv := seed(t, repo, "10")
	pub := &recordingPublisher{}
	uc := NewInventoryUseCase(repo, &fakeLocker{held: map[string]string{}}, pub, logger.NewNop())

	m, err := uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: "in", Quantity: qty(5)})
	require.NoError(t, err)
	assert.Equal(t, "10", m.QuantityBefore.String())
	assert.Equal(t, "15", m.QuantityAfter.String())

	_, err = uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: "out", Quantity: qty(4)})
	require.NoError(t, err)
	assert.Equal(t, "11", repo.items[inv.ID].CurrentStock.String())

	m, err = uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: "adjustment", Quantity: qty(3)})
	require.NoError(t, err)
	assert.Equal(t, "3", repo.items[inv.ID].CurrentStock.String(), "adjustment replaces the counter")
	assert.Equal(t, "11", m.QuantityBefore.String())

	require.Len(t, pub.events, 3)
	var payload events.StockMovementPayload
	require.NoError(t, json.Unmarshal(pub.events[2].Payload, &payload))
	assert.Equal(t, "adjustment", payload.Type)
	assert.Equal(t, inv.ID, payload.InventoryID)
}

func TestRecordMovementInsufficientStock(t *testing.T) {
	repo := newFakeRepo()
	inv := seed(t, repo, "10")
	pub := &recordingPublisher{}
	uc := NewInventoryUseCase(repo, nil, pub, logger.NewNop())

	_, err := uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: "out", Quantity: qty(25)})
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, 400, apperror.As(err).Kind.HTTPStatus())

	got, err := uc.GetInventory(ctx(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", got.CurrentStock.String())
	assert.Empty(t, repo.movements)
	assert.Empty(t, pub.events)
}

func TestRecordMovementUnknownInventory(t *testing.T) {
	uc := NewInventoryUseCase(newFakeRepo(), nil, nil, logger.NewNop())
	_, err := uc.RecordMovement(ctx(), "missing", &dto.MovementInput{Type: "in", Quantity: qty(1)})
	assert.Equal(t, apperror.KindNotFound, apperror.As(err).Kind)

	_, err = uc.RecordMovement(ctx(), "missing", &dto.MovementInput{Type: "transfer"})
	assert.Equal(t, apperror.KindValidation, apperror.As(err).Kind)
}

func TestRecordMovementRequiresQuantity(t *testing.T) {
	repo := newFakeRepo()
	inv := seed(t, repo, "10")
	pub := &recordingPublisher{}
	uc := NewInventoryUseCase(repo, nil, pub, logger.NewNop())

	for _, typ := range []string{"adjustment", "in", "out"} {
		_, err := uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: typ})
		require.Error(t, err, typ)
		assert.Equal(t, 400, apperror.As(err).Kind.HTTPStatus(), typ)
		assert.Contains(t, err.Error(), "quantity: Required", typ)
	}

	m, err := uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: "adjustment", Quantity: qty(0)})
	require.NoError(t, err, "an explicit zero is a valid adjustment")
	assert.Equal(t, "0", m.QuantityAfter.String())

	require.Len(t, repo.movements, 1)
	assert.Len(t, pub.events, 1)
}

func TestRecordMovementLockBusy(t *testing.T) {
	repo := newFakeRepo()
	inv := seed(t, repo, "10")
	locker := &fakeLocker{held: map[string]string{}, busy: true}
	uc := NewInventoryUseCase(repo, locker, nil, logger.NewNop())

	_, err := uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: "in", Quantity: qty(1)})
	require.ErrorIs(t, err, apperror.ErrSystemBusy)
	assert.Equal(t, lockAttempts, locker.acquire)
	assert.Empty(t, repo.movements)
}

func TestRecordMovementReleasesLock(t *testing.T) {
	repo := newFakeRepo()
	inv := seed(t, repo, "1")
	locker := &fakeLocker{held: map[string]string{}}
	uc := NewInventoryUseCase(repo, locker, nil, logger.NewNop())

	_, err := uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: "out", Quantity: qty(5)})
	require.Error(t, err)
	assert.Empty(t, locker.held)
}

func TestUpdateInventoryKeepsStock(t *testing.T) {
	repo := newFakeRepo()
	inv := seed(t, repo, "7")
	uc := NewInventoryUseCase(repo, nil, nil, logger.NewNop())

	level := decimal.NewFromInt(20)
	got, err := uc.UpdateInventory(ctx(), inv.ID, &dto.UpdateInventoryInput{MinStockLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "7", got.CurrentStock.String())
	assert.True(t, got.LowStock())
}

func TestUpdateInventoryMaxStockLevel(t *testing.T) {
	repo := newFakeRepo()
	inv := seed(t, repo, "7")
	uc := NewInventoryUseCase(repo, nil, nil, logger.NewNop())

	update := func(body string) *model.Inventory {
		t.Helper()
		var in dto.UpdateInventoryInput
		require.NoError(t, json.Unmarshal([]byte(body), &in))
		got, err := uc.UpdateInventory(ctx(), inv.ID, &in)
		require.NoError(t, err)
		return got
	}

	got := update(`{"max_stock_level": 50}`)
	require.True(t, got.MaxStockLevel.Valid)
	assert.Equal(t, "50", got.MaxStockLevel.Decimal.String())

	got = update(`{"name": "Farine T65"}`)
	assert.True(t, got.MaxStockLevel.Valid, "absent field keeps the ceiling")

	got = update(`{"max_stock_level": null}`)
	assert.False(t, got.MaxStockLevel.Valid, "explicit null clears the ceiling")

	var in dto.UpdateInventoryInput
	require.NoError(t, json.Unmarshal([]byte(`{"max_stock_level": -1}`), &in))
	_, err := uc.UpdateInventory(ctx(), inv.ID, &in)
	assert.Contains(t, err.Error(), "max_stock_level: Must be greater than or equal to 0")
}

func TestListMovementsScopedToInventory(t *testing.T) {
	repo := newFakeRepo()
	inv := seed(t, repo, "0")
	uc := NewInventoryUseCase(repo, nil, nil, logger.NewNop())

	_, err := uc.RecordMovement(ctx(), inv.ID, &dto.MovementInput{Type: "in", Quantity: qty(2)})
	require.NoError(t, err)

	movements, total, err := uc.ListMovements(ctx(), &dto.MovementFilters{InventoryID: inv.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, movements, 1)

	other := auth.WithUser(context.Background(), auth.UserContext{CompanyID: "c-2"})
	_, _, err = uc.ListMovements(other, &dto.MovementFilters{InventoryID: inv.ID, Page: 1, Limit: 10})
	assert.Equal(t, apperror.KindNotFound, apperror.As(err).Kind)
}

func TestDeductForOrder(t *testing.T) {
	repo := newFakeRepo()
	uc := NewInventoryUseCase(repo, nil, nil, logger.NewNop())

	productID := "p-1"
	inv, err := uc.CreateInventory(ctx(), &dto.CreateInventoryInput{
		ProductID:    nil,
		Name:         "Croissant",
		Type:         model.InventoryKindFinishedProduct,
		CurrentStock: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	repo.items[inv.ID].ProductID = &productID

	err = uc.DeductForOrder(context.Background(), companyID, events.OrderPayload{
		ID:          "o-1",
		OrderNumber: "ORD-1-abcde",
		Status:      "confirmed",
		Items: []events.OrderItemPayload{
			{ProductID: productID, Quantity: 3},
			{ProductID: productID, Quantity: 1},
			{ProductID: "p-unknown", Quantity: 9},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "6", repo.items[inv.ID].CurrentStock.String())
	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, model.MovementOut, m.Type)
	require.NotNil(t, m.Reason)
	assert.Equal(t, "Order confirmed: ORD-1-abcde", *m.Reason)
	require.NotNil(t, m.OrderID)
	assert.Equal(t, "o-1", *m.OrderID)
}

func TestDeductForOrderRedeliveredOnce(t *testing.T) {
	repo := newFakeRepo()
	locker := &fakeLocker{held: map[string]string{}}
	uc := NewInventoryUseCase(repo, locker, nil, logger.NewNop())
	productID := "p-1"
	inv := seed(t, repo, "10")
	repo.items[inv.ID].ProductID = &productID

	confirmed := events.OrderPayload{
		ID: "o-1", OrderNumber: "ORD-3", Status: "confirmed",
		Items: []events.OrderItemPayload{{ProductID: productID, Quantity: 4}},
	}
	require.NoError(t, uc.DeductForOrder(context.Background(), companyID, confirmed))
	require.NoError(t, uc.DeductForOrder(context.Background(), companyID, confirmed))

	assert.Equal(t, "6", repo.items[inv.ID].CurrentStock.String())
	assert.Len(t, repo.movements, 1)
	assert.Empty(t, locker.held)

	other := confirmed
	other.ID = "o-2"
	require.NoError(t, uc.DeductForOrder(context.Background(), companyID, other))
	assert.Equal(t, "2", repo.items[inv.ID].CurrentStock.String())
}

func TestDeductForOrderInsufficientStock(t *testing.T) {
	repo := newFakeRepo()
	uc := NewInventoryUseCase(repo, nil, nil, logger.NewNop())
	productID := "p-1"
	inv := seed(t, repo, "1")
	repo.items[inv.ID].ProductID = &productID

	err := uc.DeductForOrder(context.Background(), companyID, events.OrderPayload{
		ID: "o-1", OrderNumber: "ORD-2", Items: []events.OrderItemPayload{{ProductID: productID, Quantity: 2}},
	})
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, "1", repo.items[inv.ID].CurrentStock.String())
}
