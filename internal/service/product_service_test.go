package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"
	"github.com/Rhzslya/sinari-server-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository for testing.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, _ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindActiveByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || !p.Active {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) FindActiveByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindActiveByID(context.Background(), id)
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, newStock int) error {
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.Stock = newStock
	return nil
}

func (r *stubProductRepo) SetActiveTx(_ *gorm.DB, id uuid.UUID, active bool) error {
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.Active = active
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubProductLogRepo captures appended log rows for assertion.
type stubProductLogRepo struct {
	mu   sync.Mutex
	logs []*model.ProductLog
}

func (r *stubProductLogRepo) CreateTx(_ *gorm.DB, l *model.ProductLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.logs = append(r.logs, l)
	return nil
}

func (r *stubProductLogRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.ProductLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductLogRepo) MarkVoidedTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			l.IsVoided = true
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubProductLogRepo) ListByProduct(_ context.Context, productID uuid.UUID, filter dto.ProductLogFilter) ([]model.ProductLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ProductLog, 0)
	for _, l := range r.logs {
		if l.ProductID != productID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

var _ repository.ProductLogRepository = (*stubProductLogRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func buildProductSvc() (service.ProductService, *stubProductRepo, *stubProductLogRepo) {
	repo := newStubProductRepo()
	logRepo := &stubProductLogRepo{}
	return service.NewProductService(repo, logRepo, nil), repo, logRepo
}

func seedProduct(repo *stubProductRepo, name string, price, cost float64, stock int) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		Name:      name,
		Brand:     "Acme",
		Category:  "spare-parts",
		Price:     decimal.NewFromFloat(price),
		CostPrice: decimal.NewFromFloat(cost),
		Stock:     stock,
		Active:    true,
	}
	repo.products[p.ID] = p
	return p
}

func admin() service.Actor { return service.Actor{ID: uuid.New(), Role: model.RoleAdmin} }
func owner() service.Actor { return service.Actor{ID: uuid.New(), Role: model.RoleOwner} }

func intPtr(v int) *int { return &v }

// ── AdjustStock ───────────────────────────────────────────────────────────────

func TestAdjustStock_Restock(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "LCD Panel", 10000, 8000, 10)

	resp, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(20),
		StockAction: model.ActionRestock,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Stock)
	assert.Equal(t, 20, p.Stock)

	require.Len(t, logRepo.logs, 1)
	entry := logRepo.logs[0]
	assert.Equal(t, model.ActionRestock, entry.Action)
	assert.Equal(t, 10, entry.QuantityChange)
	assert.Nil(t, entry.TotalRevenue)
	assert.False(t, entry.IsVoided)
}

func TestAdjustStock_SaleOfflineComputesRevenueAndProfit(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "Battery", 10000, 8000, 10)

	// 10 -> 7: 3 units sold, revenue 30000, profit 3 * (10000-8000) = 6000
	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(7),
		StockAction: model.ActionSaleOffline,
	})
	require.NoError(t, err)

	require.Len(t, logRepo.logs, 1)
	entry := logRepo.logs[0]
	assert.Equal(t, -3, entry.QuantityChange)
	require.NotNil(t, entry.TotalRevenue)
	require.NotNil(t, entry.TotalProfit)
	assert.Equal(t, "30000", entry.TotalRevenue.String())
	assert.Equal(t, "6000", entry.TotalProfit.String())
}

func TestAdjustStock_NonSaleActionsHaveNoFinancials(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "Screen Protector", 5000, 2000, 10)

	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(8),
		StockAction: model.ActionAdjustDamage,
	})
	require.NoError(t, err)
	assert.Nil(t, logRepo.logs[0].TotalRevenue)
	assert.Nil(t, logRepo.logs[0].TotalProfit)
}

func TestAdjustStock_SameValueRejected(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Flex Cable", 3000, 1000, 10)

	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(10),
		StockAction: model.ActionRestock,
	})
	assert.ErrorContains(t, err, "new stock value is exactly the same as current stock")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestAdjustStock_DirectionMismatch(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "Charging Port", 4000, 2500, 10)

	// Decrease-only action on an increase
	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(15),
		StockAction: model.ActionSaleOffline,
	})
	assert.ErrorContains(t, err, "not allowed when stock increases")

	// Increase-only action on a decrease
	_, err = svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(5),
		StockAction: model.ActionRestock,
	})
	assert.ErrorContains(t, err, "not allowed when stock decreases")

	// Nothing was written and stock is untouched
	assert.Empty(t, logRepo.logs)
	assert.Equal(t, 10, p.Stock)
}

func TestAdjustStock_UnknownActionRejected(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Back Cover", 2000, 1000, 10)

	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(5),
		StockAction: "SOMETHING_ELSE",
	})
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestAdjustStock_RoleEnforcement(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Speaker", 2500, 1500, 10)

	customer := service.Actor{ID: uuid.New(), Role: model.RoleCustomer}
	_, err := svc.AdjustStock(context.Background(), customer, p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(15),
		StockAction: model.ActionRestock,
	})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestAdjustStock_UnknownProduct(t *testing.T) {
	svc, _, _ := buildProductSvc()
	_, err := svc.AdjustStock(context.Background(), admin(), uuid.New(), dto.AdjustStockRequest{
		Stock:       intPtr(5),
		StockAction: model.ActionRestock,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

// ── VoidLog ───────────────────────────────────────────────────────────────────

func TestVoidLog_RestockRoundTrip(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "Camera Module", 12000, 9000, 10)

	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(20),
		StockAction: model.ActionRestock,
	})
	require.NoError(t, err)
	original := logRepo.logs[0]

	msg, err := svc.VoidLog(context.Background(), owner(), original.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	// Stock rolled back, original flagged, compensating row appended
	assert.Equal(t, 10, p.Stock)
	assert.True(t, original.IsVoided)
	require.Len(t, logRepo.logs, 2)
	comp := logRepo.logs[1]
	assert.Equal(t, model.ActionVoidLog, comp.Action)
	assert.Equal(t, -10, comp.QuantityChange)
	assert.False(t, comp.IsVoided)
}

func TestVoidLog_SaleRestoresStock(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "Motherboard", 50000, 35000, 10)

	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(7),
		StockAction: model.ActionSaleOffline,
	})
	require.NoError(t, err)

	_, err = svc.VoidLog(context.Background(), owner(), logRepo.logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, 3, logRepo.logs[1].QuantityChange)
}

func TestVoidLog_OwnerOnly(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "SIM Tray", 500, 200, 10)

	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(20),
		StockAction: model.ActionRestock,
	})
	require.NoError(t, err)

	_, err = svc.VoidLog(context.Background(), admin(), logRepo.logs[0].ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.False(t, logRepo.logs[0].IsVoided)
}

func TestVoidLog_AlreadyVoided(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "Antenna", 800, 300, 10)

	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(20),
		StockAction: model.ActionRestock,
	})
	require.NoError(t, err)

	_, err = svc.VoidLog(context.Background(), owner(), logRepo.logs[0].ID)
	require.NoError(t, err)

	_, err = svc.VoidLog(context.Background(), owner(), logRepo.logs[0].ID)
	assert.ErrorContains(t, err, "Log is already voided")
}

func TestVoidLog_NonVoidableAction(t *testing.T) {
	svc, _, logRepo := buildProductSvc()

	// Lifecycle rows are never reversible
	created := &model.ProductLog{ProductID: uuid.New(), Action: model.ActionCreated, QuantityChange: 5}
	require.NoError(t, logRepo.CreateTx(nil, created))

	_, err := svc.VoidLog(context.Background(), owner(), created.ID)
	assert.ErrorContains(t, err, "This type of action cannot be voided")
}

func TestVoidLog_NegativeStockRejected(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "Glass Lens", 900, 400, 0)

	// 0 -> 10 restock, then sell down to 2. Voiding the restock would need
	// 2 - 10 = -8, which must be rejected.
	_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(10),
		StockAction: model.ActionRestock,
	})
	require.NoError(t, err)
	restock := logRepo.logs[0]

	_, err = svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(2),
		StockAction: model.ActionSaleOffline,
	})
	require.NoError(t, err)

	_, err = svc.VoidLog(context.Background(), owner(), restock.ID)
	assert.ErrorContains(t, err, "reversing this log will cause negative stock")
	assert.Equal(t, 2, p.Stock)
	assert.False(t, restock.IsVoided)
}

// ── Concurrent adjustments ────────────────────────────────────────────────────

// gatedProductRepo emulates SELECT ... FOR UPDATE semantics: a transactional
// read takes the row lock and holds it until the stock write, so a second
// transaction's read waits for the first to commit. Committed stock lives in
// a shadow map and reads return copies, mirroring how rows loaded by the ORM
// are detached from later writes.
type gatedProductRepo struct {
	*stubProductRepo
	mu     sync.Mutex
	stocks map[uuid.UUID]int

	reads     int32
	firstRead chan struct{} // closed once the first reader holds the lock
	release   chan struct{} // the first reader waits on this before proceeding
}

func newGatedProductRepo(base *stubProductRepo) *gatedProductRepo {
	stocks := make(map[uuid.UUID]int, len(base.products))
	for id, p := range base.products {
		stocks[id] = p.Stock
	}
	return &gatedProductRepo{
		stubProductRepo: base,
		stocks:          stocks,
		firstRead:       make(chan struct{}),
		release:         make(chan struct{}),
	}
}

func (r *gatedProductRepo) lockRow() {
	r.mu.Lock()
	if atomic.AddInt32(&r.reads, 1) == 1 {
		close(r.firstRead)
		<-r.release
	}
}

func (r *gatedProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.lockRow()
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	cp.Stock = r.stocks[id]
	return &cp, nil
}

func (r *gatedProductRepo) FindActiveByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.lockRow()
	p, ok := r.products[id]
	if !ok || !p.Active {
		return nil, errors.New("not found")
	}
	cp := *p
	cp.Stock = r.stocks[id]
	return &cp, nil
}

func (r *gatedProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, newStock int) error {
	r.stocks[id] = newStock
	r.mu.Unlock()
	return nil
}

// Two sales race on the same product. The second must compute its delta
// against the stock the first one committed, so the log deltas always sum to
// the total stock change.
func TestAdjustStock_ConcurrentSalesKeepLedgerConsistent(t *testing.T) {
	base := newStubProductRepo()
	logRepo := &stubProductLogRepo{}
	p := seedProduct(base, "USB Cable", 2000, 900, 10)

	gated := newGatedProductRepo(base)
	svc := service.NewProductService(gated, logRepo, nil)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
			Stock:       intPtr(7),
			StockAction: model.ActionSaleOffline,
		})
		assert.NoError(t, err)
	}()

	// Wait until the first sale holds the row lock, then start the second,
	// give it time to block on the same row, and let the first commit.
	<-gated.firstRead
	go func() {
		defer wg.Done()
		_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
			Stock:       intPtr(5),
			StockAction: model.ActionSaleOffline,
		})
		assert.NoError(t, err)
	}()
	time.Sleep(50 * time.Millisecond)
	close(gated.release)
	wg.Wait()

	final := gated.stocks[p.ID]
	assert.Equal(t, 5, final)

	sum := 0
	for _, l := range logRepo.logs {
		sum += l.QuantityChange
	}
	// The audit trail must explain the full stock movement: 10 + sum == 5.
	assert.Equal(t, final, 10+sum)
	assert.Equal(t, -5, sum)
}

// A void racing against a sale must see the stock the sale committed; here
// that makes the reversal land below zero and the void is rejected.
func TestVoidLog_ConcurrentSaleBlocksUnsafeReversal(t *testing.T) {
	base := newStubProductRepo()
	logRepo := &stubProductLogRepo{}
	p := seedProduct(base, "Power Bank", 15000, 9000, 0)

	// Sequential setup: restock 0 -> 10.
	setupSvc := service.NewProductService(base, logRepo, nil)
	_, err := setupSvc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
		Stock:       intPtr(10),
		StockAction: model.ActionRestock,
	})
	require.NoError(t, err)
	restock := logRepo.logs[0]

	gated := newGatedProductRepo(base)
	svc := service.NewProductService(gated, logRepo, nil)

	var wg sync.WaitGroup
	wg.Add(2)

	// Sale 10 -> 2 takes the row lock first.
	go func() {
		defer wg.Done()
		_, err := svc.AdjustStock(context.Background(), admin(), p.ID, dto.AdjustStockRequest{
			Stock:       intPtr(2),
			StockAction: model.ActionSaleOffline,
		})
		assert.NoError(t, err)
	}()

	// The void waits on the product row; once the sale commits it sees stock
	// 2, and reversing the +10 restock would go to -8.
	<-gated.firstRead
	var voidErr error
	go func() {
		defer wg.Done()
		_, voidErr = svc.VoidLog(context.Background(), owner(), restock.ID)
	}()
	time.Sleep(50 * time.Millisecond)
	close(gated.release)
	wg.Wait()

	assert.ErrorContains(t, voidErr, "reversing this log will cause negative stock")
	assert.Equal(t, 2, gated.stocks[p.ID])
	assert.False(t, restock.IsVoided)

	for _, l := range logRepo.logs {
		assert.NotEqual(t, model.ActionVoidLog, l.Action)
	}
}

// ── Create / lifecycle logging ───────────────────────────────────────────────

func TestCreateProduct_WritesCreatedLog(t *testing.T) {
	svc, _, logRepo := buildProductSvc()

	resp, err := svc.Create(context.Background(), admin(), dto.CreateProductRequest{
		Name:      "Display Assembly",
		Brand:     "Acme",
		Category:  "spare-parts",
		Price:     decimal.NewFromInt(15000),
		CostPrice: decimal.NewFromInt(11000),
		Stock:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Stock)

	require.Len(t, logRepo.logs, 1)
	assert.Equal(t, model.ActionCreated, logRepo.logs[0].Action)
	assert.Equal(t, 4, logRepo.logs[0].QuantityChange)
}

func TestDeleteAndRestore_AppendLifecycleLogs(t *testing.T) {
	svc, repo, logRepo := buildProductSvc()
	p := seedProduct(repo, "Frame", 1200, 700, 3)

	require.NoError(t, svc.Delete(context.Background(), admin(), p.ID))
	assert.False(t, p.Active)

	require.NoError(t, svc.Restore(context.Background(), admin(), p.ID))
	assert.True(t, p.Active)

	require.Len(t, logRepo.logs, 2)
	assert.Equal(t, model.ActionDeleted, logRepo.logs[0].Action)
	assert.Equal(t, model.ActionRestored, logRepo.logs[1].Action)
}

func TestUpdate_CostAbovePriceRejected(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Vibration Motor", 1000, 600, 5)

	cost := decimal.NewFromInt(2000)
	_, err := svc.Update(context.Background(), admin(), p.ID, dto.UpdateProductRequest{CostPrice: &cost})
	assert.ErrorContains(t, err, "cost price cannot exceed price")
}

// ── Public projection ────────────────────────────────────────────────────────

func TestGetPublic_HidesStockCount(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Tempered Glass", 1500, 500, 3)

	resp, err := svc.GetPublic(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, resp.InStock)
	assert.Equal(t, p.Price.String(), resp.Price.String())

	// Out of stock flips the flag
	p.Stock = 0
	resp, err = svc.GetPublic(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, resp.InStock)
}

func TestGetByID_RequiresStaffRole(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Earpiece", 700, 300, 2)

	customer := service.Actor{ID: uuid.New(), Role: model.RoleCustomer}
	_, err := svc.GetByID(context.Background(), customer, p.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	resp, err := svc.GetByID(context.Background(), owner(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.CostPrice.String(), resp.CostPrice.String())
}
