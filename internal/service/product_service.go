package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService is the stock adjustment engine plus the product CRUD
// surface. Every stock-affecting write appends exactly one ProductLog row
// inside the same transaction as the product mutation.
type ProductService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ProductResponse, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*dto.PublicProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	Restore(ctx context.Context, actor Actor, id uuid.UUID) error

	AdjustStock(ctx context.Context, actor Actor, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	VoidLog(ctx context.Context, actor Actor, logID uuid.UUID) (string, error)
	ListLogs(ctx context.Context, productID uuid.UUID, filter dto.ProductLogFilter) (*dto.ProductLogListResponse, error)
}

type productService struct {
	repo    repository.ProductRepository
	logRepo repository.ProductLogRepository
	rdb     *redis.Client
}

func NewProductService(repo repository.ProductRepository, logRepo repository.ProductLogRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, logRepo: logRepo, rdb: rdb}
}

const publicCacheTTL = 60 * time.Second

// ── Create ───────────────────────────────────────────────────────────────────

func (s *productService) Create(ctx context.Context, actor Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Name:         req.Name,
		Brand:        req.Brand,
		Manufacturer: req.Manufacturer,
		Category:     req.Category,
		Price:        req.Price,
		CostPrice:    req.CostPrice,
		Stock:        req.Stock,
		ImageURL:     req.ImageURL,
		Active:       true,
	}

	actorID := actor.ID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, p); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ProductLog{
			ProductID:      p.ID,
			UserID:         &actorID,
			Action:         model.ActionCreated,
			QuantityChange: p.Stock,
			Description:    fmt.Sprintf("product %q created with initial stock %d", p.Name, p.Stock),
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return productToResponse(p), nil
}

// ── Read paths ───────────────────────────────────────────────────────────────

// GetByID serves the private projection, cost price included. The route is
// restricted to ADMIN or OWNER; the check here is the engine-side backstop.
func (s *productService) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ProductResponse, error) {
	if !roleIn(actor.Role, model.RoleAdmin, model.RoleOwner) {
		return nil, ErrForbidden
	}
	p, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return productToResponse(p), nil
}

// GetPublic serves the unauthenticated projection. Cached briefly in redis;
// cache misses and redis failures fall through to the database.
func (s *productService) GetPublic(ctx context.Context, id uuid.UUID) (*dto.PublicProductResponse, error) {
	cacheKey := "product:public:" + id.String()
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached dto.PublicProductResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	p, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	resp := &dto.PublicProductResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Price:    p.Price,
		InStock:  p.Stock > 0,
		ImageURL: p.ImageURL,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, cacheKey, data, publicCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProductListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ── Update / soft delete / restore ───────────────────────────────────────────

func (s *productService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Manufacturer != nil {
		p.Manufacturer = *req.Manufacturer
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if p.CostPrice.GreaterThan(p.Price) {
		return nil, fmt.Errorf("%w: cost price cannot exceed price", ErrInvalidRequest)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx, id)
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	p, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	actorID := actor.ID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SetActiveTx(tx, id, false); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ProductLog{
			ProductID:   p.ID,
			UserID:      &actorID,
			Action:      model.ActionDeleted,
			Description: fmt.Sprintf("product %q deleted", p.Name),
		})
	})
	if txErr != nil {
		return txErr
	}
	s.invalidatePublicCache(ctx, id)
	return nil
}

func (s *productService) Restore(ctx context.Context, actor Actor, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if p.Active {
		return fmt.Errorf("%w: product is not deleted", ErrInvalidRequest)
	}
	actorID := actor.ID
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SetActiveTx(tx, id, true); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ProductLog{
			ProductID:   p.ID,
			UserID:      &actorID,
			Action:      model.ActionRestored,
			Description: fmt.Sprintf("product %q restored", p.Name),
		})
	})
}

// ── AdjustStock ──────────────────────────────────────────────────────────────
// The read-modify-write runs inside one transaction with the product row
// locked FOR UPDATE: the delta is computed against the stock a concurrent
// adjustment cannot change under us, and product update and log append commit
// or fail together.

func (s *productService) AdjustStock(ctx context.Context, actor Actor, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if !roleIn(actor.Role, model.RoleAdmin, model.RoleOwner) {
		return nil, ErrForbidden
	}
	if req.Stock == nil || *req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be a non-negative integer", ErrInvalidRequest)
	}
	action := req.StockAction
	if !model.IncreaseActions[action] && !model.DecreaseActions[action] {
		return nil, fmt.Errorf("%w: unknown stock action %q", ErrInvalidRequest, action)
	}

	newStock := *req.Stock
	var p *model.Product

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		p, err = s.repo.FindActiveByIDTx(tx, id)
		if err != nil {
			return ErrNotFound
		}

		delta := newStock - p.Stock
		if delta == 0 {
			return fmt.Errorf("%w: new stock value is exactly the same as current stock", ErrInvalidRequest)
		}
		if delta > 0 && !model.IncreaseActions[action] {
			return fmt.Errorf("%w: action %s is not allowed when stock increases", ErrInvalidRequest, action)
		}
		if delta < 0 && !model.DecreaseActions[action] {
			return fmt.Errorf("%w: action %s is not allowed when stock decreases", ErrInvalidRequest, action)
		}

		entry := &model.ProductLog{
			ProductID:      p.ID,
			Action:         action,
			QuantityChange: delta,
			Description:    fmt.Sprintf("%s: stock %d -> %d", action, p.Stock, newStock),
		}
		actorID := actor.ID
		entry.UserID = &actorID

		if action == model.ActionSaleOffline {
			qty := decimal.NewFromInt(int64(-delta)) // delta is negative for sales
			revenue := p.Price.Mul(qty)
			profit := p.Price.Sub(p.CostPrice).Mul(qty)
			entry.TotalRevenue = &revenue
			entry.TotalProfit = &profit
		}

		if err := s.repo.UpdateStockTx(tx, p.ID, newStock); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, entry)
	})
	if txErr != nil {
		return nil, txErr
	}

	p.Stock = newStock
	s.invalidatePublicCache(ctx, id)
	return productToResponse(p), nil
}

// ── VoidLog ──────────────────────────────────────────────────────────────────
// Voiding is a compensating transaction: the original row is flagged, never
// deleted, and a VOID_LOG row records the inverse quantity. OWNER only —
// stricter than the adjustment itself.

func (s *productService) VoidLog(ctx context.Context, actor Actor, logID uuid.UUID) (string, error) {
	if actor.Role != model.RoleOwner {
		return "", ErrForbidden
	}

	var (
		msg       string
		productID uuid.UUID
	)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock the log row first: a concurrent void of the same log waits
		// here and then fails the IsVoided check.
		entry, err := s.logRepo.FindByIDTx(tx, logID)
		if err != nil {
			return ErrNotFound
		}
		if entry.IsVoided {
			return fmt.Errorf("%w: Log is already voided", ErrInvalidRequest)
		}
		if !model.VoidableActions[entry.Action] {
			return fmt.Errorf("%w: This type of action cannot be voided", ErrInvalidRequest)
		}

		p, err := s.repo.FindByIDTx(tx, entry.ProductID)
		if err != nil {
			return ErrNotFound
		}

		reversed := -entry.QuantityChange
		prevStock := p.Stock
		newStock := prevStock + reversed
		if newStock < 0 {
			return fmt.Errorf("%w: reversing this log will cause negative stock", ErrInvalidRequest)
		}

		actorID := actor.ID
		if err := s.logRepo.MarkVoidedTx(tx, entry.ID); err != nil {
			return err
		}
		if err := s.repo.UpdateStockTx(tx, p.ID, newStock); err != nil {
			return err
		}
		if err := s.logRepo.CreateTx(tx, &model.ProductLog{
			ProductID:      p.ID,
			UserID:         &actorID,
			Action:         model.ActionVoidLog,
			QuantityChange: reversed,
			Description:    fmt.Sprintf("voided %s log %s: stock %d -> %d", entry.Action, entry.ID, prevStock, newStock),
		}); err != nil {
			return err
		}

		msg = fmt.Sprintf("log %s voided", entry.ID)
		productID = p.ID
		return nil
	})
	if txErr != nil {
		return "", txErr
	}

	s.invalidatePublicCache(ctx, productID)
	return msg, nil
}

// ── ListLogs ─────────────────────────────────────────────────────────────────

func (s *productService) ListLogs(ctx context.Context, productID uuid.UUID, filter dto.ProductLogFilter) (*dto.ProductLogListResponse, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, ErrNotFound
	}
	logs, total, err := s.logRepo.ListByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, *productLogToResponse(&logs[i]))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	return &dto.ProductLogListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *productService) invalidatePublicCache(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	// Best effort — a stale public projection expires on its own anyway.
	_ = s.rdb.Del(ctx, "product:public:"+id.String()).Err()
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Brand:        p.Brand,
		Manufacturer: p.Manufacturer,
		Category:     p.Category,
		Price:        p.Price,
		CostPrice:    p.CostPrice,
		Stock:        p.Stock,
		ImageURL:     p.ImageURL,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func productLogToResponse(l *model.ProductLog) *dto.ProductLogResponse {
	var userID *string
	if l.UserID != nil {
		v := l.UserID.String()
		userID = &v
	}
	return &dto.ProductLogResponse{
		ID:             l.ID.String(),
		ProductID:      l.ProductID.String(),
		UserID:         userID,
		Action:         l.Action,
		QuantityChange: l.QuantityChange,
		TotalRevenue:   l.TotalRevenue,
		TotalProfit:    l.TotalProfit,
		Description:    l.Description,
		IsVoided:       l.IsVoided,
		CreatedAt:      l.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
