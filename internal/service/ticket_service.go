package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"
	"github.com/Rhzslya/sinari-server-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TicketService is the repair ticket engine. Totals are always derived from
// the owned line items and the percentage discount; every mutating update
// appends exactly one ServiceLog row.
type TicketService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error)
	List(ctx context.Context, filter dto.ServiceFilter) (*dto.ServiceListResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	ListLogs(ctx context.Context, serviceID uuid.UUID) ([]dto.ServiceLogResponse, error)
}

type ticketService struct {
	repo       repository.ServiceRepository
	logRepo    repository.ServiceLogRepository
	techRepo   repository.TechnicianRepository
	dispatcher *worker.Dispatcher
}

func NewTicketService(
	repo repository.ServiceRepository,
	logRepo repository.ServiceLogRepository,
	techRepo repository.TechnicianRepository,
	dispatcher *worker.Dispatcher,
) TicketService {
	return &ticketService{repo: repo, logRepo: logRepo, techRepo: techRepo, dispatcher: dispatcher}
}

// ── Create ───────────────────────────────────────────────────────────────────
// total = Σ item.price − Σ item.price · discount/100, status starts PENDING.
// Ticket, items, and the initial log row are one transaction.

func (s *ticketService) Create(ctx context.Context, actor Actor, req dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if len(req.ServiceList) == 0 {
		return nil, fmt.Errorf("%w: must have at least 1 service", ErrInvalidRequest)
	}
	for _, item := range req.ServiceList {
		if !item.Price.IsPositive() {
			return nil, fmt.Errorf("%w: service item price must be positive", ErrInvalidRequest)
		}
	}
	discount := 0
	if req.Discount != nil {
		discount = *req.Discount
	}
	if discount < 0 || discount > 100 {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidRequest)
	}

	var technicianID *uuid.UUID
	if req.TechnicianID != nil {
		tid, err := uuid.Parse(*req.TechnicianID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid technician_id", ErrInvalidRequest)
		}
		if _, err := s.techRepo.FindByID(ctx, tid); err != nil {
			return nil, fmt.Errorf("%w: technician not found", ErrNotFound)
		}
		technicianID = &tid
	}

	items := make([]model.ServiceItem, 0, len(req.ServiceList))
	for _, item := range req.ServiceList {
		items = append(items, model.ServiceItem{Name: item.Name, Price: item.Price})
	}

	ticket := &model.Service{
		Brand:         req.Brand,
		Model:         req.Model,
		CustomerName:  req.CustomerName,
		PhoneNumber:   req.PhoneNumber,
		CustomerEmail: req.CustomerEmail,
		Description:   req.Description,
		Status:        model.StatusPending,
		Discount:      discount,
		TotalPrice:    ticketTotal(items, discount),
		TechnicianID:  technicianID,
		Active:        true,
		Items:         items,
	}

	actorID := actor.ID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		code, err := s.repo.NextCode(ctx, tx)
		if err != nil {
			return err
		}
		ticket.Code = code
		if err := s.repo.Create(ctx, tx, ticket); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ServiceLog{
			ServiceID:   ticket.ID,
			UserID:      &actorID,
			Action:      model.ServiceActionReceived,
			Description: fmt.Sprintf("ticket %s received: %s %s for %s", ticket.Code, ticket.Brand, ticket.Model, ticket.CustomerName),
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return ticketToResponse(ticket), nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *ticketService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error) {
	ticket, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return ticketToResponse(ticket), nil
}

func (s *ticketService) List(ctx context.Context, filter dto.ServiceFilter) (*dto.ServiceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	tickets, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ServiceResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, *ticketToResponse(&tickets[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ServiceListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ── Update ───────────────────────────────────────────────────────────────────
// Applies the partial update, recomputes the total when items or discount
// change, and appends exactly one log row describing everything that changed.

func (s *ticketService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	ticket, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	var changes []string
	statusChanged := false

	if req.Brand != nil && *req.Brand != ticket.Brand {
		changes = append(changes, fmt.Sprintf("brand: %s -> %s", ticket.Brand, *req.Brand))
		ticket.Brand = *req.Brand
	}
	if req.Model != nil && *req.Model != ticket.Model {
		changes = append(changes, fmt.Sprintf("model: %s -> %s", ticket.Model, *req.Model))
		ticket.Model = *req.Model
	}
	if req.Status != nil && *req.Status != ticket.Status {
		if !model.ServiceStatuses[*req.Status] {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, *req.Status)
		}
		changes = append(changes, fmt.Sprintf("status: %s -> %s", ticket.Status, *req.Status))
		ticket.Status = *req.Status
		statusChanged = true
	}
	if req.TechnicianNote != nil {
		changes = append(changes, "technician note updated")
		ticket.TechnicianNote = req.TechnicianNote
	}
	if req.TechnicianID != nil {
		tid, err := uuid.Parse(*req.TechnicianID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid technician_id", ErrInvalidRequest)
		}
		if _, err := s.techRepo.FindByID(ctx, tid); err != nil {
			return nil, fmt.Errorf("%w: technician not found", ErrNotFound)
		}
		changes = append(changes, "technician assigned")
		ticket.TechnicianID = &tid
	}

	var newItems []model.ServiceItem
	if len(req.ServiceList) > 0 {
		for _, item := range req.ServiceList {
			if !item.Price.IsPositive() {
				return nil, fmt.Errorf("%w: service item price must be positive", ErrInvalidRequest)
			}
			newItems = append(newItems, model.ServiceItem{Name: item.Name, Price: item.Price})
		}
		changes = append(changes, fmt.Sprintf("service list replaced (%d items)", len(newItems)))
	}
	if req.Discount != nil && *req.Discount != ticket.Discount {
		changes = append(changes, fmt.Sprintf("discount: %d%% -> %d%%", ticket.Discount, *req.Discount))
		ticket.Discount = *req.Discount
	}

	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidRequest)
	}

	effectiveItems := ticket.Items
	if newItems != nil {
		effectiveItems = newItems
	}
	ticket.TotalPrice = ticketTotal(effectiveItems, ticket.Discount)

	logAction := model.ServiceActionUpdated
	if statusChanged {
		logAction = model.ServiceActionStatusChanged
	}

	actorID := actor.ID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, ticket); err != nil {
			return err
		}
		if newItems != nil {
			if err := s.repo.ReplaceItemsTx(tx, ticket.ID, newItems); err != nil {
				return err
			}
			ticket.Items = newItems
		}
		return s.logRepo.CreateTx(tx, &model.ServiceLog{
			ServiceID:   ticket.ID,
			UserID:      &actorID,
			Action:      logAction,
			Description: strings.Join(changes, "; "),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async pickup notification once the repair is done (best-effort).
	if statusChanged && ticket.Status == model.StatusFinished && s.dispatcher != nil {
		if ticket.CustomerEmail != nil && *ticket.CustomerEmail != "" {
			_ = s.dispatcher.EnqueueNotification(ctx, worker.NotificationJobPayload{
				ServiceID:     ticket.ID.String(),
				CustomerEmail: *ticket.CustomerEmail,
			})
		}
	}

	return ticketToResponse(ticket), nil
}

// ── Delete ───────────────────────────────────────────────────────────────────

func (s *ticketService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	ticket, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	actorID := actor.ID
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SetActiveTx(tx, id, false); err != nil {
			return err
		}
		return s.logRepo.CreateTx(tx, &model.ServiceLog{
			ServiceID:   ticket.ID,
			UserID:      &actorID,
			Action:      model.ServiceActionDeleted,
			Description: fmt.Sprintf("ticket %s deleted", ticket.Code),
		})
	})
}

// ── ListLogs ─────────────────────────────────────────────────────────────────

func (s *ticketService) ListLogs(ctx context.Context, serviceID uuid.UUID) ([]dto.ServiceLogResponse, error) {
	if _, err := s.repo.FindByID(ctx, serviceID); err != nil {
		return nil, ErrNotFound
	}
	logs, err := s.logRepo.ListByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ServiceLogResponse, 0, len(logs))
	for _, l := range logs {
		var userID *string
		if l.UserID != nil {
			v := l.UserID.String()
			userID = &v
		}
		resp = append(resp, dto.ServiceLogResponse{
			ID:          l.ID.String(),
			ServiceID:   l.ServiceID.String(),
			UserID:      userID,
			Action:      l.Action,
			Description: l.Description,
			CreatedAt:   l.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return resp, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// ticketTotal computes subTotal − subTotal·discount/100.
func ticketTotal(items []model.ServiceItem, discount int) decimal.Decimal {
	subTotal := decimal.Zero
	for _, item := range items {
		subTotal = subTotal.Add(item.Price)
	}
	discountAmount := subTotal.Mul(decimal.NewFromInt(int64(discount))).Div(decimal.NewFromInt(100))
	return subTotal.Sub(discountAmount)
}

func ticketToResponse(t *model.Service) *dto.ServiceResponse {
	items := make([]dto.ServiceItemResponse, 0, len(t.Items))
	subTotal := decimal.Zero
	for _, item := range t.Items {
		subTotal = subTotal.Add(item.Price)
		items = append(items, dto.ServiceItemResponse{
			ID:    item.ID.String(),
			Name:  item.Name,
			Price: item.Price,
		})
	}
	var technicianID *string
	if t.TechnicianID != nil {
		v := t.TechnicianID.String()
		technicianID = &v
	}
	return &dto.ServiceResponse{
		ID:             t.ID.String(),
		Code:           t.Code,
		Brand:          t.Brand,
		Model:          t.Model,
		CustomerName:   t.CustomerName,
		PhoneNumber:    t.PhoneNumber,
		CustomerEmail:  t.CustomerEmail,
		Description:    t.Description,
		TechnicianNote: t.TechnicianNote,
		Status:         t.Status,
		Discount:       t.Discount,
		SubTotal:       subTotal,
		TotalPrice:     t.TotalPrice,
		TotalItems:     len(t.Items),
		TechnicianID:   technicianID,
		Items:          items,
		CreatedAt:      t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:      t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
