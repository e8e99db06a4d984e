package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"steezestore/domain"
	"steezestore/pkg/logger"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// OrdersRepository contract interface
type OrdersRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
}

// IdentityService resolves interactions to customer records.
type IdentityService interface {
	Resolve(ctx context.Context, cid, phone, name string) (domain.Customer, error)
}

// CustomerRepository is the slice of the customer store the order flow needs.
type CustomerRepository interface {
	ApplyOrderRollup(ctx context.Context, customer *domain.Customer, orderTotal float64, itemCount int, when time.Time) error
}

// EventRepository appends to the engagement log.
type EventRepository interface {
	Append(ctx context.Context, event *domain.Event) error
}

type OrderItemInput struct {
	ProductID uint64
	Title     string
	Price     float64
	Qty       int
	Size      string
	Category  string
}

type CreateOrderInput struct {
	CustomerName  string
	CustomerPhone string
	CID           string
	Items         []OrderItemInput
}

var (
	ErrNameRequired   = errors.New("customer name is required")
	ErrNoItems        = errors.New("at least one line item is required")
	ErrInvalidPhone   = errors.New("phone format looks invalid")
	ErrInvalidItem    = errors.New("line items need a title, price >= 0 and qty >= 1")
	ErrInvalidSize    = errors.New("size must be one of XL, XXL, XXXL, NOT_SURE")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrStatusGoesBack = errors.New("order status cannot move backwards")
)

// Deliberately loose so international numbers and WhatsApp links pass.
var phonePattern = regexp.MustCompile(`^[\d+()\-\s]{7,}$`)

var allowedSizes = map[string]bool{
	domain.SizeXL:      true,
	domain.SizeXXL:     true,
	domain.SizeXXXL:    true,
	domain.SizeNotSure: true,
}

type OrdersService struct {
	orderRepo    OrdersRepository
	identity     IdentityService
	customerRepo CustomerRepository
	eventRepo    EventRepository
}

func NewOrdersService(orderRepo OrdersRepository, identity IdentityService, customerRepo CustomerRepository, eventRepo EventRepository) *OrdersService {
	return &OrdersService{
		orderRepo:    orderRepo,
		identity:     identity,
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
	}
}

// CreateOrder validates the checkout payload, resolves the customer, saves
// the order with an explicit customer reference, and applies the rollups.
// The event-log append is best-effort: a failure is logged, never surfaced.
func (s *OrdersService) CreateOrder(ctx context.Context, input CreateOrderInput) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("context error: %w", err)
	}

	if err := validate(&input); err != nil {
		return domain.Order{}, err
	}

	total := 0.0
	itemCount := 0
	items := make([]domain.OrderItem, 0, len(input.Items))
	lines := make([]domain.OrderLine, 0, len(input.Items))
	for _, it := range input.Items {
		total += it.Price * float64(it.Qty)
		itemCount += it.Qty
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Qty:       it.Qty,
			Size:      it.Size,
		})
		lines = append(lines, domain.OrderLine{
			Category:  it.Category,
			ProductID: it.ProductID,
			Title:     it.Title,
			Qty:       it.Qty,
		})
	}

	customer, err := s.identity.Resolve(ctx, input.CID, input.CustomerPhone, input.CustomerName)
	if err != nil {
		logger.Error("Failed to resolve customer for order", err)
		return domain.Order{}, err
	}

	order := domain.Order{
		CustomerID:    customer.ID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Items:         items,
		Total:         total,
		Status:        domain.OrderStatusPending,
		Source:        "WhatsApp",
	}
	if err := s.orderRepo.Create(ctx, &order); err != nil {
		logger.Error("Failed to save order", err)
		return domain.Order{}, err
	}

	customer.RecordOrder(total, itemCount, order.CreatedAt, lines)
	if err := s.customerRepo.ApplyOrderRollup(ctx, &customer, total, itemCount, order.CreatedAt); err != nil {
		logger.Error("Failed to apply order rollup", err, "cid", customer.CID)
		return domain.Order{}, err
	}

	s.logOrderEvent(ctx, &customer, &order, itemCount)

	return order, nil
}

func (s *OrdersService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

func (s *OrdersService) GetOrder(ctx context.Context, id uint64) (domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// UpdateOrderStatus enforces the forward-only Pending -> Shipped -> Delivered
// chain.
func (s *OrdersService) UpdateOrderStatus(ctx context.Context, id uint64, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if domain.StatusRank(status) < 0 {
		return ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if domain.StatusRank(status) < domain.StatusRank(order.Status) {
		return ErrStatusGoesBack
	}

	return s.orderRepo.UpdateStatus(ctx, id, status)
}

func (s *OrdersService) logOrderEvent(ctx context.Context, customer *domain.Customer, order *domain.Order, itemCount int) {
	payload := fmt.Sprintf(`{"orderId":%d,"total":%g,"itemCount":%d}`, order.ID, order.Total, itemCount)
	event := domain.Event{
		CustomerCID: customer.CID,
		EventType:   domain.EventOrderCreated,
		Data:        datatypes.JSON(payload),
		Size:        domain.SizeNotSure,
		TS:          order.CreatedAt,
	}
	if err := s.eventRepo.Append(ctx, &event); err != nil {
		logger.Warn("Event log failed", err, "order_id", order.ID)
	}
}

func validate(input *CreateOrderInput) error {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	if input.CustomerName == "" {
		return ErrNameRequired
	}

	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	if input.CustomerPhone != "" && !phonePattern.MatchString(input.CustomerPhone) {
		return ErrInvalidPhone
	}

	if len(input.Items) == 0 {
		return ErrNoItems
	}

	for i := range input.Items {
		it := &input.Items[i]
		it.Title = strings.TrimSpace(it.Title)
		if it.Title == "" || it.Price < 0 || it.Qty < 1 {
			return ErrInvalidItem
		}
		if it.Size == "" {
			it.Size = domain.SizeNotSure
		}
		if !allowedSizes[it.Size] {
			return ErrInvalidSize
		}
	}

	return nil
}
