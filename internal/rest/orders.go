package rest

import (
	"context"
	"errors"
	"net/http"
	"steezestore/business/orders"
	"steezestore/domain"
	"steezestore/internal/middleware"
	"steezestore/internal/repository/postgres"
	"steezestore/pkg/logger"
	"steezestore/pkg/metrics"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		CreateOrder(ctx context.Context, input orders.CreateOrderInput) (domain.Order, error)
		GetAllOrders(ctx context.Context) ([]domain.Order, error)
		GetOrder(ctx context.Context, id uint64) (domain.Order, error)
		UpdateOrderStatus(ctx context.Context, id uint64, status string) error
	}

	OrderItemInput struct {
		ProductID uint64  `json:"productId"`
		Title     string  `json:"title" validate:"required"`
		Price     float64 `json:"price" validate:"gte=0"`
		Qty       int     `json:"qty" validate:"required,min=1"`
		Size      string  `json:"size" validate:"omitempty,oneof=XL XXL XXXL NOT_SURE"`
		Category  string  `json:"category"`
	}

	CreateOrderRequest struct {
		CustomerName  string           `json:"customerName" validate:"required"`
		CustomerPhone string           `json:"customerPhone"`
		Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	}

	UpdateStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=Pending Shipped Delivered"`
	}
)

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		validate:      validator.New(),
		ordersService: ordersService,
		timeout:       10 * time.Second,
	}
}

// CreateOrder is the public checkout endpoint, called right before the
// storefront redirects the shopper to WhatsApp.
func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.OrderCreateLatency.Observe(time.Since(start).Seconds())
	}()

	var req CreateOrderRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate order request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	items := make([]orders.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orders.OrderItemInput{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Qty:       it.Qty,
			Size:      it.Size,
			Category:  it.Category,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CreateOrder(ctx, orders.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CID:           middleware.CIDFromContext(c),
		Items:         items,
	})
	if err != nil {
		if isOrderValidationError(err) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to create order", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "order save failed"})
	}

	metrics.OrdersCreated.Inc()

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]interface{}{
		"orderId": order.ID,
	}))
}

// ListOrders returns every order for the admin dashboard, newest first.
func (h *OrdersHandler) ListOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	all, err := h.ordersService.GetAllOrders(ctx)
	if err != nil {
		logger.Error("Failed to get all orders", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"items": all,
	}))
}

func (h *OrdersHandler) GetOrderByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid order id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get order", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

// UpdateStatus moves an order along the Pending -> Shipped -> Delivered chain.
func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid order id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req UpdateStatusRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate status request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ordersService.UpdateOrderStatus(ctx, id, req.Status); err != nil {
		switch {
		case errors.Is(err, postgres.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		case errors.Is(err, orders.ErrInvalidStatus), errors.Is(err, orders.ErrStatusGoesBack):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		default:
			logger.Error("Failed to update order status", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Order status updated successfully"))
}

func isOrderValidationError(err error) bool {
	return errors.Is(err, orders.ErrNameRequired) ||
		errors.Is(err, orders.ErrNoItems) ||
		errors.Is(err, orders.ErrInvalidPhone) ||
		errors.Is(err, orders.ErrInvalidItem) ||
		errors.Is(err, orders.ErrInvalidSize)
}
