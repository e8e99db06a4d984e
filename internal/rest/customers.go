package rest

import (
	"context"
	"errors"
	"net/http"
	"steezestore/business/customer"
	"steezestore/domain"
	"steezestore/internal/repository/postgres"
	"steezestore/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetProfile(ctx context.Context, cid string) (customer.Profile, error)
}

type CustomerHandler struct {
	customerService CustomerService
	timeout         time.Duration
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		timeout:         10 * time.Second,
	}
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	customers, err := h.customerService.ListCustomers(ctx)
	if err != nil {
		logger.Error("Failed to list customers", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"items": customers,
	}))
}

func (h *CustomerHandler) GetProfile(c echo.Context) error {
	cid := c.Param("cid")
	if cid == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "cid is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.customerService.GetProfile(ctx, cid)
	if err != nil {
		if errors.Is(err, postgres.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to load customer profile", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}
