package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"

	"lojaConforto/business/share"
	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
	"lojaConforto/pkg/response"
)

type DeliveryLister interface {
	PendingDeliveries(ctx context.Context, scheduledOn *time.Time, newestFirst bool) ([]domain.Product, error)
	DeliveredHistory(ctx context.Context) ([]domain.Product, error)
}

type RoutingService interface {
	PlanRoute(ctx context.Context, productID, origin string) (domain.RoutePlan, error)
}

type ShareService interface {
	CreateCode(ctx context.Context, productID string) (string, error)
	ResolveCode(ctx context.Context, code string) (domain.Product, error)
}

type DeliveryHandler struct {
	deliveries     DeliveryLister
	routingService RoutingService
	shareService   ShareService
	timeout        time.Duration
}

func NewDeliveryHandler(deliveries DeliveryLister, routingService RoutingService, shareService ShareService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveries:     deliveries,
		routingService: routingService,
		shareService:   shareService,
		timeout:        20 * time.Second,
	}
}

// ListDeliveries returns both the pending queue and the delivered
// history, mirroring the deliveries screen.
func (h *DeliveryHandler) ListDeliveries(c echo.Context) error {
	scheduledOn, err := parseDateParam(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid date filter"})
	}
	newestFirst := c.QueryParam("sort") == "desc"

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pending, err := h.deliveries.PendingDeliveries(ctx, scheduledOn, newestFirst)
	if err != nil {
		logger.Error("Failed to list pending deliveries", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	delivered, err := h.deliveries.DeliveredHistory(ctx)
	if err != nil {
		logger.Error("Failed to list delivered history", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully get deliveries",
		"pending":   pending,
		"delivered": delivered,
	})
}

// PlanRoute is best effort: upstream geocoder/router failures come back
// as 502 so the client can fall back to the plain maps link.
func (h *DeliveryHandler) PlanRoute(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	plan, err := h.routingService.PlanRoute(ctx, c.Param("id"), c.QueryParam("origin"))
	if err != nil {
		logger.Error("Failed to plan delivery route", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadGateway, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(plan))
}

func (h *DeliveryHandler) CreateShareCode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	code, err := h.shareService.CreateCode(ctx, c.Param("id"))
	if err != nil {
		logger.Error("Failed to create share code", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, response.Success("share code created", map[string]string{"code": code}))
}

// ResolveShareCode is the only unauthenticated product read; it answers
// with the delivery sheet for a valid unexpired code.
func (h *DeliveryHandler) ResolveShareCode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.shareService.ResolveCode(ctx, c.Param("code"))
	if err != nil {
		logger.Error("Failed to resolve share code", err)
		if errors.Is(err, share.ErrInvalidCode) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, response.Success("successfully resolve share code", product))
}
