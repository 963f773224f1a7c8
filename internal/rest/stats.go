package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"

	"lojaConforto/business/stats"
	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
)

type StatsService interface {
	Overview(ctx context.Context) (domain.InventoryStats, error)
	SalesByUnit(ctx context.Context) ([]domain.UnitSales, error)
	SalesSeries(ctx context.Context, timeRange stats.TimeRange, customStart, customEnd *time.Time) ([]domain.SalesBucket, error)
	SellerRanking(ctx context.Context) ([]domain.SellerRank, error)
	SalesHistory(ctx context.Context, seller string, unit domain.StoreUnit, from, to *time.Time) ([]domain.Product, error)
}

type StatsHandler struct {
	statsService StatsService
	timeout      time.Duration
}

func NewStatsHandler(statsService StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		timeout:      10 * time.Second,
	}
}

func (h *StatsHandler) Overview(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	overview, err := h.statsService.Overview(ctx)
	if err != nil {
		logger.Error("Failed to compute inventory stats", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(overview))
}

func (h *StatsHandler) SalesByUnit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sales, err := h.statsService.SalesByUnit(ctx)
	if err != nil {
		logger.Error("Failed to compute sales by unit", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(sales))
}

func (h *StatsHandler) SalesSeries(c echo.Context) error {
	timeRange := stats.TimeRange(c.QueryParam("range"))
	if timeRange == "" {
		timeRange = stats.RangeDays
	}

	start, err := parseDateParam(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid start date"})
	}
	end, err := parseDateParam(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid end date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	series, err := h.statsService.SalesSeries(ctx, timeRange, start, end)
	if err != nil {
		logger.Error("Failed to compute sales series", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(series))
}

func (h *StatsHandler) SellerRanking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	ranking, err := h.statsService.SellerRanking(ctx)
	if err != nil {
		logger.Error("Failed to compute seller ranking", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ranking))
}

func (h *StatsHandler) SalesHistory(c echo.Context) error {
	from, err := parseDateParam(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid from date"})
	}
	to, err := parseDateParam(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid to date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sold, err := h.statsService.SalesHistory(ctx, c.QueryParam("seller"), domain.StoreUnit(c.QueryParam("unit")), from, to)
	if err != nil {
		logger.Error("Failed to list sales history", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(sold))
}
