package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"lojaConforto/business/inventory"
	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
)

type InventoryService interface {
	AddProducts(ctx context.Context, draft inventory.ProductDraft, user string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch inventory.ProductPatch, user, reason string) (domain.Product, error)
	ChangeStatus(ctx context.Context, id string, status domain.ProductStatus, user, reason string, opts inventory.StatusChangeOptions) (domain.Product, error)
	TransferProduct(ctx context.Context, id string, newUnit domain.StoreUnit, user, reason string) (domain.Product, error)
	SetDeliveryInfo(ctx context.Context, id string, draft inventory.DeliveryDraft, user string) (domain.Product, error)
	ScheduleDelivery(ctx context.Context, id string, date time.Time, user string) (domain.Product, error)
	MarkDelivered(ctx context.Context, id string, user string) (domain.Product, error)
	DeleteProduct(ctx context.Context, id, user string) error
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	GetHistory(ctx context.Context, id string) ([]domain.HistoryEntry, error)
	ListProducts(ctx context.Context, filter inventory.ListFilter) ([]domain.Product, error)
}

type ProductHandler struct {
	inventoryService InventoryService
	validator        *validator.Validate
	timeout          time.Duration
}

func NewProductHandler(inventoryService InventoryService) *ProductHandler {
	return &ProductHandler{
		inventoryService: inventoryService,
		validator:        validator.New(),
		timeout:          10 * time.Second,
	}
}

type SofaDetailsRequest struct {
	Size         string `json:"size" validate:"required"`
	Fabric       string `json:"fabric" validate:"required"`
	Manufacturer string `json:"manufacturer" validate:"required"`
	Seats        int    `json:"seats" validate:"required,gte=1"`
}

type OrderDetailsRequest struct {
	OrderID          string          `json:"order_id" validate:"required"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	OrderedDate      time.Time       `json:"ordered_date" validate:"required"`
	ExpectedDelivery *time.Time      `json:"expected_delivery,omitempty"`
	Supplier         string          `json:"supplier,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

type CreateProductRequest struct {
	Name          string               `json:"name" validate:"required"`
	SKU           string               `json:"sku"`
	NoteID        string               `json:"note_id"`
	Category      string               `json:"category" validate:"required"`
	Color         string               `json:"color"`
	Manufacturer  string               `json:"manufacturer"`
	Description   string               `json:"description"`
	ImageURL      string               `json:"image_url"`
	Unit          string               `json:"unit" validate:"required"`
	Status        string               `json:"status"`
	Quantity      int                  `json:"quantity"`
	ExclusiveSKUs []string             `json:"exclusive_skus"`
	SofaDetails   *SofaDetailsRequest  `json:"sofa_details"`
	OrderDetails  *OrderDetailsRequest `json:"order_details"`
}

type UpdateProductRequest struct {
	Name         *string             `json:"name"`
	SKU          *string             `json:"sku"`
	Category     *string             `json:"category"`
	Color        *string             `json:"color"`
	Manufacturer *string             `json:"manufacturer"`
	Description  *string             `json:"description"`
	ImageURL     *string             `json:"image_url"`
	SofaDetails  *SofaDetailsRequest `json:"sofa_details"`
	ClearSofa    bool                `json:"clear_sofa_details"`
	Reason       string              `json:"reason"`
}

type ChangeStatusRequest struct {
	Status       string               `json:"status" validate:"required"`
	Reason       string               `json:"reason"`
	SoldBy       string               `json:"sold_by"`
	SoldUnit     string               `json:"sold_unit"`
	SoldPrice    *decimal.Decimal     `json:"sold_price"`
	OrderDetails *OrderDetailsRequest `json:"order_details"`
	Assistance   *AssistanceRequest   `json:"assistance"`
}

type AssistanceRequest struct {
	Motivo      string `json:"motivo" validate:"required"`
	DataContato string `json:"data_contato"`
	Cliente     string `json:"cliente"`
}

type TransferProductRequest struct {
	Unit   string `json:"unit" validate:"required"`
	Reason string `json:"reason"`
}

type SetDeliveryRequest struct {
	Address         string `json:"address" validate:"required"`
	ReferencePoint  string `json:"reference_point"`
	Type            string `json:"type" validate:"omitempty,oneof=Casa Apartamento"`
	ApartmentNumber string `json:"apartment_number"`
	Floor           string `json:"floor"`
	Access          string `json:"access" validate:"omitempty,oneof=Escada Elevador"`
}

type ScheduleDeliveryRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
}

func actingUser(c echo.Context) string {
	if username, ok := c.Get("username").(string); ok {
		return username
	}
	return ""
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	filter := inventory.ListFilter{
		Unit:   domain.StoreUnit(c.QueryParam("unit")),
		Status: domain.ProductStatus(c.QueryParam("status")),
		Seller: c.QueryParam("seller"),
		Query:  c.QueryParam("q"),
	}
	if from, err := parseDateParam(c.QueryParam("from")); err == nil && from != nil {
		filter.From = from
	}
	if to, err := parseDateParam(c.QueryParam("to")); err == nil && to != nil {
		filter.To = to
	}

	products, err := h.inventoryService.ListProducts(ctx, filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all products",
		"products": products,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.inventoryService.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find product by id",
		"product": product,
	})
}

func (h *ProductHandler) GetProductHistory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	history, err := h.inventoryService.GetHistory(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get product history",
		"history": history,
	})
}

func (h *ProductHandler) CreateProducts(c echo.Context) error {
	var req CreateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}

	draft := inventory.ProductDraft{
		Name:          req.Name,
		SKU:           req.SKU,
		NoteID:        req.NoteID,
		Category:      domain.ProductCategory(req.Category),
		Color:         req.Color,
		Manufacturer:  req.Manufacturer,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Unit:          domain.StoreUnit(req.Unit),
		Status:        domain.ProductStatus(req.Status),
		Quantity:      req.Quantity,
		ExclusiveSKUs: req.ExclusiveSKUs,
		SofaDetails:   toSofaDetails(req.SofaDetails),
		Order:         toOrderDetails(req.OrderDetails),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.inventoryService.AddProducts(ctx, draft, actingUser(c))
	if err != nil {
		logger.Error("Failed to create products", err)
		if errors.Is(err, domain.ErrDuplicateSKU) {
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "products successfully created",
		"products": products,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	patch := inventory.ProductPatch{
		Name:         req.Name,
		SKU:          req.SKU,
		Color:        req.Color,
		Manufacturer: req.Manufacturer,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		SofaDetails:  toSofaDetails(req.SofaDetails),
		ClearSofa:    req.ClearSofa,
	}
	if req.Category != nil {
		category := domain.ProductCategory(*req.Category)
		patch.Category = &category
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.inventoryService.UpdateProduct(ctx, c.Param("id"), patch, actingUser(c), req.Reason)
	if err != nil {
		logger.Error("Failed to update product", err)
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrDuplicateSKU):
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		default:
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update product",
		"product": product,
	})
}

func (h *ProductHandler) ChangeStatus(c echo.Context) error {
	var req ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate status request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	opts := inventory.StatusChangeOptions{
		SoldBy:    req.SoldBy,
		SoldUnit:  domain.StoreUnit(req.SoldUnit),
		SoldPrice: req.SoldPrice,
		Order:     toOrderDetails(req.OrderDetails),
	}
	if req.Assistance != nil {
		opts.Assistance = &inventory.AssistanceData{
			Motivo:      req.Assistance.Motivo,
			DataContato: req.Assistance.DataContato,
			Cliente:     req.Assistance.Cliente,
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.inventoryService.ChangeStatus(ctx, c.Param("id"), domain.ProductStatus(req.Status), actingUser(c), req.Reason, opts)
	if err != nil {
		logger.Error("Failed to change product status", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update product status",
		"product": product,
	})
}

func (h *ProductHandler) TransferProduct(c echo.Context) error {
	var req TransferProductRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate transfer request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.inventoryService.TransferProduct(ctx, c.Param("id"), domain.StoreUnit(req.Unit), actingUser(c), req.Reason)
	if err != nil {
		logger.Error("Failed to transfer product", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully transfer product",
		"product": product,
	})
}

func (h *ProductHandler) SetDeliveryInfo(c echo.Context) error {
	var req SetDeliveryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate delivery request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.inventoryService.SetDeliveryInfo(ctx, c.Param("id"), inventory.DeliveryDraft{
		Address:         req.Address,
		ReferencePoint:  req.ReferencePoint,
		Type:            domain.DeliveryType(req.Type),
		ApartmentNumber: req.ApartmentNumber,
		Floor:           req.Floor,
		Access:          domain.DeliveryAccess(req.Access),
	}, actingUser(c))
	if err != nil {
		logger.Error("Failed to set delivery info", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully set delivery info",
		"product": product,
	})
}

func (h *ProductHandler) ScheduleDelivery(c echo.Context) error {
	var req ScheduleDeliveryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate schedule request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.inventoryService.ScheduleDelivery(ctx, c.Param("id"), req.ScheduledDate, actingUser(c))
	if err != nil {
		logger.Error("Failed to schedule delivery", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully schedule delivery",
		"product": product,
	})
}

func (h *ProductHandler) MarkDelivered(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.inventoryService.MarkDelivered(ctx, c.Param("id"), actingUser(c))
	if err != nil {
		logger.Error("Failed to mark delivered", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully mark delivered",
		"product": product,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	productID := c.Param("id")
	if err := h.inventoryService.DeleteProduct(ctx, productID, actingUser(c)); err != nil {
		logger.Error("Failed to delete product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "product successfully deleted",
		"product_id": productID,
	})
}

func toSofaDetails(req *SofaDetailsRequest) *domain.SofaDetails {
	if req == nil {
		return nil
	}
	return &domain.SofaDetails{
		Size:         req.Size,
		Fabric:       req.Fabric,
		Manufacturer: req.Manufacturer,
		Seats:        req.Seats,
	}
}

func toOrderDetails(req *OrderDetailsRequest) *domain.OrderDetails {
	if req == nil {
		return nil
	}
	return &domain.OrderDetails{
		OrderID:          req.OrderID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		OrderedDate:      req.OrderedDate,
		ExpectedDelivery: req.ExpectedDelivery,
		Supplier:         req.Supplier,
		Notes:            req.Notes,
	}
}

// parseDateParam accepts both plain dates and RFC3339 timestamps.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
