package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
	"lojaConforto/pkg/metrics"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

var (
	ErrNoDeliveryAddress = errors.New("delivery address not set")
	ErrAlreadyDelivered  = errors.New("product already delivered")
)

type inventoryService struct {
	productRepo ProductRepository
}

func NewInventoryService(productRepo ProductRepository) *inventoryService {
	return &inventoryService{
		productRepo: productRepo,
	}
}

// ProductDraft is the intake form for one catalog entry. Quantity above 1
// produces siblings sharing a note id, each with a sequenced SKU.
type ProductDraft struct {
	Name          string
	SKU           string
	NoteID        string
	Category      domain.ProductCategory
	Color         string
	Manufacturer  string
	Description   string
	ImageURL      string
	Unit          domain.StoreUnit
	Status        domain.ProductStatus
	SofaDetails   *domain.SofaDetails
	Order         *domain.OrderDetails
	Quantity      int
	ExclusiveSKUs []string
}

type AssistanceData struct {
	Motivo      string
	DataContato string
	Cliente     string
}

type StatusChangeOptions struct {
	SoldBy     string
	SoldUnit   domain.StoreUnit
	SoldPrice  *decimal.Decimal
	Order      *domain.OrderDetails
	Assistance *AssistanceData
}

type DeliveryDraft struct {
	Address         string
	ReferencePoint  string
	Type            domain.DeliveryType
	ApartmentNumber string
	Floor           string
	Access          domain.DeliveryAccess
}

// ListFilter narrows catalog queries. Zero values mean "no filter".
type ListFilter struct {
	Unit   domain.StoreUnit
	Status domain.ProductStatus
	Seller string
	Query  string
	From   *time.Time
	To     *time.Time
}

func (s *inventoryService) AddProducts(ctx context.Context, draft ProductDraft, user string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when adding products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if draft.Name == "" {
		logger.Error("Invalid product data: product name is required")
		return nil, errors.New("product name is required")
	}
	if !draft.Category.Valid() {
		return nil, errors.New("invalid product category")
	}
	if !draft.Unit.Valid() {
		return nil, errors.New("invalid store unit")
	}
	if draft.Quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}
	if draft.Status == "" {
		draft.Status = domain.StatusDisponivel
	}
	if !draft.Status.Valid() {
		return nil, errors.New("invalid product status")
	}
	if (draft.Category == domain.CategorySofa) != (draft.SofaDetails != nil) {
		return nil, errors.New("sofa details must be set exactly for sofa products")
	}
	if draft.Status == domain.StatusPedido && draft.Order == nil {
		return nil, errors.New("order details are required for ordered products")
	}

	noteID := draft.NoteID
	if draft.Status == domain.StatusPedido && draft.Order != nil && draft.Order.OrderID != "" {
		noteID = draft.Order.OrderID
	}
	if noteID == "" {
		noteID = fmt.Sprintf("note-%d", time.Now().UnixMilli())
	}

	skus := make([]string, draft.Quantity)
	for i := 0; i < draft.Quantity; i++ {
		suffix := strings.TrimSpace(draft.SKU)
		if i < len(draft.ExclusiveSKUs) && strings.TrimSpace(draft.ExclusiveSKUs[i]) != "" {
			suffix = strings.TrimSpace(draft.ExclusiveSKUs[i])
		}
		if suffix != "" {
			skus[i] = fmt.Sprintf("%s-%s-%d", noteID, suffix, i+1)
		} else {
			skus[i] = fmt.Sprintf("%s-%d", noteID, i+1)
		}
	}

	// Reject the whole batch before creating anything, so a duplicate in
	// the middle cannot leave half a note behind.
	seen := make(map[string]bool, len(skus))
	for _, sku := range skus {
		if seen[sku] {
			return nil, domain.ErrDuplicateSKU
		}
		seen[sku] = true

		exists, err := s.productRepo.SKUExists(ctx, sku)
		if err != nil {
			return nil, err
		}
		if exists {
			logger.Error("Duplicate SKU on intake", "sku", sku)
			return nil, domain.ErrDuplicateSKU
		}
	}

	now := time.Now()
	created := make([]domain.Product, 0, draft.Quantity)
	for i := 0; i < draft.Quantity; i++ {
		product := domain.Product{
			ID:           uuid.NewString(),
			SKU:          skus[i],
			NoteID:       noteID,
			Name:         draft.Name,
			Category:     draft.Category,
			Color:        draft.Color,
			Manufacturer: draft.Manufacturer,
			Description:  draft.Description,
			ImageURL:     draft.ImageURL,
			Unit:         draft.Unit,
			Status:       draft.Status,
			CreatedAt:    now,
			CreatedBy:    user,
			UpdatedAt:    now,
			History: []domain.HistoryEntry{{
				ID:        uuid.NewString(),
				Action:    domain.ActionCreated,
				User:      user,
				Timestamp: now,
				Details: map[string]string{
					"reason": fmt.Sprintf("Produto cadastrado na unidade %s", draft.Unit),
				},
			}},
		}

		if draft.SofaDetails != nil {
			details := *draft.SofaDetails
			product.SofaDetails = &details
		}
		if draft.Status == domain.StatusPedido && draft.Order != nil {
			order := *draft.Order
			product.Order = &order
		}

		if err := s.productRepo.Create(ctx, &product); err != nil {
			logger.Error("failed to create product", err)
			return nil, fmt.Errorf("failed to create product: %w", err)
		}

		metrics.InventoryMutations.WithLabelValues(string(domain.ActionCreated)).Inc()
		created = append(created, product)
	}

	logger.Info("products registered", "note_id", noteID, "count", len(created))

	return created, nil
}

// ProductPatch carries the editable fields. Nil means keep the current
// value.
type ProductPatch struct {
	Name         *string
	SKU          *string
	Category     *domain.ProductCategory
	Color        *string
	Manufacturer *string
	Description  *string
	ImageURL     *string
	SofaDetails  *domain.SofaDetails
	ClearSofa    bool
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id string, patch ProductPatch, user, reason string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return domain.Product{}, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return domain.Product{}, errors.New("product name is required")
		}
		product.Name = *patch.Name
	}
	if patch.SKU != nil && *patch.SKU != "" {
		product.SKU = *patch.SKU
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return domain.Product{}, errors.New("invalid product category")
		}
		product.Category = *patch.Category
	}
	if patch.Color != nil {
		product.Color = *patch.Color
	}
	if patch.Manufacturer != nil {
		product.Manufacturer = *patch.Manufacturer
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	if patch.SofaDetails != nil {
		details := *patch.SofaDetails
		product.SofaDetails = &details
	}
	if patch.ClearSofa {
		product.SofaDetails = nil
	}

	if (product.Category == domain.CategorySofa) != (product.SofaDetails != nil) {
		return domain.Product{}, errors.New("sofa details must be set exactly for sofa products")
	}

	if reason == "" {
		reason = "Produto editado"
	}
	s.appendHistory(&product, domain.ActionUpdated, user, map[string]string{"reason": reason})

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to update product", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *inventoryService) ChangeStatus(ctx context.Context, id string, status domain.ProductStatus, user, reason string, opts StatusChangeOptions) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when changing product status")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	if !status.Valid() {
		return domain.Product{}, errors.New("invalid product status")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return domain.Product{}, err
	}

	oldStatus := product.Status
	now := time.Now()

	if reason == "" {
		reason = fmt.Sprintf("Status alterado para %s", status)
	}

	action := domain.ActionStatusChanged
	details := map[string]string{
		"oldStatus": string(oldStatus),
		"newStatus": string(status),
		"reason":    reason,
	}

	switch status {
	case domain.StatusVendido:
		soldBy := opts.SoldBy
		if soldBy == "" {
			soldBy = user
		}
		soldUnit := opts.SoldUnit
		if soldUnit == "" {
			soldUnit = product.Unit
		}
		sale := &domain.SaleInfo{
			SoldBy:   soldBy,
			SoldAt:   now,
			SoldUnit: soldUnit,
		}
		if opts.SoldPrice != nil {
			price := *opts.SoldPrice
			sale.SoldPrice = &price
		}
		product.Sale = sale

	case domain.StatusPedido:
		if opts.Order != nil {
			order := *opts.Order
			product.Order = &order
		}

	case domain.StatusReservado:
		product.Reservation = &domain.ReservationInfo{
			ReservedBy: user,
			ReservedAt: now,
		}

	case domain.StatusAssistencia:
		if opts.Assistance == nil {
			return domain.Product{}, errors.New("assistance data is required")
		}
		action = domain.ActionAssistanceOpened
		product.Assistance = &domain.AssistanceInfo{
			Motivo:      opts.Assistance.Motivo,
			DataContato: opts.Assistance.DataContato,
			Cliente:     opts.Assistance.Cliente,
			AbertoEm:    now,
		}
		details["assistenciaMotivo"] = opts.Assistance.Motivo
		details["assistenciaDataContato"] = opts.Assistance.DataContato
		details["assistenciaCliente"] = opts.Assistance.Cliente
	}

	product.Status = status
	s.appendHistoryWithAction(&product, action, user, details, now)

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to update product status", err)
		return domain.Product{}, err
	}

	logger.Info("product status changed", "id", id, "from", oldStatus, "to", status)

	return product, nil
}

func (s *inventoryService) TransferProduct(ctx context.Context, id string, newUnit domain.StoreUnit, user, reason string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when transferring product")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	if !newUnit.Valid() {
		return domain.Product{}, errors.New("invalid store unit")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return domain.Product{}, err
	}

	oldUnit := product.Unit
	if reason == "" {
		reason = fmt.Sprintf("Transferido de %s para %s", oldUnit, newUnit)
	}

	product.Unit = newUnit
	s.appendHistory(&product, domain.ActionTransferred, user, map[string]string{
		"oldUnit": string(oldUnit),
		"newUnit": string(newUnit),
		"reason":  reason,
	})

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to transfer product", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *inventoryService) SetDeliveryInfo(ctx context.Context, id string, draft DeliveryDraft, user string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when setting delivery info")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	if draft.Address == "" {
		return domain.Product{}, errors.New("delivery address is required")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return domain.Product{}, err
	}

	delivery := &domain.DeliveryInfo{
		Address:        draft.Address,
		ReferencePoint: draft.ReferencePoint,
		Type:           draft.Type,
		Status:         domain.DeliveryPendente,
	}
	// Floor and access only make sense for apartment deliveries.
	if draft.Type == domain.DeliveryApartamento {
		delivery.ApartmentNumber = draft.ApartmentNumber
		delivery.Floor = draft.Floor
		delivery.Access = draft.Access
	}
	product.Delivery = delivery

	s.appendHistory(&product, domain.ActionDeliveryInfoSet, user, map[string]string{
		"reason": fmt.Sprintf("Venda finalizada - Endereço de entrega registrado: %s", draft.Address),
	})

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to set delivery info", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *inventoryService) ScheduleDelivery(ctx context.Context, id string, date time.Time, user string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when scheduling delivery")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return domain.Product{}, err
	}

	if product.Delivery == nil || product.Delivery.Address == "" {
		return domain.Product{}, ErrNoDeliveryAddress
	}
	if product.Delivery.Status == domain.DeliveryEntregue {
		return domain.Product{}, ErrAlreadyDelivered
	}

	oldStatus := product.Delivery.Status
	product.Delivery.Status = domain.DeliveryAgendada
	product.Delivery.ScheduledDate = &date

	s.appendHistory(&product, domain.ActionStatusChanged, user, map[string]string{
		"oldStatus": string(oldStatus),
		"newStatus": string(domain.DeliveryAgendada),
		"reason":    fmt.Sprintf("Entrega agendada para %s", date.Format("02/01/2006 15:04")),
	})

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to schedule delivery", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *inventoryService) MarkDelivered(ctx context.Context, id string, user string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when marking delivered")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return domain.Product{}, err
	}

	if product.Delivery == nil || product.Delivery.Address == "" {
		return domain.Product{}, ErrNoDeliveryAddress
	}
	if product.Delivery.Status == domain.DeliveryEntregue {
		return domain.Product{}, ErrAlreadyDelivered
	}

	now := time.Now()
	oldStatus := product.Delivery.Status
	product.Delivery.Status = domain.DeliveryEntregue
	product.Delivery.DeliveredAt = &now

	s.appendHistoryWithAction(&product, domain.ActionStatusChanged, user, map[string]string{
		"oldStatus": string(oldStatus),
		"newStatus": string(domain.DeliveryEntregue),
		"reason":    "Entregue ao cliente",
	}, now)

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to mark delivered", err)
		return domain.Product{}, err
	}

	return product, nil
}

// DeleteProduct removes the product. Deleting an id that does not exist
// is a no-op and still succeeds. The admin gate lives at the API layer.
func (s *inventoryService) DeleteProduct(ctx context.Context, id, user string) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	metrics.InventoryMutations.WithLabelValues(string(domain.ActionDeleted)).Inc()
	logger.Info("product deleted", "id", id, "user", user)

	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, errors.New("invalid product id")
	}

	return s.productRepo.FindByID(ctx, id)
}

func (s *inventoryService) GetHistory(ctx context.Context, id string) ([]domain.HistoryEntry, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return product.History, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	out := products[:0]
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	for _, p := range products {
		if filter.Unit != "" && p.Unit != filter.Unit {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Seller != "" && (p.Sale == nil || p.Sale.SoldBy != filter.Seller) {
			continue
		}
		if filter.From != nil && p.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && p.CreatedAt.After(*filter.To) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.SKU), query) &&
			!strings.Contains(strings.ToLower(p.Color), query) {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

// PendingDeliveries lists products awaiting delivery, optionally filtered
// by scheduled date, oldest scheduled first unless newestFirst is set.
func (s *inventoryService) PendingDeliveries(ctx context.Context, scheduledOn *time.Time, newestFirst bool) ([]domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	pending := make([]domain.Product, 0)
	for _, p := range products {
		if !p.PendingDelivery() {
			continue
		}
		if scheduledOn != nil {
			if p.Delivery.ScheduledDate == nil {
				continue
			}
			y1, m1, d1 := p.Delivery.ScheduledDate.Date()
			y2, m2, d2 := scheduledOn.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		pending = append(pending, p)
	}

	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i].Delivery.ScheduledDate, pending[j].Delivery.ScheduledDate
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return !newestFirst
		case b == nil:
			return newestFirst
		case newestFirst:
			return a.After(*b)
		default:
			return a.Before(*b)
		}
	})

	return pending, nil
}

func (s *inventoryService) DeliveredHistory(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	delivered := make([]domain.Product, 0)
	for _, p := range products {
		if p.Delivery != nil && p.Delivery.Address != "" && p.Delivery.Status == domain.DeliveryEntregue {
			delivered = append(delivered, p)
		}
	}

	sort.SliceStable(delivered, func(i, j int) bool {
		a, b := delivered[i].Delivery.DeliveredAt, delivered[j].Delivery.DeliveredAt
		if a == nil || b == nil {
			return b == nil
		}
		return a.After(*b)
	})

	return delivered, nil
}

func (s *inventoryService) appendHistory(product *domain.Product, action domain.HistoryAction, user string, details map[string]string) {
	s.appendHistoryWithAction(product, action, user, details, time.Now())
}

// Every mutation appends exactly one new entry at the head; past entries
// are never touched.
func (s *inventoryService) appendHistoryWithAction(product *domain.Product, action domain.HistoryAction, user string, details map[string]string, now time.Time) {
	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		Action:    action,
		User:      user,
		Timestamp: now,
		Details:   details,
	}

	product.History = append([]domain.HistoryEntry{entry}, product.History...)
	product.UpdatedAt = now

	metrics.InventoryMutations.WithLabelValues(string(action)).Inc()
}
