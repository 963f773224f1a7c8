package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"lojaConforto/domain"
)

// ProductRepository keeps the whole catalog in process memory. The store
// is seeded at startup and nothing survives a restart.
type ProductRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Product
	order []string          // ids, newest first
	skus  map[string]string // sku -> product id
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		byID: make(map[string]*domain.Product),
		skus: make(map[string]string),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.skus[product.SKU]; taken {
		return domain.ErrDuplicateSKU
	}

	clone := cloneProduct(product)
	r.byID[clone.ID] = clone
	r.skus[clone.SKU] = clone.ID
	r.order = append([]string{clone.ID}, r.order...)

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}

	return *cloneProduct(p), nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, *cloneProduct(r.byID[id]))
	}

	return products, nil
}

func (r *ProductRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.skus[sku]
	return ok, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}

	if existing.SKU != product.SKU {
		if owner, taken := r.skus[product.SKU]; taken && owner != product.ID {
			return domain.ErrDuplicateSKU
		}
		delete(r.skus, existing.SKU)
		r.skus[product.SKU] = product.ID
	}

	r.byID[product.ID] = cloneProduct(product)

	return nil
}

// Delete is idempotent: removing an id that is not there is a no-op.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return nil
	}

	delete(r.byID, id)
	delete(r.skus, existing.SKU)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// cloneProduct copies a product deep enough that callers can never alias
// the stored history or payload structs.
func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p

	if p.History != nil {
		clone.History = make([]domain.HistoryEntry, len(p.History))
		for i, h := range p.History {
			entry := h
			if h.Details != nil {
				entry.Details = make(map[string]string, len(h.Details))
				for k, v := range h.Details {
					entry.Details[k] = v
				}
			}
			clone.History[i] = entry
		}
	}

	if p.SofaDetails != nil {
		v := *p.SofaDetails
		clone.SofaDetails = &v
	}
	if p.Sale != nil {
		v := *p.Sale
		if p.Sale.SoldPrice != nil {
			price := *p.Sale.SoldPrice
			v.SoldPrice = &price
		}
		clone.Sale = &v
	}
	if p.Reservation != nil {
		v := *p.Reservation
		clone.Reservation = &v
	}
	if p.Order != nil {
		v := *p.Order
		if p.Order.ExpectedDelivery != nil {
			t := *p.Order.ExpectedDelivery
			v.ExpectedDelivery = &t
		}
		clone.Order = &v
	}
	if p.Delivery != nil {
		v := *p.Delivery
		if p.Delivery.ScheduledDate != nil {
			t := *p.Delivery.ScheduledDate
			v.ScheduledDate = &t
		}
		if p.Delivery.DeliveredAt != nil {
			t := *p.Delivery.DeliveredAt
			v.DeliveredAt = &t
		}
		clone.Delivery = &v
	}
	if p.Assistance != nil {
		v := *p.Assistance
		clone.Assistance = &v
	}

	return &clone
}

// normalizeSKU is used by the seeder to keep generated SKUs uppercase and
// free of stray whitespace.
func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
