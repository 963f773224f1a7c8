package memory

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lojaConforto/domain"
	"lojaConforto/pkg/utils"
)

var seedNames = []string{
	"Sofá Retrátil Florença", "Poltrona Giratória Oslo", "Cadeira de Jantar Milão",
	"Banqueta Alta Industrial", "Sofá 3 Lugares Nápoles", "Poltrona Decorativa Berna",
	"Cadeira Eames Réplica", "Banqueta Rústica Madeira", "Sofá Cama Zurique",
	"Poltrona Charles Eames", "Cadeira Estofada Paris", "Mesa de Centro Viena",
	"Sofá Chesterfield", "Poltrona Egg Swan", "Banqueta Tolix Metal",
	"Cadeira Bertoia Cromada", "Sofá Modular Lisboa", "Poltrona Barcelona",
}

var (
	seedColors   = []string{"Cinza", "Bege", "Marrom", "Preto", "Azul", "Verde", "Terracota"}
	seedFabrics  = []string{"Veludo", "Linho", "Suede", "Couro", "Chenille", "Boucle"}
	seedStatuses = []domain.ProductStatus{
		domain.StatusDisponivel,
		domain.StatusVendido,
		domain.StatusPedido,
		domain.StatusReservado,
	}
)

var seedImages = map[domain.ProductCategory][]string{
	domain.CategorySofa: {
		"https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=400&h=300&fit=crop",
		"https://images.unsplash.com/photo-1493663284031-b7e3aefcae8e?w=400&h=300&fit=crop",
		"https://images.unsplash.com/photo-1506439773649-6e0eb8cfb237?w=400&h=300&fit=crop",
	},
	domain.CategoryPoltrona: {
		"https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=300&fit=crop",
		"https://images.unsplash.com/photo-1567538096630-e0c55bd6374c?w=400&h=300&fit=crop",
	},
	domain.CategoryCadeira: {
		"https://images.unsplash.com/photo-1592078615290-033ee584e267?w=400&h=300&fit=crop",
		"https://images.unsplash.com/photo-1503602642458-232111445657?w=400&h=300&fit=crop",
	},
	domain.CategoryBanqueta: {
		"https://images.unsplash.com/photo-1503602642458-232111445657?w=400&h=300&fit=crop",
	},
	domain.CategoryMesa: {
		"https://images.unsplash.com/photo-1533090161767-e6ffed986c88?w=400&h=300&fit=crop",
	},
}

// SeedProducts fills the repository with the demo catalog. Sold items get
// a full sale payload so the dashboards have data to aggregate.
func (r *ProductRepository) SeedProducts(ctx context.Context, rng *rand.Rand) error {
	now := time.Now()
	rangeStart := time.Date(2024, 9, 1, 0, 0, 0, 0, time.Local)
	rangeEnd := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	if rangeEnd.After(now) {
		rangeEnd = now
	}

	for i, name := range seedNames {
		status := seedStatuses[rng.Intn(len(seedStatuses))]
		unit := domain.StoreUnits[rng.Intn(len(domain.StoreUnits))]
		category := categoryForName(name)
		createdAt := randomDate(rng, rangeStart, rangeEnd)
		createdBy := domain.SystemUsers[rng.Intn(len(domain.SystemUsers))]

		product := &domain.Product{
			ID:           uuid.NewString(),
			SKU:          normalizeSKU(fmt.Sprintf("LC-%04d", i+1)),
			Name:         name,
			Category:     category,
			Color:        seedColors[rng.Intn(len(seedColors))],
			Manufacturer: domain.Manufacturers[rng.Intn(len(domain.Manufacturers))],
			Description:  fmt.Sprintf("%s de alta qualidade. Perfeito para ambientes modernos e aconchegantes.", name),
			ImageURL:     imageForCategory(rng, category),
			Unit:         unit,
			Status:       status,
			CreatedAt:    createdAt,
			CreatedBy:    createdBy,
			UpdatedAt:    createdAt,
			History: []domain.HistoryEntry{{
				ID:        uuid.NewString(),
				Action:    domain.ActionCreated,
				User:      createdBy,
				Timestamp: createdAt,
				Details: map[string]string{
					"reason": fmt.Sprintf("Produto cadastrado na unidade %s", unit),
				},
			}},
		}

		if category == domain.CategorySofa {
			product.SofaDetails = &domain.SofaDetails{
				Size:         fmt.Sprintf("%.2fm", rng.Float64()*1.5+1.5),
				Fabric:       seedFabrics[rng.Intn(len(seedFabrics))],
				Manufacturer: domain.Manufacturers[rng.Intn(len(domain.Manufacturers))],
				Seats:        rng.Intn(4) + 2,
			}
		}

		if status == domain.StatusVendido {
			soldAt := randomDate(rng, createdAt, now)
			soldBy := domain.SystemUsers[rng.Intn(len(domain.SystemUsers))]
			price := decimal.NewFromInt(int64(rng.Intn(4200) + 800))
			product.Sale = &domain.SaleInfo{
				SoldBy:    soldBy,
				SoldAt:    soldAt,
				SoldUnit:  unit,
				SoldPrice: &price,
			}
			product.UpdatedAt = soldAt
			entry := domain.HistoryEntry{
				ID:        uuid.NewString(),
				Action:    domain.ActionStatusChanged,
				User:      soldBy,
				Timestamp: soldAt,
				Details: map[string]string{
					"oldStatus": string(domain.StatusDisponivel),
					"newStatus": string(domain.StatusVendido),
					"reason":    "Marcado como vendido",
				},
			}
			product.History = append([]domain.HistoryEntry{entry}, product.History...)
		}

		if status == domain.StatusReservado {
			reservedAt := randomDate(rng, createdAt, now)
			product.Reservation = &domain.ReservationInfo{
				ReservedBy: domain.SystemUsers[rng.Intn(len(domain.SystemUsers))],
				ReservedAt: reservedAt,
			}
		}

		if err := r.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", product.SKU, err)
		}
	}

	return nil
}

// SeedUsers registers the fixed staff roster. Everyone shares the default
// password; usernames listed in admins get the admin role.
func (r *UserRepository) SeedUsers(ctx context.Context, defaultPassword string, admins []string) error {
	hash, err := utils.HashPassword(defaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	adminSet := make(map[string]bool, len(admins))
	for _, a := range admins {
		adminSet[strings.ToUpper(a)] = true
	}

	for _, name := range domain.SystemUsers {
		role := domain.RoleVendedor
		if adminSet[name] {
			role = domain.RoleAdmin
		}

		user := &domain.User{
			Username:  name,
			Password:  hash,
			Role:      role,
			CreatedAt: time.Now(),
		}
		if err := r.Create(ctx, user); err != nil {
			return err
		}
	}

	return nil
}

func categoryForName(name string) domain.ProductCategory {
	lower := strings.ToLower(name)
	for _, c := range domain.ProductCategories {
		if c == domain.CategoryOutros {
			continue
		}
		if strings.Contains(lower, strings.ToLower(string(c))) {
			return c
		}
	}
	return domain.CategoryOutros
}

func imageForCategory(rng *rand.Rand, category domain.ProductCategory) string {
	images, ok := seedImages[category]
	if !ok || len(images) == 0 {
		images = seedImages[domain.CategorySofa]
	}
	return images[rng.Intn(len(images))]
}

func randomDate(rng *rand.Rand, start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	delta := end.Sub(start)
	return start.Add(time.Duration(rng.Int63n(int64(delta))))
}
