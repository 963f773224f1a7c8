package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lojaConforto/domain"
)

// mockProductRepo is a map-backed stand-in for the memory repository.
type mockProductRepo struct {
	products map[string]domain.Product
	order    []string
	failOn   string
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]domain.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, product *domain.Product) error {
	if m.failOn == "create" {
		return assert.AnError
	}
	m.products[product.ID] = *product
	m.order = append([]string{product.ID}, m.order...)
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id string) (domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepo) FindAll(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *mockProductRepo) SKUExists(_ context.Context, sku string) (bool, error) {
	for _, p := range m.products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	m.products[product.ID] = *product
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id string) error {
	delete(m.products, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func seedOne(t *testing.T, svc *inventoryService, draft ProductDraft) domain.Product {
	t.Helper()
	created, err := svc.AddProducts(context.Background(), draft, "ANA")
	require.NoError(t, err)
	require.Len(t, created, 1)
	return created[0]
}

func availableDraft() ProductDraft {
	return ProductDraft{
		Name:     "Mesa de Jantar Rústica",
		Category: domain.CategoryMesa,
		Unit:     domain.UnitCamobi,
		Quantity: 1,
	}
}

func TestAddProducts(t *testing.T) {
	t.Run("single product gets one CREATED entry", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())

		p := seedOne(t, svc, availableDraft())

		assert.Equal(t, domain.StatusDisponivel, p.Status)
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.NoteID)
		require.Len(t, p.History, 1)
		assert.Equal(t, domain.ActionCreated, p.History[0].Action)
		assert.Equal(t, "ANA", p.History[0].User)
	})

	t.Run("batch of three shares note id with sequenced SKUs", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())

		draft := availableDraft()
		draft.Quantity = 3
		created, err := svc.AddProducts(context.Background(), draft, "DEISE")
		require.NoError(t, err)
		require.Len(t, created, 3)

		noteID := created[0].NoteID
		seen := make(map[string]bool)
		for i, p := range created {
			assert.Equal(t, noteID, p.NoteID)
			assert.Equal(t, fmt.Sprintf("%s-%d", noteID, i+1), p.SKU)
			assert.False(t, seen[p.SKU], "SKU must be unique within the batch")
			seen[p.SKU] = true
		}
	})

	t.Run("order id becomes the note id for ordered products", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())

		draft := availableDraft()
		draft.Status = domain.StatusPedido
		draft.Order = &domain.OrderDetails{
			OrderID:     "PED-777",
			Amount:      decimal.NewFromInt(2500),
			OrderedDate: time.Now(),
		}

		p := seedOne(t, svc, draft)

		assert.Equal(t, "PED-777", p.NoteID)
		assert.Equal(t, "PED-777-1", p.SKU)
		require.NotNil(t, p.Order)
		assert.Equal(t, "PED-777", p.Order.OrderID)
	})

	t.Run("duplicate SKU rejects the whole batch", func(t *testing.T) {
		repo := newMockProductRepo()
		svc := NewInventoryService(repo)

		draft := availableDraft()
		draft.NoteID = "nota-1"
		seedOne(t, svc, draft)

		_, err := svc.AddProducts(context.Background(), draft, "ANA")
		assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
		assert.Len(t, repo.products, 1)
	})

	t.Run("sofa requires sofa details", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())

		draft := availableDraft()
		draft.Category = domain.CategorySofa
		_, err := svc.AddProducts(context.Background(), draft, "ANA")
		assert.Error(t, err)

		draft.SofaDetails = &domain.SofaDetails{Size: "3 lugares", Fabric: "Linho", Manufacturer: "DallaCosta", Seats: 3}
		created, err := svc.AddProducts(context.Background(), draft, "ANA")
		require.NoError(t, err)
		require.NotNil(t, created[0].SofaDetails)
		assert.Equal(t, "Linho", created[0].SofaDetails.Fabric)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())

		cases := []struct {
			name  string
			edit  func(d *ProductDraft)
		}{
			{"empty name", func(d *ProductDraft) { d.Name = "" }},
			{"bad category", func(d *ProductDraft) { d.Category = "Eletrodoméstico" }},
			{"bad unit", func(d *ProductDraft) { d.Unit = "Filial Sul" }},
			{"zero quantity", func(d *ProductDraft) { d.Quantity = 0 }},
			{"pedido without order", func(d *ProductDraft) { d.Status = domain.StatusPedido }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				draft := availableDraft()
				tc.edit(&draft)
				_, err := svc.AddProducts(context.Background(), draft, "ANA")
				assert.Error(t, err)
			})
		}
	})
}

func TestUpdateProduct(t *testing.T) {
	svc := NewInventoryService(newMockProductRepo())
	p := seedOne(t, svc, availableDraft())

	newName := "Mesa de Jantar Extensível"
	newColor := "Nogueira"
	updated, err := svc.UpdateProduct(context.Background(), p.ID, ProductPatch{
		Name:  &newName,
		Color: &newColor,
	}, "JULIANO", "ajuste de cadastro")
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, newColor, updated.Color)
	require.Len(t, updated.History, 2)
	assert.Equal(t, domain.ActionUpdated, updated.History[0].Action)
	assert.Equal(t, "ajuste de cadastro", updated.History[0].Details["reason"])
	assert.Equal(t, domain.ActionCreated, updated.History[1].Action, "past entries are never touched")

	_, err = svc.UpdateProduct(context.Background(), "missing", ProductPatch{Name: &newName}, "JULIANO", "")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestChangeStatus(t *testing.T) {
	t.Run("sale fills defaults from actor and unit", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())
		p := seedOne(t, svc, availableDraft())

		price := decimal.NewFromInt(1500)
		updated, err := svc.ChangeStatus(context.Background(), p.ID, domain.StatusVendido, "LUCAS", "", StatusChangeOptions{
			SoldPrice: &price,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusVendido, updated.Status)
		require.NotNil(t, updated.Sale)
		assert.Equal(t, "LUCAS", updated.Sale.SoldBy)
		assert.Equal(t, domain.UnitCamobi, updated.Sale.SoldUnit)
		require.NotNil(t, updated.Sale.SoldPrice)
		assert.True(t, updated.Sale.SoldPrice.Equal(price))

		require.Len(t, updated.History, 2)
		assert.Equal(t, domain.ActionStatusChanged, updated.History[0].Action)
		assert.Equal(t, string(domain.StatusDisponivel), updated.History[0].Details["oldStatus"])
		assert.Equal(t, string(domain.StatusVendido), updated.History[0].Details["newStatus"])
	})

	t.Run("explicit seller and unit win over defaults", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())
		p := seedOne(t, svc, availableDraft())

		updated, err := svc.ChangeStatus(context.Background(), p.ID, domain.StatusVendido, "LUCAS", "", StatusChangeOptions{
			SoldBy:   "LUIZA",
			SoldUnit: domain.UnitShoppingPracaNova,
		})
		require.NoError(t, err)
		assert.Equal(t, "LUIZA", updated.Sale.SoldBy)
		assert.Equal(t, domain.UnitShoppingPracaNova, updated.Sale.SoldUnit)
	})

	t.Run("reservation records who reserved", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())
		p := seedOne(t, svc, availableDraft())

		updated, err := svc.ChangeStatus(context.Background(), p.ID, domain.StatusReservado, "LARISSA", "", StatusChangeOptions{})
		require.NoError(t, err)
		require.NotNil(t, updated.Reservation)
		assert.Equal(t, "LARISSA", updated.Reservation.ReservedBy)
	})

	t.Run("assistance requires data and lands in history details", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())
		p := seedOne(t, svc, availableDraft())

		_, err := svc.ChangeStatus(context.Background(), p.ID, domain.StatusAssistencia, "ANA", "", StatusChangeOptions{})
		assert.Error(t, err)

		updated, err := svc.ChangeStatus(context.Background(), p.ID, domain.StatusAssistencia, "ANA", "", StatusChangeOptions{
			Assistance: &AssistanceData{
				Motivo:      "Pé quebrado",
				DataContato: "10/02/2025",
				Cliente:     "Sr. Almeida",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusAssistencia, updated.Status)
		require.NotNil(t, updated.Assistance)
		assert.Equal(t, "Pé quebrado", updated.Assistance.Motivo)
		assert.Equal(t, domain.ActionAssistanceOpened, updated.History[0].Action)
		assert.Equal(t, "Pé quebrado", updated.History[0].Details["assistenciaMotivo"])
		assert.Equal(t, "Sr. Almeida", updated.History[0].Details["assistenciaCliente"])
	})

	t.Run("existing order details survive a pedido change without payload", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())
		draft := availableDraft()
		draft.Status = domain.StatusPedido
		draft.Order = &domain.OrderDetails{OrderID: "PED-1", Amount: decimal.NewFromInt(900), OrderedDate: time.Now()}
		p := seedOne(t, svc, draft)

		updated, err := svc.ChangeStatus(context.Background(), p.ID, domain.StatusPedido, "ANA", "", StatusChangeOptions{})
		require.NoError(t, err)
		require.NotNil(t, updated.Order)
		assert.Equal(t, "PED-1", updated.Order.OrderID)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())
		p := seedOne(t, svc, availableDraft())

		_, err := svc.ChangeStatus(context.Background(), p.ID, "Emprestado", "ANA", "", StatusChangeOptions{})
		assert.Error(t, err)
	})

	t.Run("missing product fails loudly", func(t *testing.T) {
		svc := NewInventoryService(newMockProductRepo())

		_, err := svc.ChangeStatus(context.Background(), "missing", domain.StatusVendido, "ANA", "", StatusChangeOptions{})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestTransferProduct(t *testing.T) {
	svc := NewInventoryService(newMockProductRepo())
	p := seedOne(t, svc, availableDraft())

	updated, err := svc.TransferProduct(context.Background(), p.ID, domain.UnitEstoque, "VITOR", "")
	require.NoError(t, err)

	assert.Equal(t, domain.UnitEstoque, updated.Unit)
	assert.Equal(t, domain.ActionTransferred, updated.History[0].Action)
	assert.Equal(t, string(domain.UnitCamobi), updated.History[0].Details["oldUnit"])
	assert.Equal(t, string(domain.UnitEstoque), updated.History[0].Details["newUnit"])

	_, err = svc.TransferProduct(context.Background(), p.ID, "Filial Norte", "VITOR", "")
	assert.Error(t, err)
}

func TestDeliveryLifecycle(t *testing.T) {
	svc := NewInventoryService(newMockProductRepo())
	p := seedOne(t, svc, availableDraft())

	// Scheduling before an address exists is refused.
	_, err := svc.ScheduleDelivery(context.Background(), p.ID, time.Now(), "ANA")
	assert.ErrorIs(t, err, ErrNoDeliveryAddress)

	updated, err := svc.SetDeliveryInfo(context.Background(), p.ID, DeliveryDraft{
		Address:        "Rua das Flores 123, Santa Maria",
		ReferencePoint: "ao lado da padaria",
		Type:           domain.DeliveryCasa,
		Floor:          "4",
	}, "ANA")
	require.NoError(t, err)

	require.NotNil(t, updated.Delivery)
	assert.Equal(t, domain.DeliveryPendente, updated.Delivery.Status)
	assert.Empty(t, updated.Delivery.Floor, "floor only applies to apartment deliveries")
	assert.True(t, updated.PendingDelivery())

	when := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	updated, err = svc.ScheduleDelivery(context.Background(), p.ID, when, "ANA")
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryAgendada, updated.Delivery.Status)
	require.NotNil(t, updated.Delivery.ScheduledDate)
	assert.True(t, when.Equal(*updated.Delivery.ScheduledDate))

	updated, err = svc.MarkDelivered(context.Background(), p.ID, "ANA")
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryEntregue, updated.Delivery.Status)
	assert.NotNil(t, updated.Delivery.DeliveredAt)
	assert.False(t, updated.PendingDelivery())

	// Delivered is terminal.
	_, err = svc.ScheduleDelivery(context.Background(), p.ID, when, "ANA")
	assert.ErrorIs(t, err, ErrAlreadyDelivered)
	_, err = svc.MarkDelivered(context.Background(), p.ID, "ANA")
	assert.ErrorIs(t, err, ErrAlreadyDelivered)
}

func TestDeliveryApartmentFields(t *testing.T) {
	svc := NewInventoryService(newMockProductRepo())
	p := seedOne(t, svc, availableDraft())

	updated, err := svc.SetDeliveryInfo(context.Background(), p.ID, DeliveryDraft{
		Address:         "Av. Roraima 1000, Santa Maria",
		Type:            domain.DeliveryApartamento,
		ApartmentNumber: "402",
		Floor:           "4",
		Access:          domain.AccessElevador,
	}, "ANA")
	require.NoError(t, err)

	assert.Equal(t, "402", updated.Delivery.ApartmentNumber)
	assert.Equal(t, "4", updated.Delivery.Floor)
	assert.Equal(t, domain.AccessElevador, updated.Delivery.Access)
}

func TestDeleteProductIsIdempotent(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewInventoryService(repo)
	p := seedOne(t, svc, availableDraft())

	require.NoError(t, svc.DeleteProduct(context.Background(), p.ID, "ANA"))
	assert.Empty(t, repo.products)

	// Deleting again still succeeds.
	assert.NoError(t, svc.DeleteProduct(context.Background(), p.ID, "ANA"))
}

func TestListProducts(t *testing.T) {
	svc := NewInventoryService(newMockProductRepo())

	mesa := seedOne(t, svc, availableDraft())

	sofaDraft := availableDraft()
	sofaDraft.Name = "Sofá Retrátil Cinza"
	sofaDraft.Category = domain.CategorySofa
	sofaDraft.Unit = domain.UnitShoppingPracaNova
	sofaDraft.SofaDetails = &domain.SofaDetails{Size: "2,30m", Fabric: "Suede", Manufacturer: "Artesano", Seats: 4}
	sofa := seedOne(t, svc, sofaDraft)

	price := decimal.NewFromInt(3200)
	_, err := svc.ChangeStatus(context.Background(), sofa.ID, domain.StatusVendido, "LUIZA", "", StatusChangeOptions{SoldPrice: &price})
	require.NoError(t, err)

	t.Run("no filter returns everything", func(t *testing.T) {
		all, err := svc.ListProducts(context.Background(), ListFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("by unit", func(t *testing.T) {
		got, err := svc.ListProducts(context.Background(), ListFilter{Unit: domain.UnitCamobi})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, mesa.ID, got[0].ID)
	})

	t.Run("by status", func(t *testing.T) {
		got, err := svc.ListProducts(context.Background(), ListFilter{Status: domain.StatusVendido})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, sofa.ID, got[0].ID)
	})

	t.Run("by seller", func(t *testing.T) {
		got, err := svc.ListProducts(context.Background(), ListFilter{Seller: "LUIZA"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, sofa.ID, got[0].ID)

		got, err = svc.ListProducts(context.Background(), ListFilter{Seller: "LUCAS"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("text query is case insensitive over name", func(t *testing.T) {
		got, err := svc.ListProducts(context.Background(), ListFilter{Query: "retrátil"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, sofa.ID, got[0].ID)
	})
}

func TestPendingDeliveries(t *testing.T) {
	svc := NewInventoryService(newMockProductRepo())

	mkPending := func(name string, scheduled *time.Time) domain.Product {
		draft := availableDraft()
		draft.Name = name
		p := seedOne(t, svc, draft)
		_, err := svc.SetDeliveryInfo(context.Background(), p.ID, DeliveryDraft{Address: "Rua A, 1"}, "ANA")
		require.NoError(t, err)
		if scheduled != nil {
			_, err = svc.ScheduleDelivery(context.Background(), p.ID, *scheduled, "ANA")
			require.NoError(t, err)
		}
		return p
	}

	early := time.Date(2025, 4, 1, 9, 0, 0, 0, time.Local)
	late := time.Date(2025, 4, 20, 9, 0, 0, 0, time.Local)

	first := mkPending("Mesa A", &early)
	second := mkPending("Mesa B", &late)
	unscheduled := mkPending("Mesa C", nil)

	delivered := mkPending("Mesa D", &early)
	_, err := svc.MarkDelivered(context.Background(), delivered.ID, "ANA")
	require.NoError(t, err)

	t.Run("oldest scheduled first by default", func(t *testing.T) {
		got, err := svc.PendingDeliveries(context.Background(), nil, false)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, first.ID, got[0].ID)
		assert.Equal(t, second.ID, got[1].ID)
		assert.Equal(t, unscheduled.ID, got[2].ID, "unscheduled sorts last")
	})

	t.Run("newest first flips the order", func(t *testing.T) {
		got, err := svc.PendingDeliveries(context.Background(), nil, true)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, second.ID, got[1].ID)
	})

	t.Run("filter by scheduled day", func(t *testing.T) {
		day := time.Date(2025, 4, 1, 23, 0, 0, 0, time.Local)
		got, err := svc.PendingDeliveries(context.Background(), &day, false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, first.ID, got[0].ID)
	})

	t.Run("delivered history lists only completed deliveries", func(t *testing.T) {
		got, err := svc.DeliveredHistory(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, delivered.ID, got[0].ID)
	})
}
