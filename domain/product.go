package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusDisponivel  ProductStatus = "Disponível"
	StatusVendido     ProductStatus = "Vendido"
	StatusPedido      ProductStatus = "Pedido"
	StatusReservado   ProductStatus = "Reservado"
	StatusAssistencia ProductStatus = "Assistência"
)

var ProductStatuses = []ProductStatus{
	StatusDisponivel,
	StatusVendido,
	StatusPedido,
	StatusReservado,
	StatusAssistencia,
}

func (s ProductStatus) Valid() bool {
	for _, v := range ProductStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type ProductCategory string

const (
	CategorySofa     ProductCategory = "Sofá"
	CategoryPoltrona ProductCategory = "Poltrona"
	CategoryCadeira  ProductCategory = "Cadeira"
	CategoryBanqueta ProductCategory = "Banqueta"
	CategoryMesa     ProductCategory = "Mesa"
	CategoryOutros   ProductCategory = "Outros"
)

var ProductCategories = []ProductCategory{
	CategorySofa,
	CategoryPoltrona,
	CategoryCadeira,
	CategoryBanqueta,
	CategoryMesa,
	CategoryOutros,
}

func (c ProductCategory) Valid() bool {
	for _, v := range ProductCategories {
		if c == v {
			return true
		}
	}
	return false
}

type StoreUnit string

const (
	UnitShoppingPracaNova StoreUnit = "Shopping Praça Nova"
	UnitCamobi            StoreUnit = "Camobi"
	UnitEstoque           StoreUnit = "Estoque"
)

var StoreUnits = []StoreUnit{
	UnitShoppingPracaNova,
	UnitCamobi,
	UnitEstoque,
}

func (u StoreUnit) Valid() bool {
	for _, v := range StoreUnits {
		if u == v {
			return true
		}
	}
	return false
}

type DeliveryStatus string

const (
	DeliveryPendente DeliveryStatus = "Pendente"
	DeliveryAgendada DeliveryStatus = "Agendada"
	DeliveryEmRota   DeliveryStatus = "Em Rota" // kept for old records, no operation produces it anymore
	DeliveryEntregue DeliveryStatus = "Entregue"
)

type DeliveryType string

const (
	DeliveryCasa        DeliveryType = "Casa"
	DeliveryApartamento DeliveryType = "Apartamento"
)

type DeliveryAccess string

const (
	AccessEscada   DeliveryAccess = "Escada"
	AccessElevador DeliveryAccess = "Elevador"
)

var Manufacturers = []string{
	"DallaCosta",
	"Artesano",
	"Mobly",
	"Muma",
	"Oppa",
	"Westwing",
}

type HistoryAction string

const (
	ActionCreated          HistoryAction = "CREATED"
	ActionStatusChanged    HistoryAction = "STATUS_CHANGED"
	ActionTransferred      HistoryAction = "TRANSFERRED"
	ActionUpdated          HistoryAction = "UPDATED"
	ActionDeleted          HistoryAction = "DELETED"
	ActionDeliveryInfoSet  HistoryAction = "DELIVERY_INFO_SET"
	ActionAssistanceOpened HistoryAction = "ASSISTANCE_OPENED"
)

// HistoryEntry is an immutable audit record. Entries are prepended to the
// product history and never edited, so the slice reads newest first.
type HistoryEntry struct {
	ID        string            `json:"id"`
	Action    HistoryAction     `json:"action"`
	User      string            `json:"user"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details"`
}

// SofaDetails must be present iff the product category is Sofá.
type SofaDetails struct {
	Size         string `json:"size"`
	Fabric       string `json:"fabric"`
	Manufacturer string `json:"manufacturer"`
	Seats        int    `json:"seats"`
}

type OrderDetails struct {
	OrderID          string          `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	OrderedDate      time.Time       `json:"ordered_date"`
	ExpectedDelivery *time.Time      `json:"expected_delivery,omitempty"`
	Supplier         string          `json:"supplier,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

type AssistanceInfo struct {
	Motivo      string    `json:"motivo"`
	DataContato string    `json:"data_contato"`
	Cliente     string    `json:"cliente"`
	AbertoEm    time.Time `json:"aberto_em"`
}

type DeliveryInfo struct {
	Address         string         `json:"address"`
	ReferencePoint  string         `json:"reference_point,omitempty"`
	Type            DeliveryType   `json:"type,omitempty"`
	ApartmentNumber string         `json:"apartment_number,omitempty"`
	Floor           string         `json:"floor,omitempty"`
	Access          DeliveryAccess `json:"access,omitempty"`
	Status          DeliveryStatus `json:"status"`
	ScheduledDate   *time.Time     `json:"scheduled_date,omitempty"`
	DeliveredAt     *time.Time     `json:"delivered_at,omitempty"`
}

type SaleInfo struct {
	SoldBy    string           `json:"sold_by"`
	SoldAt    time.Time        `json:"sold_at"`
	SoldUnit  StoreUnit        `json:"sold_unit"`
	SoldPrice *decimal.Decimal `json:"sold_price,omitempty"`
}

type ReservationInfo struct {
	ReservedBy string    `json:"reserved_by"`
	ReservedAt time.Time `json:"reserved_at"`
}

type Product struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	NoteID       string          `json:"note_id,omitempty"` // groups items from the same intake note
	Name         string          `json:"name"`
	Category     ProductCategory `json:"category"`
	Color        string          `json:"color"`
	Manufacturer string          `json:"manufacturer"`
	Description  string          `json:"description,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	Unit         StoreUnit       `json:"unit"`
	Status       ProductStatus   `json:"status"`

	SofaDetails *SofaDetails     `json:"sofa_details,omitempty"`
	Sale        *SaleInfo        `json:"sale,omitempty"`
	Reservation *ReservationInfo `json:"reservation,omitempty"`
	Order       *OrderDetails    `json:"order_details,omitempty"`
	Delivery    *DeliveryInfo    `json:"delivery,omitempty"`
	Assistance  *AssistanceInfo  `json:"assistance,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	CreatedBy string         `json:"created_by"`
	UpdatedAt time.Time      `json:"updated_at"`
	History   []HistoryEntry `json:"history"`
}

// PendingDelivery reports whether the product has a delivery address
// registered and has not been handed to the client yet.
func (p Product) PendingDelivery() bool {
	return p.Delivery != nil && p.Delivery.Address != "" && p.Delivery.Status != DeliveryEntregue
}
