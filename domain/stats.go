package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryStats struct {
	Total             int                   `json:"total"`
	Available         int                   `json:"available"`
	Sold              int                   `json:"sold"`
	Ordered           int                   `json:"ordered"`
	Reserved          int                   `json:"reserved"`
	AssistanceCount   int                   `json:"assistance_count"`
	PendingDeliveries int                   `json:"pending_deliveries"`
	ByUnit            map[StoreUnit]int     `json:"by_unit"`
}

type UnitSales struct {
	Unit  StoreUnit       `json:"unit"`
	Total decimal.Decimal `json:"total"`
}

// SalesBucket is one bar of the time-bucketed sales series.
type SalesBucket struct {
	Label string          `json:"label"`
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Total decimal.Decimal `json:"total"`
}

type SellerRank struct {
	Seller string          `json:"seller"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
}
