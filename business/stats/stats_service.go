package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
)

// ProductReader is the read-only slice of the inventory repository the
// dashboards need.
type ProductReader interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
}

type TimeRange string

const (
	RangeDays   TimeRange = "days"   // last 7 days, daily buckets
	RangeWeeks  TimeRange = "weeks"  // last 4 weeks, Monday-start buckets
	RangeMonths TimeRange = "months" // last 12 months
	RangeYears  TimeRange = "years"  // last 5 years
	RangeCustom TimeRange = "custom" // granularity chosen by span
)

type statsService struct {
	productRepo ProductReader
	now         func() time.Time
}

func NewStatsService(productRepo ProductReader) *statsService {
	return &statsService{
		productRepo: productRepo,
		now:         time.Now,
	}
}

// Overview recomputes the aggregate counters from the current catalog on
// every call; there is no caching contract.
func (s *statsService) Overview(ctx context.Context) (domain.InventoryStats, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return domain.InventoryStats{}, err
	}

	stats := domain.InventoryStats{
		Total:  len(products),
		ByUnit: make(map[domain.StoreUnit]int, len(domain.StoreUnits)),
	}
	for _, unit := range domain.StoreUnits {
		stats.ByUnit[unit] = 0
	}

	for _, p := range products {
		switch p.Status {
		case domain.StatusDisponivel:
			stats.Available++
		case domain.StatusVendido:
			stats.Sold++
		case domain.StatusPedido:
			stats.Ordered++
		case domain.StatusReservado:
			stats.Reserved++
		case domain.StatusAssistencia:
			stats.AssistanceCount++
		}

		if p.PendingDelivery() {
			stats.PendingDeliveries++
		}

		stats.ByUnit[p.Unit]++
	}

	return stats, nil
}

// SalesByUnit sums sold prices of sold products grouped over the fixed
// three-unit partition.
func (s *statsService) SalesByUnit(ctx context.Context) ([]domain.UnitSales, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	totals := make(map[domain.StoreUnit]decimal.Decimal, len(domain.StoreUnits))
	for _, unit := range domain.StoreUnits {
		totals[unit] = decimal.Zero
	}

	for _, p := range products {
		if p.Status != domain.StatusVendido || p.Sale == nil || p.Sale.SoldPrice == nil {
			continue
		}
		unit := p.Sale.SoldUnit
		if unit == "" {
			unit = domain.UnitEstoque
		}
		totals[unit] = totals[unit].Add(*p.Sale.SoldPrice)
	}

	out := make([]domain.UnitSales, 0, len(domain.StoreUnits))
	for _, unit := range domain.StoreUnits {
		out = append(out, domain.UnitSales{Unit: unit, Total: totals[unit]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})

	return out, nil
}

// SalesSeries buckets sold products over time relative to now. Custom
// ranges pick granularity by span: up to 31 days daily, up to 366 days
// weekly, monthly beyond that.
func (s *statsService) SalesSeries(ctx context.Context, timeRange TimeRange, customStart, customEnd *time.Time) ([]domain.SalesBucket, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	sold := make([]domain.Product, 0)
	for _, p := range products {
		if p.Status == domain.StatusVendido && p.Sale != nil && p.Sale.SoldPrice != nil {
			sold = append(sold, p)
		}
	}

	now := s.now()

	switch timeRange {
	case RangeDays:
		return dailyBuckets(sold, startOfDay(now).AddDate(0, 0, -6), 7, "Mon 02"), nil
	case RangeWeeks:
		return weeklyBuckets(sold, now, 4), nil
	case RangeMonths:
		return monthlyBuckets(sold, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0), 12), nil
	case RangeYears:
		return yearlyBuckets(sold, now.Year()-4, 5), nil
	case RangeCustom:
		if customStart == nil || customEnd == nil {
			return nil, errors.New("custom range requires start and end dates")
		}
		start := startOfDay(*customStart)
		end := startOfDay(*customEnd).AddDate(0, 0, 1)
		if !end.After(start) {
			return nil, errors.New("custom range end must be after start")
		}
		days := int(end.Sub(start).Hours() / 24)
		switch {
		case days <= 31:
			return dailyBuckets(sold, start, days, "02/01"), nil
		case days <= 366:
			firstMonday := mondayOf(start)
			weeks := (int(end.Sub(firstMonday).Hours()/24) + 6) / 7
			return clampBuckets(weeklyBucketsFrom(sold, firstMonday, weeks), sold, end), nil
		default:
			months := monthsBetween(start, end.AddDate(0, 0, -1))
			return clampBuckets(monthlyBuckets(sold, time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()), months), sold, end), nil
		}
	default:
		return nil, fmt.Errorf("unknown time range %q", timeRange)
	}
}

// SellerRanking sums sold prices per seller over the fixed roster, every
// seller present even with zero sales, descending by total.
func (s *statsService) SellerRanking(ctx context.Context) ([]domain.SellerRank, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	totals := make(map[string]decimal.Decimal, len(domain.SystemUsers))
	counts := make(map[string]int, len(domain.SystemUsers))
	for _, seller := range domain.SystemUsers {
		totals[seller] = decimal.Zero
	}

	for _, p := range products {
		if p.Status != domain.StatusVendido || p.Sale == nil || p.Sale.SoldBy == "" {
			continue
		}
		price := decimal.Zero
		if p.Sale.SoldPrice != nil {
			price = *p.Sale.SoldPrice
		}
		totals[p.Sale.SoldBy] = totals[p.Sale.SoldBy].Add(price)
		counts[p.Sale.SoldBy]++
	}

	ranking := make([]domain.SellerRank, 0, len(domain.SystemUsers))
	for _, seller := range domain.SystemUsers {
		ranking = append(ranking, domain.SellerRank{
			Seller: seller,
			Total:  totals[seller],
			Count:  counts[seller],
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Total.GreaterThan(ranking[j].Total)
	})

	return ranking, nil
}

// SalesHistory lists sold products, most recent sale first, optionally
// filtered by seller, unit and sale date range.
func (s *statsService) SalesHistory(ctx context.Context, seller string, unit domain.StoreUnit, from, to *time.Time) ([]domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	sold := make([]domain.Product, 0)
	for _, p := range products {
		if p.Status != domain.StatusVendido || p.Sale == nil {
			continue
		}
		if seller != "" && p.Sale.SoldBy != seller {
			continue
		}
		if unit != "" && p.Sale.SoldUnit != unit {
			continue
		}
		if from != nil && p.Sale.SoldAt.Before(*from) {
			continue
		}
		if to != nil && p.Sale.SoldAt.After(*to) {
			continue
		}
		sold = append(sold, p)
	}

	sort.SliceStable(sold, func(i, j int) bool {
		return sold[i].Sale.SoldAt.After(sold[j].Sale.SoldAt)
	})

	return sold, nil
}

func sumBetween(sold []domain.Product, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, p := range sold {
		at := p.Sale.SoldAt
		if (at.Equal(start) || at.After(start)) && at.Before(end) {
			total = total.Add(*p.Sale.SoldPrice)
		}
	}
	return total
}

func dailyBuckets(sold []domain.Product, start time.Time, days int, labelFormat string) []domain.SalesBucket {
	buckets := make([]domain.SalesBucket, 0, days)
	for i := 0; i < days; i++ {
		dayStart := start.AddDate(0, 0, i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		buckets = append(buckets, domain.SalesBucket{
			Label: dayStart.Format(labelFormat),
			Start: dayStart,
			End:   dayEnd,
			Total: sumBetween(sold, dayStart, dayEnd),
		})
	}
	return buckets
}

func weeklyBuckets(sold []domain.Product, now time.Time, weeks int) []domain.SalesBucket {
	return weeklyBucketsFrom(sold, mondayOf(startOfDay(now).AddDate(0, 0, -7*(weeks-1))), weeks)
}

func weeklyBucketsFrom(sold []domain.Product, firstMonday time.Time, weeks int) []domain.SalesBucket {
	buckets := make([]domain.SalesBucket, 0, weeks)
	for i := 0; i < weeks; i++ {
		weekStart := firstMonday.AddDate(0, 0, 7*i)
		weekEnd := weekStart.AddDate(0, 0, 7)
		buckets = append(buckets, domain.SalesBucket{
			Label: "Sem " + weekStart.Format("02/01"),
			Start: weekStart,
			End:   weekEnd,
			Total: sumBetween(sold, weekStart, weekEnd),
		})
	}
	return buckets
}

func monthlyBuckets(sold []domain.Product, firstMonth time.Time, months int) []domain.SalesBucket {
	buckets := make([]domain.SalesBucket, 0, months)
	for i := 0; i < months; i++ {
		monthStart := firstMonth.AddDate(0, i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)
		buckets = append(buckets, domain.SalesBucket{
			Label: monthStart.Format("Jan/06"),
			Start: monthStart,
			End:   monthEnd,
			Total: sumBetween(sold, monthStart, monthEnd),
		})
	}
	return buckets
}

func yearlyBuckets(sold []domain.Product, firstYear, years int) []domain.SalesBucket {
	buckets := make([]domain.SalesBucket, 0, years)
	for i := 0; i < years; i++ {
		yearStart := time.Date(firstYear+i, 1, 1, 0, 0, 0, 0, time.Local)
		yearEnd := yearStart.AddDate(1, 0, 0)
		buckets = append(buckets, domain.SalesBucket{
			Label: yearStart.Format("2006"),
			Start: yearStart,
			End:   yearEnd,
			Total: sumBetween(sold, yearStart, yearEnd),
		})
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf returns the Monday of t's week.
func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return startOfDay(t).AddDate(0, 0, 1-weekday)
}

// monthsBetween counts calendar months from start's month through last's
// month, both included.
func monthsBetween(start, last time.Time) int {
	months := (last.Year()-start.Year())*12 + int(last.Month()) - int(start.Month()) + 1
	if months < 1 {
		months = 1
	}
	return months
}

// clampBuckets trims calendar-aligned buckets that overshoot the requested
// range end, so sales past the end never count.
func clampBuckets(buckets []domain.SalesBucket, sold []domain.Product, end time.Time) []domain.SalesBucket {
	for i := range buckets {
		if buckets[i].End.After(end) {
			buckets[i].End = end
			buckets[i].Total = sumBetween(sold, buckets[i].Start, end)
		}
	}
	return buckets
}
