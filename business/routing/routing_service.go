package routing

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
	"lojaConforto/pkg/metrics"
)

// ProductReader contract interface
type ProductReader interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

type Geocoder interface {
	Search(ctx context.Context, address string) (domain.GeocodeResult, error)
}

type RouteFinder interface {
	DrivingRoute(ctx context.Context, from, to domain.Coordinates) (domain.DrivingRoute, error)
}

var ErrNoDeliveryAddress = errors.New("product has no delivery address")

// unitAddresses resolve a store unit to a geocodable search string. All
// three units sit in Santa Maria, RS.
var unitAddresses = map[domain.StoreUnit]string{
	domain.UnitShoppingPracaNova: "Shopping Praça Nova, Santa Maria, RS, Brasil",
	domain.UnitCamobi:            "Camobi, Santa Maria, RS, Brasil",
	domain.UnitEstoque:           "Santa Maria, RS, Brasil",
}

type routingService struct {
	productRepo ProductReader
	geocoder    Geocoder
	routeFinder RouteFinder
}

func NewRoutingService(productRepo ProductReader, geocoder Geocoder, routeFinder RouteFinder) *routingService {
	return &routingService{
		productRepo: productRepo,
		geocoder:    geocoder,
		routeFinder: routeFinder,
	}
}

// PlanRoute geocodes the origin (explicit address, or the product's unit
// when empty) and the delivery address, then asks the router for a
// driving route. Best effort, no retries: any upstream failure is
// surfaced to the caller.
func (s *routingService) PlanRoute(ctx context.Context, productID, origin string) (domain.RoutePlan, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when planning route")
		return domain.RoutePlan{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		logger.Error("product not found for route planning", err)
		return domain.RoutePlan{}, err
	}

	if product.Delivery == nil || product.Delivery.Address == "" {
		return domain.RoutePlan{}, ErrNoDeliveryAddress
	}

	if origin == "" {
		origin = unitAddresses[product.Unit]
	}

	originResult, err := s.geocoder.Search(ctx, origin)
	if err != nil {
		logger.Error("Failed to geocode origin", err)
		metrics.RoutingLookups.WithLabelValues("geocode_error").Inc()
		return domain.RoutePlan{}, fmt.Errorf("failed to geocode origin: %w", err)
	}

	destination := product.Delivery.Address
	if product.Delivery.ReferencePoint != "" {
		destination = destination + ", " + product.Delivery.ReferencePoint
	}

	destResult, err := s.geocoder.Search(ctx, destination)
	if err != nil {
		// Retry without the reference point, it often confuses the geocoder.
		if product.Delivery.ReferencePoint != "" {
			destResult, err = s.geocoder.Search(ctx, product.Delivery.Address)
		}
		if err != nil {
			logger.Error("Failed to geocode delivery address", err)
			metrics.RoutingLookups.WithLabelValues("geocode_error").Inc()
			return domain.RoutePlan{}, fmt.Errorf("failed to geocode delivery address: %w", err)
		}
	}

	route, err := s.routeFinder.DrivingRoute(ctx, originResult.Coordinates, destResult.Coordinates)
	if err != nil {
		logger.Error("Failed to fetch driving route", err)
		metrics.RoutingLookups.WithLabelValues("route_error").Inc()
		return domain.RoutePlan{}, fmt.Errorf("failed to fetch driving route: %w", err)
	}

	metrics.RoutingLookups.WithLabelValues("ok").Inc()

	return domain.RoutePlan{
		Origin:      originResult,
		Destination: destResult,
		Route:       route,
		MapsLink: fmt.Sprintf(
			"https://www.google.com/maps/dir/?api=1&origin=%f,%f&destination=%f,%f&travelmode=driving",
			originResult.Lat, originResult.Lng, destResult.Lat, destResult.Lng),
		EmbedURL: fmt.Sprintf(
			"https://www.google.com/maps?q=%s&output=embed",
			url.QueryEscape(product.Delivery.Address)),
	}, nil
}
