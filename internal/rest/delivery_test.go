package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lojaConforto/business/share"
	"lojaConforto/domain"
)

type mockDeliveryLister struct {
	pending     []domain.Product
	delivered   []domain.Product
	err         error
	scheduledOn *time.Time
	newestFirst bool
}

func (m *mockDeliveryLister) PendingDeliveries(_ context.Context, scheduledOn *time.Time, newestFirst bool) ([]domain.Product, error) {
	m.scheduledOn = scheduledOn
	m.newestFirst = newestFirst
	return m.pending, m.err
}

func (m *mockDeliveryLister) DeliveredHistory(_ context.Context) ([]domain.Product, error) {
	return m.delivered, m.err
}

type mockRoutingService struct {
	plan domain.RoutePlan
	err  error
}

func (m *mockRoutingService) PlanRoute(_ context.Context, _, _ string) (domain.RoutePlan, error) {
	return m.plan, m.err
}

type mockShareService struct {
	code    string
	product domain.Product
	err     error
}

func (m *mockShareService) CreateCode(_ context.Context, _ string) (string, error) {
	return m.code, m.err
}

func (m *mockShareService) ResolveCode(_ context.Context, _ string) (domain.Product, error) {
	return m.product, m.err
}

func newDeliveryContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListDeliveriesHandler(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		lister := &mockDeliveryLister{pending: []domain.Product{{ID: "p1"}}}
		h := NewDeliveryHandler(lister, &mockRoutingService{}, &mockShareService{})

		c, rec := newDeliveryContext("/api/v1/deliveries?date=2025-04-01&sort=desc")
		require.NoError(t, h.ListDeliveries(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, lister.scheduledOn)
		assert.Equal(t, 2025, lister.scheduledOn.Year())
		assert.True(t, lister.newestFirst)
	})

	t.Run("bad date filter", func(t *testing.T) {
		h := NewDeliveryHandler(&mockDeliveryLister{}, &mockRoutingService{}, &mockShareService{})

		c, rec := newDeliveryContext("/api/v1/deliveries?date=tomorrow")
		require.NoError(t, h.ListDeliveries(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPlanRouteHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := NewDeliveryHandler(&mockDeliveryLister{}, &mockRoutingService{
			plan: domain.RoutePlan{MapsLink: "https://www.google.com/maps/dir/..."},
		}, &mockShareService{})

		c, rec := newDeliveryContext("/api/v1/deliveries/p1/route")
		c.SetParamNames("id")
		c.SetParamValues("p1")

		require.NoError(t, h.PlanRoute(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "maps")
	})

	t.Run("upstream failure is a bad gateway", func(t *testing.T) {
		h := NewDeliveryHandler(&mockDeliveryLister{}, &mockRoutingService{err: assert.AnError}, &mockShareService{})

		c, rec := newDeliveryContext("/api/v1/deliveries/p1/route")
		c.SetParamNames("id")
		c.SetParamValues("p1")

		require.NoError(t, h.PlanRoute(c))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing product", func(t *testing.T) {
		h := NewDeliveryHandler(&mockDeliveryLister{}, &mockRoutingService{err: domain.ErrProductNotFound}, &mockShareService{})

		c, rec := newDeliveryContext("/api/v1/deliveries/nope/route")
		c.SetParamNames("id")
		c.SetParamValues("nope")

		require.NoError(t, h.PlanRoute(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestShareCodeHandlers(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		h := NewDeliveryHandler(&mockDeliveryLister{}, &mockRoutingService{}, &mockShareService{code: "opaque-code"})

		c, rec := newDeliveryContext("/api/v1/deliveries/p1/share")
		c.SetParamNames("id")
		c.SetParamValues("p1")

		require.NoError(t, h.CreateShareCode(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "opaque-code")
		assert.Contains(t, rec.Body.String(), `"code":"OK"`)
	})

	t.Run("resolve", func(t *testing.T) {
		h := NewDeliveryHandler(&mockDeliveryLister{}, &mockRoutingService{}, &mockShareService{
			product: domain.Product{ID: "p1", Name: "Mesa Rio"},
		})

		c, rec := newDeliveryContext("/api/v1/public/deliveries/abc")
		c.SetParamNames("code")
		c.SetParamValues("abc")

		require.NoError(t, h.ResolveShareCode(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Mesa Rio")
	})

	t.Run("invalid code is not found", func(t *testing.T) {
		h := NewDeliveryHandler(&mockDeliveryLister{}, &mockRoutingService{}, &mockShareService{err: share.ErrInvalidCode})

		c, rec := newDeliveryContext("/api/v1/public/deliveries/expired")
		c.SetParamNames("code")
		c.SetParamValues("expired")

		require.NoError(t, h.ResolveShareCode(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
