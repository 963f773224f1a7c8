package share

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lojaConforto/domain"
)

const testCodeKey = "0123456789abcdef0123456789abcdef"

type stubProductReader struct {
	product domain.Product
	err     error
}

func (s *stubProductReader) FindByID(_ context.Context, _ string) (domain.Product, error) {
	return s.product, s.err
}

func deliverable() domain.Product {
	return domain.Product{
		ID:     "prod-1",
		Name:   "Mesa de Jantar",
		Status: domain.StatusVendido,
		Delivery: &domain.DeliveryInfo{
			Address: "Rua das Flores 123, Santa Maria",
			Status:  domain.DeliveryAgendada,
		},
	}
}

func TestShareCodeRoundTrip(t *testing.T) {
	svc := NewShareService(&stubProductReader{product: deliverable()}, testCodeKey, 60)

	code, err := svc.CreateCode(context.Background(), "prod-1")
	require.NoError(t, err)
	require.NotEmpty(t, code)
	assert.NotContains(t, code, "prod-1", "code must be opaque")

	product, err := svc.ResolveCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
}

func TestCreateCodeRequiresDeliveryAddress(t *testing.T) {
	p := deliverable()
	p.Delivery = nil
	svc := NewShareService(&stubProductReader{product: p}, testCodeKey, 60)

	_, err := svc.CreateCode(context.Background(), "prod-1")
	assert.Error(t, err)
}

func TestCreateCodeMissingProduct(t *testing.T) {
	svc := NewShareService(&stubProductReader{err: domain.ErrProductNotFound}, testCodeKey, 60)

	_, err := svc.CreateCode(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestResolveCodeRejectsGarbage(t *testing.T) {
	svc := NewShareService(&stubProductReader{product: deliverable()}, testCodeKey, 60)

	_, err := svc.ResolveCode(context.Background(), "not-a-real-code")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestResolveCodeExpired(t *testing.T) {
	reader := &stubProductReader{product: deliverable()}
	expired := NewShareService(reader, testCodeKey, -1)

	code, err := expired.CreateCode(context.Background(), "prod-1")
	require.NoError(t, err)

	_, err = expired.ResolveCode(context.Background(), code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestShareCodesNeedConfiguredKey(t *testing.T) {
	svc := NewShareService(&stubProductReader{product: deliverable()}, "", 60)

	_, err := svc.CreateCode(context.Background(), "prod-1")
	assert.Error(t, err)

	_, err = svc.ResolveCode(context.Background(), "anything")
	assert.Error(t, err)
}
