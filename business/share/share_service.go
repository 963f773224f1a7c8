package share

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pobyzaarif/goshortcute"

	"lojaConforto/domain"
	"lojaConforto/pkg/logger"
)

// ProductReader contract interface
type ProductReader interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

var ErrInvalidCode = errors.New("invalid or expired share code")

// shareService issues short-lived opaque codes that let a driver open a
// delivery sheet without logging in. The code is the AES-CBC encrypted
// pair "productID|expiry", base64 encoded.
type shareService struct {
	productRepo ProductReader
	codeKey     string
	ttl         time.Duration
}

func NewShareService(productRepo ProductReader, codeKey string, ttlMinutes int) *shareService {
	return &shareService{
		productRepo: productRepo,
		codeKey:     codeKey,
		ttl:         time.Duration(ttlMinutes) * time.Minute,
	}
}

func (s *shareService) CreateCode(ctx context.Context, productID string) (string, error) {
	if s.codeKey == "" {
		return "", errors.New("share codes are not configured")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		logger.Error("product not found for share code", err)
		return "", err
	}

	if product.Delivery == nil || product.Delivery.Address == "" {
		return "", errors.New("product has no delivery address")
	}

	expAt := time.Now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%v|%v", product.ID, expAt)

	encrypted, err := goshortcute.AESCBCEncrypt([]byte(payload), []byte(s.codeKey))
	if err != nil {
		logger.Error("Failed to encrypt share code", err)
		return "", errors.New("failed to create share code")
	}

	return goshortcute.StringtoBase64Encode(encrypted), nil
}

func (s *shareService) ResolveCode(ctx context.Context, code string) (domain.Product, error) {
	if s.codeKey == "" {
		return domain.Product{}, errors.New("share codes are not configured")
	}

	decoded := goshortcute.StringtoBase64Decode(code)
	decrypted, err := goshortcute.AESCBCDecrypt([]byte(decoded), []byte(s.codeKey))
	if err != nil {
		logger.Error("Failed to decrypt share code", err)
		return domain.Product{}, ErrInvalidCode
	}

	parts := strings.Split(decrypted, "|")
	if len(parts) != 2 {
		return domain.Product{}, ErrInvalidCode
	}

	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.Product{}, ErrInvalidCode
	}
	if time.Now().After(time.Unix(ts, 0)) {
		return domain.Product{}, ErrInvalidCode
	}

	product, err := s.productRepo.FindByID(ctx, parts[0])
	if err != nil {
		return domain.Product{}, ErrInvalidCode
	}

	return product, nil
}
