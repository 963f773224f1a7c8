package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSKU    = errors.New("sku already exists")
	ErrUserNotFound    = errors.New("user not found")
)
