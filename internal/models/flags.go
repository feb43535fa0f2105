package models

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when a toggle names a column outside the entity's fixed set.
var ErrUnknownField = errors.New("unknown field")

// CategoryFlag is a boolean column of a category that can be flipped.
type CategoryFlag string

const CategoryAvailability CategoryFlag = "availability"

// ParseCategoryFlag accepts only the listed category flags
func ParseCategoryFlag(s string) (CategoryFlag, error) {
	switch f := CategoryFlag(s); f {
	case CategoryAvailability:
		return f, nil
	}
	return "", fmt.Errorf("%w for category: %q", ErrUnknownField, s)
}

// Column returns the backing column name
func (f CategoryFlag) Column() string { return string(f) }

// ProductFlag is a boolean column of a product that can be flipped.
type ProductFlag string

const (
	ProductAvailability ProductFlag = "availability"
	ProductPopular      ProductFlag = "is_popular"
	ProductNew          ProductFlag = "is_new"
)

// ParseProductFlag accepts only the listed product flags
func ParseProductFlag(s string) (ProductFlag, error) {
	switch f := ProductFlag(s); f {
	case ProductAvailability, ProductPopular, ProductNew:
		return f, nil
	}
	return "", fmt.Errorf("%w for product: %q", ErrUnknownField, s)
}

// Column returns the backing column name
func (f ProductFlag) Column() string { return string(f) }

// PaymentFlag is an accepted payment method of a store.
type PaymentFlag string

const (
	PaymentCash PaymentFlag = "cash"
	PaymentCard PaymentFlag = "card"
)

// ParsePaymentFlag accepts only the listed payment methods
func ParsePaymentFlag(s string) (PaymentFlag, error) {
	switch f := PaymentFlag(s); f {
	case PaymentCash, PaymentCard:
		return f, nil
	}
	return "", fmt.Errorf("%w for payment: %q", ErrUnknownField, s)
}

// Column returns the backing column name
func (f PaymentFlag) Column() string { return string(f) }

// StoreFormat is the opening-hours mode of a store. Exactly one format is set at a time,
// so selecting one clears the others; this is a set, not a flip.
type StoreFormat string

const (
	FormatUnified StoreFormat = "format_unified"
	Format247     StoreFormat = "format_24_7"
	FormatCustom  StoreFormat = "format_custom"
)

// StoreFormats lists every format column
var StoreFormats = []StoreFormat{FormatUnified, Format247, FormatCustom}

// ParseStoreFormat accepts only the listed formats
func ParseStoreFormat(s string) (StoreFormat, error) {
	for _, f := range StoreFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w for store info: %q", ErrUnknownField, s)
}

// Column returns the backing column name
func (f StoreFormat) Column() string { return string(f) }
