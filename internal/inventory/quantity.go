package inventory

import (
	"encoding/json"
	"math"

	"sweetShop/internal/apperr"
)

var (
	errQuantityRequired = apperr.Validation("Quantity is required")
	errQuantityPositive = apperr.Validation("Quantity must be a positive integer")
	errQuantityNegative = apperr.Validation("Quantity must be a non-negative integer")
	errPriceNegative    = apperr.Validation("Price must be a non-negative number")
)

// ParseQuantity reads a purchase or restock amount from a decoded JSON
// number. It must be present, integral and strictly positive; "5" and "5.0"
// are accepted, 5.5, 0 and -1 are not.
func ParseQuantity(n *json.Number) (int64, error) {
	v, err := parseCount(n)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errQuantityPositive
	}
	return v, nil
}

// ParseStock reads a stock level for create and update, where zero is allowed.
func ParseStock(n *json.Number) (int64, error) {
	v, err := parseCount(n)
	if err == errQuantityPositive {
		return 0, errQuantityNegative
	}
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errQuantityNegative
	}
	return v, nil
}

func parseCount(n *json.Number) (int64, error) {
	if n == nil || *n == "" {
		return 0, errQuantityRequired
	}
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errQuantityPositive
	}
	// float64(math.MaxInt64) rounds up to 2^63, so the bound is exclusive.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, errQuantityPositive
	}
	return int64(f), nil
}

func validQuantity(n int64) error {
	if n <= 0 {
		return errQuantityPositive
	}
	return nil
}

func validPrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return errPriceNegative
	}
	return nil
}
