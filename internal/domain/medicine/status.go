package medicine

import (
	"math"
	"time"
)

type Status string

const (
	StatusInStock    Status = "In Stock"
	StatusLowStock   Status = "Low Stock"
	StatusOutOfStock Status = "Out of Stock"
	StatusNearExpiry Status = "Near Expiry"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock, StatusNearExpiry:
		return true
	}
	return false
}

// NearExpiryDays is the width of the Near Expiry band.
const NearExpiryDays = 30

// ComputeStatus derives the stock status. Branch order matters: stock level
// wins over expiry, and an already expired batch with enough stock still
// reports Near Expiry.
func ComputeStatus(quantity int, expiry time.Time, minStockLevel int, now time.Time) Status {
	switch {
	case quantity == 0:
		return StatusOutOfStock
	case quantity < minStockLevel:
		return StatusLowStock
	case DaysToExpiry(expiry, now) < NearExpiryDays:
		return StatusNearExpiry
	default:
		return StatusInStock
	}
}

// DaysToExpiry is ceil((expiry - now) / 24h).
func DaysToExpiry(expiry, now time.Time) int {
	d := expiry.Sub(now)
	return int(math.Ceil(float64(d) / float64(24*time.Hour)))
}
