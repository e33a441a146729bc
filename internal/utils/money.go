package utils

import "math"

// ToMinorUnits converts a major-unit amount (e.g. 19.99) to integer cents.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CartTotalCents sums price*quantity per line in cents, avoiding the
// float drift of summing major units directly.
func CartTotalCents(prices []float64, quantities []int) int64 {
	var total int64
	for i := range prices {
		total += ToMinorUnits(prices[i]) * int64(quantities[i])
	}
	return total
}

// CentsMatch reports whether two cent amounts agree within one cent.
func CentsMatch(a, b int64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 1
}
