package forecast

// NoStockout marks an item whose sales velocity is zero: it never runs out on
// the current trajectory.
const NoStockout = -1

// DaysUntilStockout projects when current stock depletes at the average daily
// sales rate. Returns 0 for items already at or below zero stock and
// NoStockout when there is no measurable velocity.
func DaysUntilStockout(currentStock int, avgDailySales float64) float64 {
	if currentStock <= 0 {
		return 0
	}
	if avgDailySales <= 0 {
		return NoStockout
	}

	return float64(currentStock) / avgDailySales
}
