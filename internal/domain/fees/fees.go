// Package fees models the marketplace fee schedules used to turn a gross
// sale price into net proceeds.
//
// Schedules are plain data so tests and config can swap them without
// touching the decision logic.
package fees

// Schedule is one channel's fee structure: a percentage of the sale price
// plus a flat per-transaction fee.
type Schedule struct {
	Rate float64 `yaml:"rate"`
	Flat float64 `yaml:"flat"`
}

// Fees returns the total fees charged on the given gross revenue.
func (s Schedule) Fees(grossRevenue float64) float64 {
	return grossRevenue*s.Rate + s.Flat
}

// NetProceeds returns gross revenue minus fees. A gross of 0 yields
// -Flat; callers decide what to do with negative proceeds.
func (s Schedule) NetProceeds(grossRevenue float64) float64 {
	return grossRevenue - s.Fees(grossRevenue)
}

// Table holds the schedule for every monetization channel.
type Table struct {
	EBay    Schedule `yaml:"ebay"`
	Amazon  Schedule `yaml:"amazon"`
	Buyback Schedule `yaml:"buyback"`
}

// DefaultTable returns the current production fee schedules.
//   - eBay: 13.25% final value fee + $0.30 transaction fee. Buyer pays
//     shipping, so nothing else comes out.
//   - Amazon: 15% referral fee + $1.80 closing fee, seller-fulfilled.
//   - Buyback: vendors pay shipping and handling, so zero.
func DefaultTable() Table {
	return Table{
		EBay:    Schedule{Rate: 0.1325, Flat: 0.30},
		Amazon:  Schedule{Rate: 0.15, Flat: 1.80},
		Buyback: Schedule{},
	}
}
