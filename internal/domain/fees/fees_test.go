package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedule_Fees(t *testing.T) {
	table := DefaultTable()

	t.Run("ebay schedule", func(t *testing.T) {
		// $20 sale: 20*0.1325 + 0.30 = 2.95
		assert.InDelta(t, 2.95, table.EBay.Fees(20), 1e-9)
		assert.InDelta(t, 17.05, table.EBay.NetProceeds(20), 1e-9)
	})

	t.Run("amazon schedule", func(t *testing.T) {
		// $10 sale: 10*0.15 + 1.80 = 3.30
		assert.InDelta(t, 3.30, table.Amazon.Fees(10), 1e-9)
		assert.InDelta(t, 6.70, table.Amazon.NetProceeds(10), 1e-9)
	})

	t.Run("buyback is free", func(t *testing.T) {
		assert.Equal(t, 0.0, table.Buyback.Fees(12.50))
		assert.Equal(t, 12.50, table.Buyback.NetProceeds(12.50))
	})

	t.Run("zero price loses the flat fee", func(t *testing.T) {
		assert.InDelta(t, -0.30, table.EBay.NetProceeds(0), 1e-9)
		assert.InDelta(t, -1.80, table.Amazon.NetProceeds(0), 1e-9)
	})
}

func TestSchedule_NetProceedsMonotonic(t *testing.T) {
	// Fee rates are in [0,1), so a higher sale price can never net less.
	table := DefaultTable()
	schedules := map[string]Schedule{
		"ebay":    table.EBay,
		"amazon":  table.Amazon,
		"buyback": table.Buyback,
	}

	for name, s := range schedules {
		t.Run(name, func(t *testing.T) {
			prev := s.NetProceeds(0)
			for gross := 0.50; gross <= 200; gross += 0.50 {
				net := s.NetProceeds(gross)
				assert.GreaterOrEqual(t, net, prev, "gross %.2f", gross)
				prev = net
			}
		})
	}
}
