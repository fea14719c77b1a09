// Package decision turns channel profits, confidence, and series context
// into a BUY / DON'T BUY verdict with a human-readable justification.
//
// The cascade is a strictly ordered rule list: the first rule whose guard
// matches decides. Ordering is load-bearing — a guaranteed buyback floor
// pre-empts every profit threshold because it removes resale risk, and the
// series rules pre-empt the generic thresholds because collection value is
// not visible in the raw profit number. Do not reorder.
package decision

import (
	"fmt"
	"strings"

	"github.com/ncuskey/lothelper-engine/internal/domain/book"
	"github.com/ncuskey/lothelper-engine/internal/domain/profit"
	"github.com/ncuskey/lothelper-engine/internal/domain/series"
)

// Verdict is produced fresh per decision call and never cached: its
// inputs (live prices, user-entered cost) can change between scans of
// the same ISBN.
type Verdict struct {
	ShouldAcquire bool   `json:"should_acquire"`
	Reason        string `json:"reason"`
}

// Input is everything the cascade reads.
type Input struct {
	Record  book.EvaluationRecord
	Profits map[profit.Channel]profit.ChannelProfit
	Series  series.Context
}

const (
	strongProfitFloor      = 10.0
	conditionalProfitFloor = 5.0
	seriesProfitFloor      = 3.0
	nearCompleteFloor      = 1.0
	strategicLossFloor     = -2.0
	nearCompleteHeld       = 3
	fastMovingRankCeiling  = 100000
)

// Decide runs the cascade. Pure function, no side effects.
func Decide(in Input) Verdict {
	score := in.Record.Score()
	best, hasChannels := profit.Best(in.Profits)

	// Rule 1: guaranteed buyback. A vendor's cash offer already clears
	// the acquisition cost, so profit is locked in regardless of resale.
	if bb, ok := in.Profits[profit.ChannelBuyback]; ok && bb.NetProfit > 0 {
		vendor := "vendor"
		if in.Record.Buyback != nil && in.Record.Buyback.BestVendor != "" {
			vendor = in.Record.Buyback.BestVendor
		}
		reason := fmt.Sprintf("Guaranteed $%.2f via %s", bb.NetProfit, vendor)
		if in.Series.IsPartOfSeries {
			reason += " + series"
		}
		return buy(reason)
	}

	held := in.Series.BooksAlreadyHeld

	// Rules 2-4: series completion, strongest guard first.
	if hasChannels {
		if in.Series.IsPartOfSeries && best.NetProfit >= seriesProfitFloor && score >= 50 {
			return buy(fmt.Sprintf("Series (%d books) + $%.2f", held, best.NetProfit))
		}
		if held >= nearCompleteHeld && best.NetProfit >= nearCompleteFloor {
			return buy(fmt.Sprintf("Near-complete (%d books) + $%.2f", held, best.NetProfit))
		}
		if held >= nearCompleteHeld && best.NetProfit >= strategicLossFloor && score >= 60 {
			return buy(fmt.Sprintf("Strategic completion (%d books)", held))
		}
	}

	// Rule 5: strong profit stands on its own.
	if hasChannels && best.NetProfit >= strongProfitFloor {
		return buy(fmt.Sprintf("Strong: $%.2f via %s", best.NetProfit, best.Channel.DisplayName()))
	}

	// Rule 6: conditional profit needs confidence or a fast-moving rank.
	if hasChannels && best.NetProfit >= conditionalProfitFloor {
		if score >= 70 {
			return buy(fmt.Sprintf("Good confidence + $%.2f via %s", best.NetProfit, best.Channel.DisplayName()))
		}
		if rank, ok := amazonRank(in.Record); ok && rank < fastMovingRankCeiling {
			return buy(fmt.Sprintf("Fast-moving + $%.2f via %s", best.NetProfit, best.Channel.DisplayName()))
		}
		return dontBuy(fmt.Sprintf("Only $%.2f - needs higher confidence", best.NetProfit))
	}

	// Rule 7: thin margin only clears with a high-confidence evaluation.
	if hasChannels && best.NetProfit > 0 {
		if isHighLabel(in.Record.ConfidenceLabel) && score >= 80 {
			return buy("High confidence offsets low margin")
		}
		return dontBuy(fmt.Sprintf("Only $%.2f - too thin", best.NetProfit))
	}

	// Rule 8: loss.
	if hasChannels {
		return dontBuy(fmt.Sprintf("Loss: -$%.2f", -best.NetProfit))
	}

	// Rule 9: no pricing data at all.
	if isHighLabel(in.Record.ConfidenceLabel) && score >= 80 {
		return buy("High confidence, verify pricing manually")
	}
	return dontBuy("Insufficient profit margin or confidence")
}

func buy(reason string) Verdict {
	return Verdict{ShouldAcquire: true, Reason: reason}
}

func dontBuy(reason string) Verdict {
	return Verdict{ShouldAcquire: false, Reason: reason}
}

// isHighLabel matches the backend's high-confidence label, whatever its
// casing ("High", "high").
func isHighLabel(label string) bool {
	return strings.Contains(strings.ToLower(label), "high")
}

func amazonRank(rec book.EvaluationRecord) (int, bool) {
	if rec.Buyback == nil || rec.Buyback.AmazonSalesRank == nil {
		return 0, false
	}
	return *rec.Buyback.AmazonSalesRank, true
}
