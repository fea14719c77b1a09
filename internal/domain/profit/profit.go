// Package profit computes realizable per-channel net profit for an
// evaluated book.
//
// A channel only appears in the result when it has a usable source price;
// callers must never assume all three channels are present.
package profit

import (
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
	"github.com/ncuskey/lothelper-engine/internal/domain/fees"
)

// Channel is a monetization path for a book.
type Channel string

const (
	ChannelEBay    Channel = "ebay"
	ChannelAmazon  Channel = "amazon"
	ChannelBuyback Channel = "buyback"
)

// DisplayName returns the channel name as shown in verdict reasons.
func (c Channel) DisplayName() string {
	switch c {
	case ChannelEBay:
		return "eBay"
	case ChannelAmazon:
		return "Amazon"
	case ChannelBuyback:
		return "Buyback"
	default:
		return string(c)
	}
}

// ChannelProfit is the per-channel breakdown, recomputed on every decision
// request and never persisted.
type ChannelProfit struct {
	Channel      Channel `json:"channel"`
	GrossRevenue float64 `json:"gross_revenue"`
	Fees         float64 `json:"fees"`
	NetProfit    float64 `json:"net_profit"`
}

// Input carries everything the calculator needs for one evaluation.
type Input struct {
	Record          book.EvaluationRecord
	AcquisitionCost float64

	// CurrentMedianPrice is a live eBay sold-median feed, when the caller
	// has one. It is fresher than the backend estimate and overrides it
	// for the eBay channel only.
	CurrentMedianPrice *float64
}

// Calculator derives channel profits using a fee table.
type Calculator struct {
	Fees fees.Table
}

// NewCalculator returns a calculator over the given fee table.
func NewCalculator(table fees.Table) Calculator {
	return Calculator{Fees: table}
}

// Compute returns the profit breakdown for every channel with a usable
// source price. Absent or non-positive prices drop the channel entirely.
func (c Calculator) Compute(in Input) map[Channel]ChannelProfit {
	out := make(map[Channel]ChannelProfit, 3)

	if gross, ok := ebayGross(in); ok {
		out[ChannelEBay] = c.entry(ChannelEBay, c.Fees.EBay, gross, in.AcquisitionCost)
	}

	if bb := in.Record.Buyback; bb != nil {
		if bb.AmazonLowestPrice != nil && *bb.AmazonLowestPrice > 0 {
			out[ChannelAmazon] = c.entry(ChannelAmazon, c.Fees.Amazon, *bb.AmazonLowestPrice, in.AcquisitionCost)
		}
		if bb.BestPrice > 0 {
			out[ChannelBuyback] = c.entry(ChannelBuyback, c.Fees.Buyback, bb.BestPrice, in.AcquisitionCost)
		}
	}

	return out
}

func (c Calculator) entry(ch Channel, s fees.Schedule, gross, cost float64) ChannelProfit {
	f := s.Fees(gross)
	return ChannelProfit{
		Channel:      ch,
		GrossRevenue: gross,
		Fees:         f,
		NetProfit:    gross - f - cost,
	}
}

func ebayGross(in Input) (float64, bool) {
	if in.CurrentMedianPrice != nil && *in.CurrentMedianPrice > 0 {
		return *in.CurrentMedianPrice, true
	}
	if p := in.Record.EstimatedSalePrice; p != nil && *p > 0 {
		return *p, true
	}
	return 0, false
}

// tiePriority reflects risk: a buyback offer carries no resale or
// fulfillment risk, eBay is the known market, Amazon trails.
var tiePriority = []Channel{ChannelBuyback, ChannelEBay, ChannelAmazon}

// Best picks the channel with the maximum net profit. Ties go to the
// lower-risk channel (buyback > eBay > Amazon). The second return is
// false when no channel is present.
func Best(profits map[Channel]ChannelProfit) (ChannelProfit, bool) {
	var best ChannelProfit
	found := false
	for _, ch := range tiePriority {
		p, ok := profits[ch]
		if !ok {
			continue
		}
		if !found || p.NetProfit > best.NetProfit {
			best = p
			found = true
		}
	}
	return best, found
}
