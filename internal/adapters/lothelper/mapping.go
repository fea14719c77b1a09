package lothelper

import (
	"time"

	"github.com/ncuskey/lothelper-engine/internal/domain/book"
)

// toEvaluationRecord maps the backend payload to the engine's snapshot.
// Every section is optional; absent sections map to nil, never to zero
// values that could be mistaken for real prices.
func toEvaluationRecord(p evaluationPayload) book.EvaluationRecord {
	rec := book.EvaluationRecord{
		ISBN:               book.NormalizeISBN(p.ISBN),
		ConfidenceScore:    p.ProbabilityScore,
		ConfidenceLabel:    p.ProbabilityLabel,
		EstimatedSalePrice: p.EstimatedPrice,
		Justification:      p.Justification,
	}

	if rec.ISBN == "" {
		rec.ISBN = p.ISBN
	}

	if m := p.Metadata; m != nil {
		rec.Title = m.Title
		rec.SeriesName = m.SeriesName
		rec.SeriesIndex = m.SeriesIndex
	}

	if m := p.Market; m != nil {
		median := m.SoldMedianPrice
		if median == nil {
			// Older backend revisions only report the average.
			median = m.SoldAvgPrice
		}
		rec.Market = &book.MarketStats{
			SoldMedian:      median,
			ActiveCount:     m.ActiveCount,
			SoldCount:       m.SoldCount,
			SellThroughRate: m.SellThroughRate,
		}
	}

	if bs := p.Bookscouter; bs != nil {
		rec.Buyback = &book.BuybackOffer{
			BestPrice:         bs.BestPrice,
			BestVendor:        bs.BestVendor,
			TotalVendors:      bs.TotalVendors,
			AmazonLowestPrice: bs.AmazonLowestPrice,
			AmazonSalesRank:   bs.AmazonSalesRank,
		}
	}

	if p.UpdatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, p.UpdatedAt); err == nil {
			rec.UpdatedAt = ts
		}
	}

	return rec
}
