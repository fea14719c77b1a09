// Package book defines the immutable evaluation snapshot the decision
// engine operates on.
//
// An EvaluationRecord is built once per scan from the backend's evaluation
// payload and passed by value into the pure engine functions. Every pricing
// field may be independently absent: the backend's market lookup, buyback
// aggregation, and price estimation run separately and any of them can fail
// without failing the evaluation as a whole.
package book

import "time"

// MarketStats holds eBay marketplace statistics for an ISBN.
type MarketStats struct {
	SoldMedian      *float64 `json:"sold_median,omitempty"`
	SoldMin         *float64 `json:"sold_min,omitempty"`
	SoldMax         *float64 `json:"sold_max,omitempty"`
	ActiveCount     *int     `json:"active_count,omitempty"`
	SoldCount       *int     `json:"sold_count,omitempty"`
	SellThroughRate *float64 `json:"sell_through_rate,omitempty"`
}

// BuybackOffer is the aggregated best buyback quote across vendors,
// plus the Amazon datapoints the aggregator returns alongside it.
type BuybackOffer struct {
	BestPrice         float64  `json:"best_price"`
	BestVendor        string   `json:"best_vendor,omitempty"`
	TotalVendors      int      `json:"total_vendors"`
	AmazonLowestPrice *float64 `json:"amazon_lowest_price,omitempty"`
	AmazonSalesRank   *int     `json:"amazon_sales_rank,omitempty"`
}

// EvaluationRecord is the engine's view of one scanned book.
type EvaluationRecord struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title,omitempty"`

	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	ConfidenceLabel string   `json:"confidence_label,omitempty"`

	// EstimatedSalePrice is the backend's predicted eBay sale price.
	// It is a sale-price prediction, never an acquisition-cost proxy.
	EstimatedSalePrice *float64 `json:"estimated_sale_price,omitempty"`

	Market  *MarketStats  `json:"market,omitempty"`
	Buyback *BuybackOffer `json:"buyback,omitempty"`

	SeriesName  string   `json:"series_name,omitempty"`
	SeriesIndex *float64 `json:"series_index,omitempty"`

	// Justification holds free-text scoring factors from the backend.
	// The engine surfaces them verbatim and never interprets them.
	Justification []string `json:"justification,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Score returns the confidence score, defaulting to 0 when absent.
func (r EvaluationRecord) Score() float64 {
	if r.ConfidenceScore == nil {
		return 0
	}
	return *r.ConfidenceScore
}
