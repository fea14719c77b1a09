package dto

// StartScanRequest begins a scan session for a barcode.
type StartScanRequest struct {
	ISBN      string `json:"isbn"`
	Condition string `json:"condition,omitempty"`
	Edition   string `json:"edition,omitempty"`

	// AcquisitionCost falls back to the server's configured default
	// when omitted; an explicit 0 means a free book.
	AcquisitionCost    *float64 `json:"acquisition_cost,omitempty"`
	CurrentMedianPrice *float64 `json:"current_median_price,omitempty"`
}

// ResolveScanRequest records the user's accept/reject choice.
type ResolveScanRequest struct {
	Accepted bool   `json:"accepted"`
	Location string `json:"location,omitempty"`
}

// DecisionRequest runs the profit calculator and decision cascade over a
// caller-supplied evaluation, without submitting a new scan. The client
// uses it to re-run the verdict after editing the acquisition cost.
type DecisionRequest struct {
	Evaluation         EvaluationPayload `json:"evaluation"`
	AcquisitionCost    float64           `json:"acquisition_cost"`
	CurrentMedianPrice *float64          `json:"current_median_price,omitempty"`
}

// EvaluationPayload is the evaluation snapshot as the client holds it.
type EvaluationPayload struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title,omitempty"`

	ConfidenceScore    *float64 `json:"confidence_score,omitempty"`
	ConfidenceLabel    string   `json:"confidence_label,omitempty"`
	EstimatedSalePrice *float64 `json:"estimated_sale_price,omitempty"`

	Market  *MarketPayload  `json:"market,omitempty"`
	Buyback *BuybackPayload `json:"buyback,omitempty"`

	SeriesName  string   `json:"series_name,omitempty"`
	SeriesIndex *float64 `json:"series_index,omitempty"`

	Justification []string `json:"justification,omitempty"`
}

// MarketPayload carries eBay marketplace statistics.
type MarketPayload struct {
	SoldMedian      *float64 `json:"sold_median,omitempty"`
	SoldMin         *float64 `json:"sold_min,omitempty"`
	SoldMax         *float64 `json:"sold_max,omitempty"`
	ActiveCount     *int     `json:"active_count,omitempty"`
	SoldCount       *int     `json:"sold_count,omitempty"`
	SellThroughRate *float64 `json:"sell_through_rate,omitempty"`
}

// BuybackPayload carries the aggregated buyback quote.
type BuybackPayload struct {
	BestPrice         float64  `json:"best_price"`
	BestVendor        string   `json:"best_vendor,omitempty"`
	TotalVendors      int      `json:"total_vendors"`
	AmazonLowestPrice *float64 `json:"amazon_lowest_price,omitempty"`
	AmazonSalesRank   *int     `json:"amazon_sales_rank,omitempty"`
}
