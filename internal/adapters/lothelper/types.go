package lothelper

// Wire types for the evaluation backend's JSON payloads. Field names
// follow the backend exactly; mapping.go converts them to domain types.

type metadataPayload struct {
	Title       string   `json:"title,omitempty"`
	SeriesName  string   `json:"series_name,omitempty"`
	SeriesIndex *float64 `json:"series_index,omitempty"`
}

type marketPayload struct {
	ActiveCount       *int     `json:"active_count,omitempty"`
	SoldCount         *int     `json:"sold_count,omitempty"`
	SoldAvgPrice      *float64 `json:"sold_avg_price,omitempty"`
	SoldMedianPrice   *float64 `json:"sold_median_price,omitempty"`
	SellThroughRate   *float64 `json:"sell_through_rate,omitempty"`
	ActiveAvgPrice    *float64 `json:"active_avg_price,omitempty"`
	ActiveMedianPrice *float64 `json:"active_median_price,omitempty"`
}

type bookscouterPayload struct {
	BestPrice         float64  `json:"best_price"`
	BestVendor        string   `json:"best_vendor,omitempty"`
	TotalVendors      int      `json:"total_vendors"`
	AmazonSalesRank   *int     `json:"amazon_sales_rank,omitempty"`
	AmazonLowestPrice *float64 `json:"amazon_lowest_price,omitempty"`
}

type evaluationPayload struct {
	ISBN             string              `json:"isbn"`
	EstimatedPrice   *float64            `json:"estimated_price,omitempty"`
	ProbabilityScore *float64            `json:"probability_score,omitempty"`
	ProbabilityLabel string              `json:"probability_label,omitempty"`
	Justification    []string            `json:"justification,omitempty"`
	Metadata         *metadataPayload    `json:"metadata,omitempty"`
	Market           *marketPayload      `json:"market,omitempty"`
	Bookscouter      *bookscouterPayload `json:"bookscouter,omitempty"`
	UpdatedAt        string              `json:"updated_at,omitempty"`
}

type scanRequest struct {
	ISBN      string `json:"isbn"`
	Condition string `json:"condition,omitempty"`
	Edition   string `json:"edition,omitempty"`
}

type errorPayload struct {
	Detail string `json:"detail,omitempty"`
}
