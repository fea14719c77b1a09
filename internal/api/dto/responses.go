package dto

import (
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
	"github.com/ncuskey/lothelper-engine/internal/domain/profit"
	"github.com/ncuskey/lothelper-engine/internal/domain/series"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NewHealthResponse creates a healthy response.
func NewHealthResponse() HealthResponse {
	return HealthResponse{Status: "ok", Service: "lothelper-engine"}
}

// MessageResponse wraps a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// DuplicateResponse reports whether a book is already in inventory.
type DuplicateResponse struct {
	ISBN              string  `json:"isbn"`
	IsDuplicate       bool    `json:"is_duplicate"`
	PreviouslyAddedAt *string `json:"previously_added_at,omitempty"`
}

// ChannelProfitResponse is the per-channel profit breakdown.
type ChannelProfitResponse struct {
	Channel      string  `json:"channel"`
	GrossRevenue float64 `json:"gross_revenue"`
	Fees         float64 `json:"fees"`
	NetProfit    float64 `json:"net_profit"`
}

// VerdictResponse is the cascade outcome.
type VerdictResponse struct {
	ShouldAcquire bool   `json:"should_acquire"`
	Reason        string `json:"reason"`
}

// OutcomeResponse is the full decision bundle for a resolved scan.
type OutcomeResponse struct {
	Evaluation book.EvaluationRecord   `json:"evaluation"`
	Profits    []ChannelProfitResponse `json:"profits"`
	Verdict    VerdictResponse         `json:"verdict"`
	Series     series.Context          `json:"series"`
}

// ScanSessionResponse is the state of one scan session.
type ScanSessionResponse struct {
	SessionID   string            `json:"session_id"`
	ISBN        string            `json:"isbn"`
	Status      string            `json:"status"`
	Duplicate   DuplicateResponse `json:"duplicate"`
	StartedAt   string            `json:"started_at"`
	CompletedAt *string           `json:"completed_at,omitempty"`
	Outcome     *OutcomeResponse  `json:"outcome,omitempty"`
	Error       *string           `json:"error,omitempty"`
}

// ToChannelProfits flattens a profit map into a stable-ordered slice.
func ToChannelProfits(profits map[profit.Channel]profit.ChannelProfit) []ChannelProfitResponse {
	out := make([]ChannelProfitResponse, 0, len(profits))
	for _, ch := range []profit.Channel{profit.ChannelEBay, profit.ChannelAmazon, profit.ChannelBuyback} {
		p, ok := profits[ch]
		if !ok {
			continue
		}
		out = append(out, ChannelProfitResponse{
			Channel:      string(p.Channel),
			GrossRevenue: p.GrossRevenue,
			Fees:         p.Fees,
			NetProfit:    p.NetProfit,
		})
	}
	return out
}
