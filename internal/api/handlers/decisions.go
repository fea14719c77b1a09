package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ncuskey/lothelper-engine/internal/api/dto"
	"github.com/ncuskey/lothelper-engine/internal/application/scan"
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
)

// DecisionsHandler re-runs the decision cascade over an evaluation the
// client already holds, typically after the user edits the cost.
type DecisionsHandler struct {
	*Base
	scans *scan.Service
}

// NewDecisionsHandler creates a new decisions handler.
func NewDecisionsHandler(scans *scan.Service) *DecisionsHandler {
	return &DecisionsHandler{
		Base:  &Base{},
		scans: scans,
	}
}

// Create handles POST /api/decisions.
func (h *DecisionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}
	if req.Evaluation.ISBN == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("evaluation.isbn is required"))
		return
	}

	rec := toEvaluationRecord(req.Evaluation)
	outcome := h.scans.Evaluate(r.Context(), rec, req.AcquisitionCost, req.CurrentMedianPrice)

	h.WriteJSON(w, http.StatusOK, dto.OutcomeResponse{
		Evaluation: outcome.Record,
		Profits:    dto.ToChannelProfits(outcome.Profits),
		Verdict: dto.VerdictResponse{
			ShouldAcquire: outcome.Verdict.ShouldAcquire,
			Reason:        outcome.Verdict.Reason,
		},
		Series: outcome.Series,
	})
}

// toEvaluationRecord converts the API payload to the engine's record.
func toEvaluationRecord(p dto.EvaluationPayload) book.EvaluationRecord {
	rec := book.EvaluationRecord{
		ISBN:               book.NormalizeISBN(p.ISBN),
		Title:              p.Title,
		ConfidenceScore:    p.ConfidenceScore,
		ConfidenceLabel:    p.ConfidenceLabel,
		EstimatedSalePrice: p.EstimatedSalePrice,
		SeriesName:         p.SeriesName,
		SeriesIndex:        p.SeriesIndex,
		Justification:      p.Justification,
	}
	if p.Market != nil {
		rec.Market = &book.MarketStats{
			SoldMedian:      p.Market.SoldMedian,
			SoldMin:         p.Market.SoldMin,
			SoldMax:         p.Market.SoldMax,
			ActiveCount:     p.Market.ActiveCount,
			SoldCount:       p.Market.SoldCount,
			SellThroughRate: p.Market.SellThroughRate,
		}
	}
	if p.Buyback != nil {
		rec.Buyback = &book.BuybackOffer{
			BestPrice:         p.Buyback.BestPrice,
			BestVendor:        p.Buyback.BestVendor,
			TotalVendors:      p.Buyback.TotalVendors,
			AmazonLowestPrice: p.Buyback.AmazonLowestPrice,
			AmazonSalesRank:   p.Buyback.AmazonSalesRank,
		}
	}
	return rec
}
