package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ncuskey/lothelper-engine/internal/api/dto"
	"github.com/ncuskey/lothelper-engine/internal/application/scan"
)

// ScansHandler handles scan session HTTP requests.
type ScansHandler struct {
	*Base
	scans       *scan.Service
	defaultCost float64
}

// NewScansHandler creates a new scans handler. defaultCost is assumed
// when a scan request omits the acquisition cost.
func NewScansHandler(scans *scan.Service, defaultCost float64) *ScansHandler {
	return &ScansHandler{
		Base:        &Base{},
		scans:       scans,
		defaultCost: defaultCost,
	}
}

// Start handles POST /api/scans - begins a scan session.
func (h *ScansHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}
	if req.ISBN == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("isbn is required"))
		return
	}

	cost := h.defaultCost
	if req.AcquisitionCost != nil {
		cost = *req.AcquisitionCost
	}

	sess, err := h.scans.StartScan(r.Context(), scan.Request{
		ISBN:               req.ISBN,
		Condition:          req.Condition,
		Edition:            req.Edition,
		AcquisitionCost:    cost,
		CurrentMedianPrice: req.CurrentMedianPrice,
	})
	if err != nil {
		if errors.Is(err, scan.ErrInvalidISBN) {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusAccepted, toScanSessionResponse(sess))
}

// Get handles GET /api/scans/{id} - returns scan session state.
func (h *ScansHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("session ID is required"))
		return
	}

	sess, ok := h.scans.GetSession(id)
	if !ok {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("scan session"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toScanSessionResponse(sess))
}

// Resolve handles POST /api/scans/{id}/resolve - records accept/reject.
func (h *ScansHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("session ID is required"))
		return
	}

	var req dto.ResolveScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	err := h.scans.Resolve(r.Context(), id, req.Accepted, req.Location)
	switch {
	case err == nil:
	case errors.Is(err, scan.ErrSessionNotFound):
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("scan session"))
		return
	case errors.Is(err, scan.ErrNotResolved):
		h.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
		return
	default:
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	msg := "Rejection recorded"
	if req.Accepted {
		msg = "Book added to inventory"
	}
	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

// toScanSessionResponse converts a scan session to an API response.
func toScanSessionResponse(sess scan.Session) dto.ScanSessionResponse {
	response := dto.ScanSessionResponse{
		SessionID: sess.ID,
		ISBN:      sess.ISBN,
		Status:    string(sess.Status),
		Duplicate: dto.DuplicateResponse{
			ISBN:              sess.ISBN,
			IsDuplicate:       sess.Duplicate.IsDuplicate,
			PreviouslyAddedAt: FormatTimePtr(sess.Duplicate.PreviouslyAddedAt),
		},
		StartedAt:   FormatTime(sess.StartedAt),
		CompletedAt: FormatTimePtr(sess.CompletedAt),
	}

	if sess.Outcome != nil {
		response.Outcome = &dto.OutcomeResponse{
			Evaluation: sess.Outcome.Record,
			Profits:    dto.ToChannelProfits(sess.Outcome.Profits),
			Verdict: dto.VerdictResponse{
				ShouldAcquire: sess.Outcome.Verdict.ShouldAcquire,
				Reason:        sess.Outcome.Verdict.Reason,
			},
			Series: sess.Outcome.Series,
		}
	}

	if sess.FailureMsg != "" {
		response.Error = &sess.FailureMsg
	}

	return response
}
