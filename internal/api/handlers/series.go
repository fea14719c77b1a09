package handlers

import (
	"net/http"

	"github.com/ncuskey/lothelper-engine/internal/api/dto"
	"github.com/ncuskey/lothelper-engine/internal/application/scan"
)

// SeriesHandler serves series/collection context lookups.
type SeriesHandler struct {
	*Base
	scans *scan.Service
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(scans *scan.Service) *SeriesHandler {
	return &SeriesHandler{
		Base:  &Base{},
		scans: scans,
	}
}

// Context handles GET /api/series/context?name=...&isbn=...
func (h *SeriesHandler) Context(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("name is required"))
		return
	}
	isbn := r.URL.Query().Get("isbn")

	ctx, err := h.scans.SeriesContext(r.Context(), isbn, name)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, ctx)
}
