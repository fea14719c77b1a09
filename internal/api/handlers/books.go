package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ncuskey/lothelper-engine/internal/api/dto"
	"github.com/ncuskey/lothelper-engine/internal/application/scan"
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
)

// BooksHandler serves per-book lookups against the local catalog.
type BooksHandler struct {
	*Base
	scans *scan.Service
}

// NewBooksHandler creates a new books handler.
func NewBooksHandler(scans *scan.Service) *BooksHandler {
	return &BooksHandler{
		Base:  &Base{},
		scans: scans,
	}
}

// Duplicate handles GET /api/books/{isbn}/duplicate.
func (h *BooksHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")

	result, err := h.scans.CheckDuplicate(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, scan.ErrInvalidISBN) {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.DuplicateResponse{
		ISBN:              book.NormalizeISBN(isbn),
		IsDuplicate:       result.IsDuplicate,
		PreviouslyAddedAt: FormatTimePtr(result.PreviouslyAddedAt),
	})
}
