package handlers

import (
	"errors"
	"net/http"

	"github.com/dukahub/duka-pos/app/services"
	"github.com/unrolled/render"
)

type MessageResponse struct {
	Message string      `json:"message"`
	Content interface{} `json:"content,omitempty"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrSaleNotFound),
		errors.Is(err, services.ErrSaleItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidUnitPrice),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrDuplicateSku):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(rnd *render.Render, w http.ResponseWriter, err error) {
	var inconsistency *services.TotalsInconsistencyError
	if errors.As(err, &inconsistency) {
		rnd.JSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "item saved but sale total could not be refreshed; run POST /api/sales/recompute-totals",
		})
		return
	}

	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	rnd.JSON(w, status, ErrorResponse{Error: msg})
}

func writeValidationErrors(rnd *render.Render, w http.ResponseWriter, fields map[string]string) {
	rnd.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
}
