package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dukahub/duka-pos/app/helpers"
	"github.com/dukahub/duka-pos/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type SaleForm struct {
	Status        string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash mobile_payment"`
}

type SaleUpdateForm struct {
	Status        string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash mobile_payment"`
}

type SaleHandler struct {
	render    *render.Render
	validator *validator.Validate
	sales     *services.SaleService
	totals    *services.TotalsService
	logger    *zap.Logger
}

func NewSaleHandler(rnd *render.Render, v *validator.Validate, sales *services.SaleService, totals *services.TotalsService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{render: rnd, validator: v, sales: sales, totals: totals, logger: logger}
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		h.logger.Error("failed to list sales", zap.Error(err))
		writeError(h.render, w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, sales)
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form SaleForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validator.Struct(&form); err != nil {
		writeValidationErrors(h.render, w, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	sale, err := h.sales.CreateSale(r.Context(), form.Status, form.PaymentMethod)
	if err != nil {
		h.logger.Error("failed to create sale", zap.Error(err))
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, MessageResponse{Message: "Transaction successful", Content: sale})
}

func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, sale)
}

func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var form SaleUpdateForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validator.Struct(&form); err != nil {
		writeValidationErrors(h.render, w, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	sale, err := h.sales.UpdateSale(r.Context(), id, form.Status, form.PaymentMethod)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Transaction updated successfully", Content: sale})
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.sales.DeleteSale(r.Context(), id); err != nil {
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

// RecomputeTotals is the repair endpoint for stale sale totals.
func (h *SaleHandler) RecomputeTotals(w http.ResponseWriter, r *http.Request) {
	count, err := h.totals.RecomputeAllTotals(r.Context())
	if err != nil {
		h.logger.Error("failed to recompute sale totals", zap.Error(err))
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{
		Message: "Sale totals recomputed",
		Content: map[string]int{"sales": count},
	})
}
