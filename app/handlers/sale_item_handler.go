package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dukahub/duka-pos/app/helpers"
	"github.com/dukahub/duka-pos/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type SaleItemForm struct {
	SaleID    string          `json:"sale_id" validate:"required"`
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type SaleItemUpdateForm struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type SaleItemHandler struct {
	render    *render.Render
	validator *validator.Validate
	sales     *services.SaleService
	logger    *zap.Logger
}

func NewSaleItemHandler(rnd *render.Render, v *validator.Validate, sales *services.SaleService, logger *zap.Logger) *SaleItemHandler {
	return &SaleItemHandler{render: rnd, validator: v, sales: sales, logger: logger}
}

func (h *SaleItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.sales.ListItems(r.Context())
	if err != nil {
		h.logger.Error("failed to list sale items", zap.Error(err))
		writeError(h.render, w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, items)
}

func (h *SaleItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form SaleItemForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validator.Struct(&form); err != nil {
		writeValidationErrors(h.render, w, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	item, err := h.sales.AddItem(r.Context(), form.SaleID, form.ProductID, form.Quantity)
	if err != nil {
		h.logger.Error("failed to add sale item", zap.String("sale_id", form.SaleID), zap.Error(err))
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, MessageResponse{Message: "Item added successfully", Content: item})
}

func (h *SaleItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := h.sales.GetItem(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, item)
}

func (h *SaleItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var form SaleItemUpdateForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	item, err := h.sales.UpdateItem(r.Context(), id, form.ProductID, form.Quantity)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Item updated successfully", Content: item})
}

func (h *SaleItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.sales.DeleteItem(r.Context(), id); err != nil {
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Item deleted successfully"})
}
