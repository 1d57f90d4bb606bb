package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dukahub/duka-pos/app/helpers"
	"github.com/dukahub/duka-pos/app/models"
	"github.com/dukahub/duka-pos/app/services"
	"github.com/dukahub/duka-pos/app/utils/format"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ProductForm struct {
	Name          string          `json:"name" validate:"required,max=100"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CategoryID    string          `json:"category_id" validate:"required"`
	Sku           string          `json:"sku" validate:"required,max=100"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
}

type ProductResponse struct {
	*models.Product
	UnitPriceDisplay string `json:"unit_price_display"`
}

func newProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{Product: p, UnitPriceDisplay: format.Money(p.UnitPrice)}
}

type ProductHandler struct {
	render    *render.Render
	validator *validator.Validate
	catalog   *services.CatalogService
	logger    *zap.Logger
}

func NewProductHandler(rnd *render.Render, v *validator.Validate, catalog *services.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{render: rnd, validator: v, catalog: catalog, logger: logger}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		writeError(h.render, w, err)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, newProductResponse(&products[i]))
	}
	h.render.JSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validator.Struct(&form); err != nil {
		writeValidationErrors(h.render, w, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), form.Name, form.UnitPrice, form.CategoryID, form.Sku, form.StockQuantity)
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, MessageResponse{Message: "Product created successfully", Content: newProductResponse(product)})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, newProductResponse(product))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var form ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validator.Struct(&form); err != nil {
		writeValidationErrors(h.render, w, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, form.Name, form.UnitPrice, form.CategoryID, form.Sku, form.StockQuantity)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Product updated successfully", Content: newProductResponse(product)})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("failed to delete product", zap.String("product_id", id), zap.Error(err))
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}
