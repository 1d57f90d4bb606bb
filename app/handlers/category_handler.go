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

type CategoryForm struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CategoryHandler struct {
	render    *render.Render
	validator *validator.Validate
	catalog   *services.CatalogService
	logger    *zap.Logger
}

func NewCategoryHandler(rnd *render.Render, v *validator.Validate, catalog *services.CatalogService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{render: rnd, validator: v, catalog: catalog, logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		writeError(h.render, w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form CategoryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validator.Struct(&form); err != nil {
		writeValidationErrors(h.render, w, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), form.Name)
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, MessageResponse{Message: "Category created successfully", Content: category})
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		writeError(h.render, w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var form CategoryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.render.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validator.Struct(&form); err != nil {
		writeValidationErrors(h.render, w, helpers.FormatValidationErrors(err.(validator.ValidationErrors)))
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), id, form.Name)
	if err != nil {
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Category updated successfully", Content: category})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		h.logger.Error("failed to delete category", zap.String("category_id", id), zap.Error(err))
		writeError(h.render, w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}
