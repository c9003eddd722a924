package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type CategoryHandler struct {
	categories service.CategoryService
}

func NewCategoryHandler(categories service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name          string          `json:"name" validate:"required,max=50"`
	Description   string          `json:"description" validate:"required"`
	BaseDailyRate decimal.Decimal `json:"base_daily_rate" validate:"required,gt=0"`
}

type categoryResponse struct {
	Message  string                  `json:"message"`
	Category *domain.VehicleCategory `json:"category"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), service.CategoryInput{
		Name:          req.Name,
		Description:   req.Description,
		BaseDailyRate: req.BaseDailyRate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{Message: "Vehicle category created successfully", Category: category})
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.categories.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{Message: "Vehicle category retrieved successfully", Category: category})
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": nonNil(categories)})
}
