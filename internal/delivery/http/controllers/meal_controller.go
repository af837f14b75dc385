package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"
)

// CreateMealRequest is the request body for POST /meals.
type CreateMealRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Cuisine        string          `json:"cuisine"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
}

// Validate implements Validator.
func (c CreateMealRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.PricePerPerson.Sign() <= 0 {
		errs = append(errs, "price_per_person must be greater than zero")
	}
	return errs
}

// UpdateMealRequest is the request body for PATCH /meals/{mealID}. All fields optional.
type UpdateMealRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Cuisine        *string          `json:"cuisine"`
	PricePerPerson *decimal.Decimal `json:"price_per_person"`
	Active         *bool            `json:"active"`
}

// Validate implements Validator.
func (u UpdateMealRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.PricePerPerson != nil && u.PricePerPerson.Sign() <= 0 {
		errs = append(errs, "price_per_person must be greater than zero")
	}
	return errs
}

// ListMealsResponse is the data payload for GET /meals (200).
type ListMealsResponse struct {
	Items      []*domain.Meal         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListMealsSuccessResponse is the success response envelope for GET /meals (200).
type ListMealsSuccessResponse struct {
	Data  ListMealsResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetMealSuccessResponse is the success response envelope for GET /meals/{mealID} (200).
type GetMealSuccessResponse struct {
	Data  *domain.Meal      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateMealSuccessResponse is the success response envelope for POST /meals (201).
type CreateMealSuccessResponse struct {
	Data  *domain.Meal      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateMealSuccessResponse is the success response envelope for PATCH /meals/{mealID} (200).
type UpdateMealSuccessResponse struct {
	Data  *domain.Meal      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteMealResponse is the data payload for DELETE /meals/{mealID} (200).
type DeleteMealResponse struct {
	Status string `json:"status"`
}

// DeleteMealSuccessResponse is the success response envelope for DELETE /meals/{mealID} (200).
type DeleteMealSuccessResponse struct {
	Data  DeleteMealResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// MealController handles the catering catalog.
type MealController struct {
	Logger  *slog.Logger
	Service domain.MealService
}

func NewMealController(logger *slog.Logger, svc domain.MealService) *MealController {
	return &MealController{
		Logger:  logger,
		Service: svc,
	}
}

// ListMeals godoc
// @Summary List meals
// @Description Returns a paginated list of catering packages, sorted by name. Inactive meals are hidden unless include_inactive=true.
// @Tags meals
// @Produce json
// @Param include_inactive query bool false "Include inactive meals (default false)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListMealsSuccessResponse "data contains items and pagination"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meals [get]
func (c *MealController) ListMeals(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") != "true"
	params := helpers.ParsePagination(r)

	meals, total, err := c.Service.List(r.Context(), activeOnly, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListMealsResponse{Items: meals, Pagination: meta})
}

// GetMeal godoc
// @Summary Get a meal by ID
// @Description Returns a single catering package.
// @Tags meals
// @Produce json
// @Param mealID path string true "Meal ID (UUID)"
// @Success 200 {object} controllers.GetMealSuccessResponse "data contains the meal"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meals/{mealID} [get]
func (c *MealController) GetMeal(w http.ResponseWriter, r *http.Request) {
	mealID := r.PathValue("mealID")
	if mealID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing mealID")
		return
	}
	if !uuidRegex.MatchString(mealID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid mealID")
		return
	}
	meal, err := c.Service.GetByID(r.Context(), mealID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "meal not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meal)
}

// CreateMeal godoc
// @Summary Create a meal
// @Description Create a new catering package. Requires an organizer Bearer token.
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMealRequest true "Meal data"
// @Success 201 {object} controllers.CreateMealSuccessResponse "data contains the created meal"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meals [post]
func (c *MealController) CreateMeal(w http.ResponseWriter, r *http.Request) {
	var req CreateMealRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	meal := domain.NewMeal(req.Name, req.Description, req.Cuisine, req.PricePerPerson)

	created, err := c.Service.Create(r.Context(), meal)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateMeal godoc
// @Summary Update a meal
// @Description Update meal fields. Omitted fields are unchanged. Requires an organizer Bearer token.
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mealID path string true "Meal ID (UUID)"
// @Param body body UpdateMealRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateMealSuccessResponse "data contains the updated meal"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meals/{mealID} [patch]
func (c *MealController) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	mealID := r.PathValue("mealID")
	if mealID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing mealID")
		return
	}
	if !uuidRegex.MatchString(mealID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid mealID")
		return
	}
	var req UpdateMealRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	meal, err := c.Service.Update(r.Context(), mealID, &domain.MealUpdate{
		Name:           req.Name,
		Description:    req.Description,
		Cuisine:        req.Cuisine,
		PricePerPerson: req.PricePerPerson,
		Active:         req.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "meal not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, meal)
}

// DeleteMeal godoc
// @Summary Delete a meal
// @Description Delete a catering package. Fails with a conflict when events reference the meal; deactivate it instead. Requires an organizer Bearer token.
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Param mealID path string true "Meal ID (UUID)"
// @Success 200 {object} controllers.DeleteMealSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (referenced by events)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /meals/{mealID} [delete]
func (c *MealController) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	mealID := r.PathValue("mealID")
	if mealID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing mealID")
		return
	}
	if !uuidRegex.MatchString(mealID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid mealID")
		return
	}
	if err := c.Service.Delete(r.Context(), mealID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "meal not found")
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteMealResponse{Status: "deleted"})
}
