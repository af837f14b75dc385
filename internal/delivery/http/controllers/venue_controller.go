package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/domain"
)

// CreateVenueRequest is the request body for POST /venues.
type CreateVenueRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Capacity    int             `json:"capacity"`
	DayRate     decimal.Decimal `json:"day_rate"`
	HourRate    decimal.Decimal `json:"hour_rate"`
	ImageURL    string          `json:"image_url"`
}

// Validate implements Validator.
func (c CreateVenueRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Address) == "" {
		errs = append(errs, "address is required")
	}
	if strings.TrimSpace(c.City) == "" {
		errs = append(errs, "city is required")
	}
	if c.Capacity < 1 {
		errs = append(errs, "capacity must be at least 1")
	}
	if c.DayRate.Sign() <= 0 {
		errs = append(errs, "day_rate must be greater than zero")
	}
	if c.HourRate.Sign() <= 0 {
		errs = append(errs, "hour_rate must be greater than zero")
	}
	return errs
}

// UpdateVenueRequest is the request body for PATCH /venues/{venueID}. All fields optional; omitted fields are unchanged.
type UpdateVenueRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Address     *string          `json:"address"`
	City        *string          `json:"city"`
	Capacity    *int             `json:"capacity"`
	DayRate     *decimal.Decimal `json:"day_rate"`
	HourRate    *decimal.Decimal `json:"hour_rate"`
	ImageURL    *string          `json:"image_url"`
	Active      *bool            `json:"active"`
}

// Validate implements Validator.
func (u UpdateVenueRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.Capacity != nil && *u.Capacity < 1 {
		errs = append(errs, "capacity must be at least 1")
	}
	if u.DayRate != nil && u.DayRate.Sign() <= 0 {
		errs = append(errs, "day_rate must be greater than zero")
	}
	if u.HourRate != nil && u.HourRate.Sign() <= 0 {
		errs = append(errs, "hour_rate must be greater than zero")
	}
	return errs
}

// ListVenuesResponse is the data payload for GET /venues (200).
type ListVenuesResponse struct {
	Items      []*domain.Venue        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListVenuesSuccessResponse is the success response envelope for GET /venues (200).
type ListVenuesSuccessResponse struct {
	Data  ListVenuesResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// GetVenueSuccessResponse is the success response envelope for GET /venues/{venueID} (200).
type GetVenueSuccessResponse struct {
	Data  *domain.Venue     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateVenueSuccessResponse is the success response envelope for POST /venues (201).
type CreateVenueSuccessResponse struct {
	Data  *domain.Venue     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateVenueSuccessResponse is the success response envelope for PATCH /venues/{venueID} (200).
type UpdateVenueSuccessResponse struct {
	Data  *domain.Venue     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteVenueResponse is the data payload for DELETE /venues/{venueID} (200).
type DeleteVenueResponse struct {
	Status string `json:"status"`
}

// DeleteVenueSuccessResponse is the success response envelope for DELETE /venues/{venueID} (200).
type DeleteVenueSuccessResponse struct {
	Data  DeleteVenueResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// AvailabilitySuccessResponse is the success response envelope for GET /venues/{venueID}/availability (200).
type AvailabilitySuccessResponse struct {
	Data  *domain.Availability `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// QuoteSuccessResponse is the success response envelope for GET /venues/{venueID}/quote (200).
type QuoteSuccessResponse struct {
	Data  *domain.Quote     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// VenueController handles the venue catalog, the availability check, and quotes.
type VenueController struct {
	Logger  *slog.Logger
	Service domain.VenueService
}

func NewVenueController(logger *slog.Logger, svc domain.VenueService) *VenueController {
	return &VenueController{
		Logger:  logger,
		Service: svc,
	}
}

// ListVenues godoc
// @Summary List venues
// @Description Returns a paginated list of venues. Optional city filter (case-insensitive exact match) and min_capacity filter. Inactive venues are hidden unless include_inactive=true.
// @Tags venues
// @Produce json
// @Param city query string false "Filter by city (case-insensitive)"
// @Param min_capacity query int false "Minimum capacity"
// @Param include_inactive query bool false "Include inactive venues (default false)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListVenuesSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues [get]
func (c *VenueController) ListVenues(w http.ResponseWriter, r *http.Request) {
	filter := domain.VenueFilter{
		City: strings.TrimSpace(r.URL.Query().Get("city")),
	}
	if raw := r.URL.Query().Get("min_capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "min_capacity must be a non-negative integer")
			return
		}
		filter.MinCapacity = n
	}
	if r.URL.Query().Get("include_inactive") == "true" {
		filter.IncludeInactive = true
	}
	params := helpers.ParsePagination(r)

	venues, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListVenuesResponse{Items: venues, Pagination: meta})
}

// GetVenue godoc
// @Summary Get a venue by ID
// @Description Returns a single venue.
// @Tags venues
// @Produce json
// @Param venueID path string true "Venue ID (UUID)"
// @Success 200 {object} controllers.GetVenueSuccessResponse "data contains the venue"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues/{venueID} [get]
func (c *VenueController) GetVenue(w http.ResponseWriter, r *http.Request) {
	venueID := r.PathValue("venueID")
	if venueID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing venueID")
		return
	}
	if !uuidRegex.MatchString(venueID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid venueID")
		return
	}
	venue, err := c.Service.GetByID(r.Context(), venueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "venue not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, venue)
}

// CheckAvailability godoc
// @Summary Check venue availability
// @Description Reports whether the venue is free for [start, end) and lists the conflicting events when it is not. Times are RFC3339. Optional exclude_event_id leaves that event out of the check, for reschedules.
// @Tags venues
// @Produce json
// @Param venueID path string true "Venue ID (UUID)"
// @Param start query string true "Interval start (RFC3339)"
// @Param end query string true "Interval end (RFC3339)"
// @Param exclude_event_id query string false "Event ID to exclude from the check (UUID)"
// @Success 200 {object} controllers.AvailabilitySuccessResponse "data contains available and conflicts"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues/{venueID}/availability [get]
func (c *VenueController) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	venueID := r.PathValue("venueID")
	if venueID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing venueID")
		return
	}
	if !uuidRegex.MatchString(venueID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid venueID")
		return
	}
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "start must be a valid RFC3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "end must be a valid RFC3339 timestamp")
		return
	}
	excludeEventID := strings.TrimSpace(r.URL.Query().Get("exclude_event_id"))
	if excludeEventID != "" && !uuidRegex.MatchString(excludeEventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid exclude_event_id")
		return
	}

	availability, err := c.Service.CheckAvailability(r.Context(), venueID, start, end, excludeEventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "venue not found")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, availability)
}

// GetQuote godoc
// @Summary Quote a booking
// @Description Prices an interval at the venue without creating a booking. Day rate applies from 24 hours, hourly rate below that; partial units round up. Optional meal_id adds per-person catering.
// @Tags venues
// @Produce json
// @Param venueID path string true "Venue ID (UUID)"
// @Param start query string true "Interval start (RFC3339)"
// @Param end query string true "Interval end (RFC3339)"
// @Param people query int true "Number of people"
// @Param meal_id query string false "Meal ID (UUID)"
// @Success 200 {object} controllers.QuoteSuccessResponse "data contains the cost breakdown"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues/{venueID}/quote [get]
func (c *VenueController) GetQuote(w http.ResponseWriter, r *http.Request) {
	venueID := r.PathValue("venueID")
	if venueID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing venueID")
		return
	}
	if !uuidRegex.MatchString(venueID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid venueID")
		return
	}
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "start must be a valid RFC3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "end must be a valid RFC3339 timestamp")
		return
	}
	people, err := strconv.Atoi(r.URL.Query().Get("people"))
	if err != nil || people < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "people must be a positive integer")
		return
	}
	mealID := strings.TrimSpace(r.URL.Query().Get("meal_id"))
	if mealID != "" && !uuidRegex.MatchString(mealID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid meal_id")
		return
	}

	quote, err := c.Service.Quote(r.Context(), venueID, mealID, start, end, people)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "venue or meal not found")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, quote)
}

// CreateVenue godoc
// @Summary Create a venue
// @Description Create a new venue owned by the authenticated organizer. Requires an organizer Bearer token.
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateVenueRequest true "Venue data"
// @Success 201 {object} controllers.CreateVenueSuccessResponse "data contains the created venue"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues [post]
func (c *VenueController) CreateVenue(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateVenueRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	venue := domain.NewVenue(organizerID, req.Name, req.Description, req.Address, req.City, req.Capacity, req.DayRate, req.HourRate)
	venue.ImageURL = strings.TrimSpace(req.ImageURL)

	created, err := c.Service.Create(r.Context(), venue)
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

// UpdateVenue godoc
// @Summary Update a venue
// @Description Update venue fields. Only the owning organizer can update. Omitted fields are unchanged. Requires an organizer Bearer token.
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param venueID path string true "Venue ID (UUID)"
// @Param body body UpdateVenueRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateVenueSuccessResponse "data contains the updated venue"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues/{venueID} [patch]
func (c *VenueController) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	venueID := r.PathValue("venueID")
	if venueID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing venueID")
		return
	}
	if !uuidRegex.MatchString(venueID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid venueID")
		return
	}
	organizerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateVenueRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	venue, err := c.Service.Update(r.Context(), organizerID, venueID, &domain.VenueUpdate{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Capacity:    req.Capacity,
		DayRate:     req.DayRate,
		HourRate:    req.HourRate,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "venue not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, venue)
}

// DeleteVenue godoc
// @Summary Delete a venue
// @Description Delete a venue. Only the owning organizer can delete, and only when the venue has no upcoming non-cancelled events. Requires an organizer Bearer token.
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Param venueID path string true "Venue ID (UUID)"
// @Success 200 {object} controllers.DeleteVenueSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (upcoming events)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues/{venueID} [delete]
func (c *VenueController) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	venueID := r.PathValue("venueID")
	if venueID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing venueID")
		return
	}
	if !uuidRegex.MatchString(venueID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid venueID")
		return
	}
	organizerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), organizerID, venueID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "venue not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteVenueResponse{Status: "deleted"})
}
