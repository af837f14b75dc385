package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/domain"
)

// OrganizerSignUpRequest is the request body for POST /organizers/signup
type OrganizerSignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (o OrganizerSignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(o.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(strings.ToLower(o.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if o.Password == "" {
		errs = append(errs, "password is required")
	} else if len(o.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	return errs
}

// OrganizerLoginResponse is the response body for POST /organizers/login
type OrganizerLoginResponse struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	Organizer *domain.Organizer `json:"organizer"`
}

// OrganizerSignUpSuccessResponse is the success response envelope for POST /organizers/signup (201).
type OrganizerSignUpSuccessResponse struct {
	Data  *domain.Organizer `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// OrganizerLoginSuccessResponse is the success response envelope for POST /organizers/login (200).
type OrganizerLoginSuccessResponse struct {
	Data  OrganizerLoginResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// GetOrganizerMeSuccessResponse is the success response envelope for GET /organizers/me (200).
type GetOrganizerMeSuccessResponse struct {
	Data  *domain.Organizer `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// OrganizerController handles organizer auth endpoints.
type OrganizerController struct {
	Logger  *slog.Logger
	Service domain.OrganizerService
}

func NewOrganizerController(logger *slog.Logger, svc domain.OrganizerService) *OrganizerController {
	return &OrganizerController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up a new organizer
// @Description Create a new organizer account with name, email, and password. Organizer tokens carry the organizer role and unlock venue and meal management, event confirmation, and analytics.
// @Tags organizers
// @Accept json
// @Produce json
// @Param body body OrganizerSignUpRequest true "Sign-up data"
// @Success 201 {object} controllers.OrganizerSignUpSuccessResponse "data contains the created organizer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/signup [post]
func (c *OrganizerController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req OrganizerSignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	organizer, err := c.Service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "email already registered")
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

	helpers.WriteJSONSuccess(w, http.StatusCreated, organizer)
}

// Login godoc
// @Summary Log in as organizer
// @Description Authenticate with email and password. Returns a JWT carrying the organizer role.
// @Tags organizers
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.OrganizerLoginSuccessResponse "data contains token, token_type, and organizer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/login [post]
func (c *OrganizerController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, organizer, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, OrganizerLoginResponse{Token: token, TokenType: "Bearer", Organizer: organizer})
}

// GetMe godoc
// @Summary Get current organizer
// @Description Returns the authenticated organizer's profile. Requires an organizer Bearer token.
// @Tags organizers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.GetOrganizerMeSuccessResponse "data contains the organizer"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/me [get]
func (c *OrganizerController) GetMe(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	organizer, err := c.Service.GetByID(r.Context(), organizerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "organizer not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, organizer)
}
