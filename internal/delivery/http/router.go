package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"venuebooking/internal/delivery/http/controllers"
	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/domain"
	"venuebooking/internal/metrics"
)

// HealthResponse is the data payload for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	db *sql.DB,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	organizerController *controllers.OrganizerController,
	venueController *controllers.VenueController,
	mealController *controllers.MealController,
	eventController *controllers.EventController,
	paymentController *controllers.PaymentController,
	uploadController *controllers.UploadController,
	analyticsController *controllers.AnalyticsController,
) *http.ServeMux {
	mux := http.NewServeMux()

	guard := middleware.RequireAuth(verifier, logger)
	organizer := middleware.RequireOrganizer(verifier, logger)

	// Auth
	mux.HandleFunc("POST /api/v1/auth/signup", authController.SignUp)
	mux.HandleFunc("POST /api/v1/auth/login", authController.Login)
	mux.HandleFunc("GET /api/v1/users/me", guard(authController.GetMe))
	mux.HandleFunc("PATCH /api/v1/users/me", guard(authController.UpdateMe))

	// Organizers
	mux.HandleFunc("POST /api/v1/organizers/signup", organizerController.SignUp)
	mux.HandleFunc("POST /api/v1/organizers/login", organizerController.Login)
	mux.HandleFunc("GET /api/v1/organizers/me", organizer(organizerController.GetMe))

	// Venues
	mux.HandleFunc("GET /api/v1/venues", venueController.ListVenues)
	mux.HandleFunc("GET /api/v1/venues/{venueID}", venueController.GetVenue)
	mux.HandleFunc("GET /api/v1/venues/{venueID}/availability", venueController.CheckAvailability)
	mux.HandleFunc("GET /api/v1/venues/{venueID}/quote", venueController.GetQuote)
	mux.HandleFunc("POST /api/v1/venues", organizer(venueController.CreateVenue))
	mux.HandleFunc("PATCH /api/v1/venues/{venueID}", organizer(venueController.UpdateVenue))
	mux.HandleFunc("DELETE /api/v1/venues/{venueID}", organizer(venueController.DeleteVenue))

	// Meals
	mux.HandleFunc("GET /api/v1/meals", mealController.ListMeals)
	mux.HandleFunc("GET /api/v1/meals/{mealID}", mealController.GetMeal)
	mux.HandleFunc("POST /api/v1/meals", organizer(mealController.CreateMeal))
	mux.HandleFunc("PATCH /api/v1/meals/{mealID}", organizer(mealController.UpdateMeal))
	mux.HandleFunc("DELETE /api/v1/meals/{mealID}", organizer(mealController.DeleteMeal))

	// Events
	mux.HandleFunc("POST /api/v1/events", guard(eventController.BookEvent))
	mux.HandleFunc("GET /api/v1/events/me", guard(eventController.ListMyEvents))
	mux.HandleFunc("GET /api/v1/events/{eventID}", guard(eventController.GetEvent))
	mux.HandleFunc("PATCH /api/v1/events/{eventID}", guard(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /api/v1/events/{eventID}", guard(eventController.CancelEvent))
	mux.HandleFunc("GET /api/v1/events", organizer(eventController.ListAllEvents))
	mux.HandleFunc("POST /api/v1/events/{eventID}/confirm", organizer(eventController.ConfirmEvent))

	// Payments
	mux.HandleFunc("POST /api/v1/events/{eventID}/payments", guard(paymentController.PayEvent))
	mux.HandleFunc("GET /api/v1/events/{eventID}/payments", guard(paymentController.ListEventPayments))
	mux.HandleFunc("GET /api/v1/payments/{paymentID}", guard(paymentController.GetPayment))
	mux.HandleFunc("POST /api/v1/payments/webhook", paymentController.Webhook)

	// Uploads
	mux.HandleFunc("POST /api/v1/uploads", organizer(uploadController.UploadImage))

	// Analytics
	mux.HandleFunc("GET /api/v1/analytics/revenue", organizer(analyticsController.RevenueReport))

	// Ops
	mux.HandleFunc("GET /healthz", healthzHandler(db))
	mux.Handle("GET /metrics", metrics.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// healthzHandler reports liveness and pings the database.
func healthzHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unreachable")
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
