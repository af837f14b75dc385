package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/domain"
)

// fakeVenueService implements domain.VenueService for controller tests.
type fakeVenueService struct {
	createResult *domain.Venue
	createErr    error
	getResult    *domain.Venue
	getErr       error
	listResult   []*domain.Venue
	listTotal    int
	listErr      error
	updateResult *domain.Venue
	updateErr    error
	deleteErr    error
	availResult  *domain.Availability
	availErr     error
	quoteResult  *domain.Quote
	quoteErr     error

	lastCreated     *domain.Venue
	lastGetID       string
	lastListFilter  domain.VenueFilter
	lastListP       domain.PaginationParams
	lastUpdateOrgID string
	lastUpdateID    string
	lastUpdate      *domain.VenueUpdate
	lastDeleteOrgID string
	lastDeleteID    string
	lastAvailID     string
	lastAvailStart  time.Time
	lastAvailEnd    time.Time
	lastAvailExcl   string
	lastQuoteVenue  string
	lastQuoteMeal   string
	lastQuoteStart  time.Time
	lastQuotePeople int
}

func (f *fakeVenueService) Create(_ context.Context, venue *domain.Venue) (*domain.Venue, error) {
	f.lastCreated = venue
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	created := *venue
	created.ID = testVenueID
	return &created, nil
}

func (f *fakeVenueService) GetByID(_ context.Context, id string) (*domain.Venue, error) {
	f.lastGetID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getResult != nil {
		return f.getResult, nil
	}
	return sampleVenue(), nil
}

func (f *fakeVenueService) List(_ context.Context, filter domain.VenueFilter, p domain.PaginationParams) ([]*domain.Venue, int, error) {
	f.lastListFilter = filter
	f.lastListP = p
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listResult, f.listTotal, nil
}

func (f *fakeVenueService) Update(_ context.Context, organizerID, venueID string, upd *domain.VenueUpdate) (*domain.Venue, error) {
	f.lastUpdateOrgID = organizerID
	f.lastUpdateID = venueID
	f.lastUpdate = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateResult != nil {
		return f.updateResult, nil
	}
	return sampleVenue(), nil
}

func (f *fakeVenueService) Delete(_ context.Context, organizerID, venueID string) error {
	f.lastDeleteOrgID = organizerID
	f.lastDeleteID = venueID
	return f.deleteErr
}

func (f *fakeVenueService) CheckAvailability(_ context.Context, venueID string, start, end time.Time, excludeEventID string) (*domain.Availability, error) {
	f.lastAvailID = venueID
	f.lastAvailStart = start
	f.lastAvailEnd = end
	f.lastAvailExcl = excludeEventID
	if f.availErr != nil {
		return nil, f.availErr
	}
	if f.availResult != nil {
		return f.availResult, nil
	}
	return &domain.Availability{Available: true, Conflicts: []*domain.Event{}}, nil
}

func (f *fakeVenueService) Quote(_ context.Context, venueID, mealID string, start, end time.Time, people int) (*domain.Quote, error) {
	f.lastQuoteVenue = venueID
	f.lastQuoteMeal = mealID
	f.lastQuoteStart = start
	f.lastQuotePeople = people
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	if f.quoteResult != nil {
		return f.quoteResult, nil
	}
	return &domain.Quote{
		VenueCost:  decimal.RequireFromString("480.00"),
		MealCost:   decimal.RequireFromString("0.00"),
		Subtotal:   decimal.RequireFromString("480.00"),
		Tax:        decimal.RequireFromString("48.00"),
		ServiceFee: decimal.RequireFromString("24.00"),
		TotalCost:  decimal.RequireFromString("552.00"),
	}, nil
}

func sampleVenue() *domain.Venue {
	return &domain.Venue{
		ID:          testVenueID,
		OrganizerID: "org-1",
		Name:        "Riverside Hall",
		Address:     "1 River Road",
		City:        "London",
		Capacity:    120,
		DayRate:     decimal.RequireFromString("800"),
		HourRate:    decimal.RequireFromString("60"),
		Active:      true,
	}
}

func TestVenueController_ListVenues(t *testing.T) {
	t.Run("filters and pagination pass through", func(t *testing.T) {
		fake := &fakeVenueService{
			listResult: []*domain.Venue{sampleVenue()},
			listTotal:  12,
		}
		ctrl := NewVenueController(testLogger, fake)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/venues?city=London&min_capacity=50&include_inactive=true&page=2&page_size=5", nil)
		rr := httptest.NewRecorder()
		ctrl.ListVenues(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.VenueFilter{City: "London", MinCapacity: 50, IncludeInactive: true}, fake.lastListFilter)
		assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 5}, fake.lastListP)

		var envelope ListVenuesSuccessResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Len(t, envelope.Data.Items, 1)
		assert.Equal(t, "Riverside Hall", envelope.Data.Items[0].Name)
		assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 5, Total: 12, TotalPages: 3}, envelope.Data.Pagination)
	})

	t.Run("rejects malformed min_capacity", func(t *testing.T) {
		ctrl := NewVenueController(testLogger, &fakeVenueService{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/venues?min_capacity=lots", nil)
		rr := httptest.NewRecorder()
		ctrl.ListVenues(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "min_capacity must be a non-negative integer")
	})

	t.Run("service failure returns 500", func(t *testing.T) {
		ctrl := NewVenueController(testLogger, &fakeVenueService{listErr: errors.New("db down")})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil)
		rr := httptest.NewRecorder()
		ctrl.ListVenues(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestVenueController_GetVenue(t *testing.T) {
	tests := []struct {
		name           string
		venueID        string
		fake           *fakeVenueService
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "found",
			venueID:    testVenueID,
			fake:       &fakeVenueService{},
			wantStatus: http.StatusOK,
		},
		{
			name:           "invalid id",
			venueID:        "riverside",
			fake:           &fakeVenueService{},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid venueID",
		},
		{
			name:           "not found",
			venueID:        testVenueID,
			fake:           &fakeVenueService{getErr: domain.ErrNotFound},
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "venue not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewVenueController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+tt.venueID, nil)
			req.SetPathValue("venueID", tt.venueID)
			rr := httptest.NewRecorder()
			ctrl.GetVenue(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
				return
			}
			var envelope GetVenueSuccessResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Data)
			assert.Equal(t, testVenueID, envelope.Data.ID)
			assert.Equal(t, testVenueID, tt.fake.lastGetID)
		})
	}
}

func TestVenueController_CheckAvailability(t *testing.T) {
	start := "2026-09-01T10:00:00Z"
	end := "2026-09-01T18:00:00Z"

	t.Run("free interval", func(t *testing.T) {
		fake := &fakeVenueService{}
		ctrl := NewVenueController(testLogger, fake)

		url := "/api/v1/venues/" + testVenueID + "/availability?start=" + start + "&end=" + end
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.SetPathValue("venueID", testVenueID)
		rr := httptest.NewRecorder()
		ctrl.CheckAvailability(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, testVenueID, fake.lastAvailID)
		assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), fake.lastAvailStart.UTC())
		assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), fake.lastAvailEnd.UTC())
		assert.Empty(t, fake.lastAvailExcl)

		var envelope AvailabilitySuccessResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Data)
		assert.True(t, envelope.Data.Available)
	})

	t.Run("conflicts reported", func(t *testing.T) {
		conflict := &domain.Event{ID: testEventID, Name: "Standing booking"}
		fake := &fakeVenueService{availResult: &domain.Availability{Available: false, Conflicts: []*domain.Event{conflict}}}
		ctrl := NewVenueController(testLogger, fake)

		url := "/api/v1/venues/" + testVenueID + "/availability?start=" + start + "&end=" + end + "&exclude_event_id=" + testEventID
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.SetPathValue("venueID", testVenueID)
		rr := httptest.NewRecorder()
		ctrl.CheckAvailability(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, testEventID, fake.lastAvailExcl)

		var envelope AvailabilitySuccessResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Data)
		assert.False(t, envelope.Data.Available)
		require.Len(t, envelope.Data.Conflicts, 1)
		assert.Equal(t, testEventID, envelope.Data.Conflicts[0].ID)
	})

	t.Run("rejects bad interval params", func(t *testing.T) {
		tests := []struct {
			name           string
			query          string
			wantBodySubstr string
		}{
			{"missing start", "?end=" + end, "start must be a valid RFC3339 timestamp"},
			{"malformed end", "?start=" + start + "&end=tomorrow", "end must be a valid RFC3339 timestamp"},
			{"bad exclude id", "?start=" + start + "&end=" + end + "&exclude_event_id=ev-1", "invalid exclude_event_id"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl := NewVenueController(testLogger, &fakeVenueService{})

				req := httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+testVenueID+"/availability"+tt.query, nil)
				req.SetPathValue("venueID", testVenueID)
				rr := httptest.NewRecorder()
				ctrl.CheckAvailability(rr, req)

				require.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
			})
		}
	})

	t.Run("unknown venue", func(t *testing.T) {
		ctrl := NewVenueController(testLogger, &fakeVenueService{availErr: domain.ErrNotFound})

		url := "/api/v1/venues/" + testVenueID + "/availability?start=" + start + "&end=" + end
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.SetPathValue("venueID", testVenueID)
		rr := httptest.NewRecorder()
		ctrl.CheckAvailability(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "venue not found")
	})
}

func TestVenueController_GetQuote(t *testing.T) {
	start := "2026-09-01T10:00:00Z"
	end := "2026-09-01T18:00:00Z"

	t.Run("prices interval with meal", func(t *testing.T) {
		fake := &fakeVenueService{quoteResult: &domain.Quote{
			VenueCost:  decimal.RequireFromString("480.00"),
			MealCost:   decimal.RequireFromString("750.00"),
			Subtotal:   decimal.RequireFromString("1230.00"),
			Tax:        decimal.RequireFromString("123.00"),
			ServiceFee: decimal.RequireFromString("61.50"),
			TotalCost:  decimal.RequireFromString("1414.50"),
		}}
		ctrl := NewVenueController(testLogger, fake)

		url := "/api/v1/venues/" + testVenueID + "/quote?start=" + start + "&end=" + end + "&people=50&meal_id=" + testMealID
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.SetPathValue("venueID", testVenueID)
		rr := httptest.NewRecorder()
		ctrl.GetQuote(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, testVenueID, fake.lastQuoteVenue)
		assert.Equal(t, testMealID, fake.lastQuoteMeal)
		assert.Equal(t, 50, fake.lastQuotePeople)

		var envelope QuoteSuccessResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Data)
		assert.True(t, envelope.Data.TotalCost.Equal(decimal.RequireFromString("1414.50")), "total_cost was %s", envelope.Data.TotalCost)
		assert.True(t, envelope.Data.MealCost.Equal(decimal.RequireFromString("750.00")), "meal_cost was %s", envelope.Data.MealCost)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name           string
			query          string
			wantBodySubstr string
		}{
			{"people missing", "?start=" + start + "&end=" + end, "people must be a positive integer"},
			{"people zero", "?start=" + start + "&end=" + end + "&people=0", "people must be a positive integer"},
			{"bad meal id", "?start=" + start + "&end=" + end + "&people=10&meal_id=beef", "invalid meal_id"},
			{"bad start", "?start=noon&end=" + end + "&people=10", "start must be a valid RFC3339 timestamp"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl := NewVenueController(testLogger, &fakeVenueService{})

				req := httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+testVenueID+"/quote"+tt.query, nil)
				req.SetPathValue("venueID", testVenueID)
				rr := httptest.NewRecorder()
				ctrl.GetQuote(rr, req)

				require.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
			})
		}
	})

	t.Run("service rejects interval", func(t *testing.T) {
		ctrl := NewVenueController(testLogger, &fakeVenueService{
			quoteErr: fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput),
		})

		url := "/api/v1/venues/" + testVenueID + "/quote?start=" + end + "&end=" + start + "&people=10"
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.SetPathValue("venueID", testVenueID)
		rr := httptest.NewRecorder()
		ctrl.GetQuote(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "end time must be after start time")
	})

	t.Run("unknown venue or meal", func(t *testing.T) {
		ctrl := NewVenueController(testLogger, &fakeVenueService{quoteErr: domain.ErrNotFound})

		url := "/api/v1/venues/" + testVenueID + "/quote?start=" + start + "&end=" + end + "&people=10"
		req := httptest.NewRequest(http.MethodGet, url, nil)
		req.SetPathValue("venueID", testVenueID)
		rr := httptest.NewRecorder()
		ctrl.GetQuote(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "venue or meal not found")
	})
}

func TestVenueController_CreateVenue(t *testing.T) {
	validBody := `{
		"name": "Riverside Hall",
		"description": "Hall by the river",
		"address": "1 River Road",
		"city": "London",
		"capacity": 120,
		"day_rate": 800,
		"hour_rate": 60,
		"image_url": " https://cdn.example.com/riverside.jpg "
	}`

	tests := []struct {
		name           string
		body           string
		noUserContext  bool
		fake           *fakeVenueService
		wantStatus     int
		wantBodySubstr string
		checkCall      func(t *testing.T, fake *fakeVenueService)
	}{
		{
			name:       "creates venue for the authenticated organizer",
			body:       validBody,
			fake:       &fakeVenueService{},
			wantStatus: http.StatusCreated,
			checkCall: func(t *testing.T, fake *fakeVenueService) {
				require.NotNil(t, fake.lastCreated)
				assert.Equal(t, "org-1", fake.lastCreated.OrganizerID)
				assert.Equal(t, "Riverside Hall", fake.lastCreated.Name)
				assert.Equal(t, 120, fake.lastCreated.Capacity)
				assert.True(t, fake.lastCreated.Active)
				assert.Equal(t, "https://cdn.example.com/riverside.jpg", fake.lastCreated.ImageURL)
				assert.True(t, fake.lastCreated.DayRate.Equal(decimal.RequireFromString("800")))
			},
		},
		{
			name:           "missing auth context",
			body:           validBody,
			noUserContext:  true,
			fake:           &fakeVenueService{},
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "rejects zero rates and blank fields",
			body:           `{"name":"","address":"","city":"","capacity":0,"day_rate":0,"hour_rate":0}`,
			fake:           &fakeVenueService{},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "day_rate must be greater than zero",
		},
		{
			name:           "rejects unknown fields",
			body:           `{"name":"Hall","address":"1 Road","city":"London","capacity":10,"day_rate":100,"hour_rate":10,"owner_id":"org-9"}`,
			fake:           &fakeVenueService{},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "unknown field",
		},
		{
			name:           "service rejects input",
			body:           validBody,
			fake:           &fakeVenueService{createErr: domain.ErrInvalidInput},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewVenueController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/venues", bytes.NewBufferString(tt.body))
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "org-1"))
			}
			rr := httptest.NewRecorder()
			ctrl.CreateVenue(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
			}
			if tt.checkCall != nil {
				tt.checkCall(t, tt.fake)
			}
		})
	}
}

func TestVenueController_UpdateVenue(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fake           *fakeVenueService
		wantStatus     int
		wantBodySubstr string
		checkCall      func(t *testing.T, fake *fakeVenueService)
	}{
		{
			name:       "partial update deactivates venue",
			body:       `{"name":"Riverside Hall East","active":false}`,
			fake:       &fakeVenueService{},
			wantStatus: http.StatusOK,
			checkCall: func(t *testing.T, fake *fakeVenueService) {
				assert.Equal(t, "org-1", fake.lastUpdateOrgID)
				assert.Equal(t, testVenueID, fake.lastUpdateID)
				require.NotNil(t, fake.lastUpdate)
				require.NotNil(t, fake.lastUpdate.Name)
				assert.Equal(t, "Riverside Hall East", *fake.lastUpdate.Name)
				require.NotNil(t, fake.lastUpdate.Active)
				assert.False(t, *fake.lastUpdate.Active)
				assert.Nil(t, fake.lastUpdate.Capacity)
				assert.Nil(t, fake.lastUpdate.DayRate)
			},
		},
		{
			name:           "rejects zero capacity",
			body:           `{"capacity":0}`,
			fake:           &fakeVenueService{},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "capacity must be at least 1",
		},
		{
			name:           "not owner",
			body:           `{"name":"Taken Over"}`,
			fake:           &fakeVenueService{updateErr: domain.ErrForbidden},
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "forbidden",
		},
		{
			name:           "venue missing",
			body:           `{"name":"Ghost Hall"}`,
			fake:           &fakeVenueService{updateErr: domain.ErrNotFound},
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "venue not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewVenueController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/venues/"+testVenueID, bytes.NewBufferString(tt.body))
			req.SetPathValue("venueID", testVenueID)
			req = req.WithContext(middleware.SetUserID(req.Context(), "org-1"))
			rr := httptest.NewRecorder()
			ctrl.UpdateVenue(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
			}
			if tt.checkCall != nil {
				tt.checkCall(t, tt.fake)
			}
		})
	}
}

func TestVenueController_DeleteVenue(t *testing.T) {
	tests := []struct {
		name           string
		fake           *fakeVenueService
		noUserContext  bool
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:           "deletes an idle venue",
			fake:           &fakeVenueService{},
			wantStatus:     http.StatusOK,
			wantBodySubstr: `"status":"deleted"`,
		},
		{
			name:           "missing auth context",
			fake:           &fakeVenueService{},
			noUserContext:  true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "upcoming events block deletion",
			fake:           &fakeVenueService{deleteErr: fmt.Errorf("%w: venue has 3 upcoming events", domain.ErrConflict)},
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "upcoming events",
		},
		{
			name:           "not owner",
			fake:           &fakeVenueService{deleteErr: domain.ErrForbidden},
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewVenueController(testLogger, tt.fake)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/venues/"+testVenueID, nil)
			req.SetPathValue("venueID", testVenueID)
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "org-1"))
			}
			rr := httptest.NewRecorder()
			ctrl.DeleteVenue(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "org-1", tt.fake.lastDeleteOrgID)
				assert.Equal(t, testVenueID, tt.fake.lastDeleteID)
			}
		})
	}
}
