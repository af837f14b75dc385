package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"venuebooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{
	"id", "user_id", "venue_id", "meal_id", "name", "start_time", "end_time",
	"people_count", "venue_cost", "meal_cost", "tax", "service_fee", "total_cost",
	"status", "created_at", "updated_at",
}

// eventRow builds a row for a two-hour pending booking. mealID may be empty
// for events without catering.
func eventRow(id, mealID string, start time.Time) []driver.Value {
	var meal interface{}
	if mealID != "" {
		meal = mealID
	}
	return []driver.Value{
		id, "user-1", "venue-1", meal, "Team Offsite", start, start.Add(2 * time.Hour),
		20, "300", "0", "25.5", "7.5", "333",
		"pending", start.Add(-24 * time.Hour), start.Add(-24 * time.Hour),
	}
}

func rowEvent(id, mealID string, start time.Time) *domain.Event {
	return &domain.Event{
		ID:          id,
		UserID:      "user-1",
		VenueID:     "venue-1",
		MealID:      mealID,
		Name:        "Team Offsite",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		PeopleCount: 20,
		VenueCost:   decimal.RequireFromString("300"),
		MealCost:    decimal.RequireFromString("0"),
		Tax:         decimal.RequireFromString("25.5"),
		ServiceFee:  decimal.RequireFromString("7.5"),
		TotalCost:   decimal.RequireFromString("333"),
		Status:      domain.EventPending,
		CreatedAt:   start.Add(-24 * time.Hour),
		UpdatedAt:   start.Add(-24 * time.Hour),
	}
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success with meal",
			event: &domain.Event{
				UserID:      "user-1",
				VenueID:     "venue-1",
				MealID:      "meal-1",
				Name:        "Team Offsite",
				StartTime:   start,
				EndTime:     start.Add(2 * time.Hour),
				PeopleCount: 20,
				VenueCost:   decimal.RequireFromString("300"),
				MealCost:    decimal.RequireFromString("102"),
				Tax:         decimal.RequireFromString("34.17"),
				ServiceFee:  decimal.RequireFromString("10.05"),
				TotalCost:   decimal.RequireFromString("446.22"),
				Status:      domain.EventPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(user_id, venue_id, meal_id, name, start_time, end_time, people_count, venue_cost, meal_cost, tax, service_fee, total_cost, status, created_at, updated_at\)`).
					WithArgs("user-1", "venue-1", "meal-1", "Team Offsite", start, start.Add(2*time.Hour),
						20, decimal.RequireFromString("300"), decimal.RequireFromString("102"),
						decimal.RequireFromString("34.17"), decimal.RequireFromString("10.05"),
						decimal.RequireFromString("446.22"), domain.EventPending, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name: "success without meal stores null",
			event: &domain.Event{
				UserID:      "user-1",
				VenueID:     "venue-1",
				Name:        "Board Meeting",
				StartTime:   start,
				EndTime:     start.Add(2 * time.Hour),
				PeopleCount: 8,
				VenueCost:   decimal.RequireFromString("300"),
				MealCost:    decimal.RequireFromString("0"),
				Tax:         decimal.RequireFromString("25.5"),
				ServiceFee:  decimal.RequireFromString("7.5"),
				TotalCost:   decimal.RequireFromString("333"),
				Status:      domain.EventPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs("user-1", "venue-1", nil, "Board Meeting", start, start.Add(2*time.Hour),
						8, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
						sqlmock.AnyArg(), domain.EventPending, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-2"))
			},
			wantID:  "ev-uuid-2",
			wantErr: false,
		},
		{
			name: "db error",
			event: &domain.Event{
				UserID:    "user-1",
				VenueID:   "venue-1",
				Name:      "Broken",
				StartTime: start,
				EndTime:   start.Add(time.Hour),
				CreatedAt: now,
				UpdatedAt: now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, venue_id, meal_id, name, start_time, end_time, people_count, venue_cost, meal_cost, tax, service_fee, total_cost, status, created_at, updated_at`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(eventRow("ev-1", "meal-1", start)...))
			},
			want: rowEvent("ev-1", "meal-1", start),
		},
		{
			name: "null meal scans as empty",
			id:   "ev-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, venue_id, meal_id`).
					WithArgs("ev-2").
					WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(eventRow("ev-2", "", start)...))
			},
			want: rowEvent("ev-2", "", start),
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, venue_id, meal_id`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_FindOverlapping(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	t.Run("returns conflicting events ordered by start", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(eventRowColumns).
			AddRow(eventRow("ev-1", "", start)...).
			AddRow(eventRow("ev-2", "", start.Add(time.Hour))...)
		mock.ExpectQuery(`WHERE venue_id = \$1`).
			WithArgs("venue-1", start, end).
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.FindOverlapping(ctx, "venue-1", start, end, "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "ev-1", got[0].ID)
		require.Equal(t, "ev-2", got[1].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes the given event id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`AND id <> \$4`).
			WithArgs("venue-1", start, end, "ev-self").
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		repo := NewEventRepository(db)
		got, err := repo.FindOverlapping(ctx, "venue-1", start, end, "ev-self")
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no conflicts returns empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE venue_id = \$1`).
			WithArgs("venue-1", start, end).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		repo := NewEventRepository(db)
		got, err := repo.FindOverlapping(ctx, "venue-1", start, end, "")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := rowEvent("ev-1", "meal-2", start)
		mock.ExpectExec(`UPDATE events`).
			WithArgs("ev-1", "meal-2", e.Name, e.StartTime, e.EndTime, e.PeopleCount,
				e.VenueCost, e.MealCost, e.Tax, e.ServiceFee, e.TotalCost,
				e.Status, e.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Update(ctx, e))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		err = repo.Update(ctx, rowEvent("ev-missing", "", start))
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		status  domain.EventStatus
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:   "success",
			id:     "ev-1",
			status: domain.EventConfirmed,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", domain.EventConfirmed).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "not found",
			id:     "ev-missing",
			status: domain.EventCancelled,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-missing", domain.EventCancelled).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.UpdateStatus(ctx, tt.id, tt.status)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	t.Run("returns page and total", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE user_id = \$1`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
		rows := sqlmock.NewRows(eventRowColumns).
			AddRow(eventRow("ev-1", "", start)...).
			AddRow(eventRow("ev-2", "", start.Add(48*time.Hour))...)
		mock.ExpectQuery(`FROM events\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
			WithArgs("user-1", 20, 0).
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, total, err := repo.ListByUserID(ctx, "user-1", domain.PaginationParams{})
		require.NoError(t, err)
		require.Equal(t, 5, total)
		require.Len(t, got, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty page", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE user_id = \$1`).
			WithArgs("user-none").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`FROM events\s+WHERE user_id = \$1`).
			WithArgs("user-none", 20, 0).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		repo := NewEventRepository(db)
		got, total, err := repo.ListByUserID(ctx, "user-none", domain.PaginationParams{})
		require.NoError(t, err)
		require.Zero(t, total)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	t.Run("status filter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE status = \$1`).
			WithArgs(domain.EventPending).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`WHERE status = \$1\s+ORDER BY start_time DESC`).
			WithArgs(domain.EventPending, 20, 0).
			WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(eventRow("ev-1", "", start)...))

		repo := NewEventRepository(db)
		got, total, err := repo.List(ctx, domain.EventFilter{Status: domain.EventPending}, domain.PaginationParams{})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status and venue filters combined", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE status = \$1 AND venue_id = \$2`).
			WithArgs(domain.EventConfirmed, "venue-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`WHERE status = \$1 AND venue_id = \$2`).
			WithArgs(domain.EventConfirmed, "venue-1", 20, 0).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		repo := NewEventRepository(db)
		got, total, err := repo.List(ctx, domain.EventFilter{Status: domain.EventConfirmed, VenueID: "venue-1"}, domain.PaginationParams{})
		require.NoError(t, err)
		require.Zero(t, total)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no filter pages with defaults", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
		mock.ExpectQuery(`FROM events\s+ORDER BY start_time DESC`).
			WithArgs(10, 10).
			WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(eventRow("ev-11", "", start)...))

		repo := NewEventRepository(db)
		got, total, err := repo.List(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 2, PageSize: 10})
		require.NoError(t, err)
		require.Equal(t, 42, total)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_CountUpcomingByVenue(t *testing.T) {
	ctx := context.Background()
	after := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM events\s+WHERE venue_id = \$1`).
			WithArgs("venue-1", after).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		repo := NewEventRepository(db)
		got, err := repo.CountUpcomingByVenue(ctx, "venue-1", after)
		require.NoError(t, err)
		require.Equal(t, 3, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnError(sql.ErrConnDone)

		repo := NewEventRepository(db)
		_, err = repo.CountUpcomingByVenue(ctx, "venue-1", after)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
