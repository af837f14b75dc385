package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	subjectID string
	role      string
	err       error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.subjectID, f.role, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		verifier      domain.TokenVerifier
		wantStatus    int
		nextCalled    bool
		wantContextID string
		wantRole      string
	}{
		{
			name:          "valid token sets context and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{subjectID: "user-123", role: domain.RoleCustomer},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
			wantRole:      domain.RoleCustomer,
		},
		{
			name:       "missing authorization header",
			authHeader: "",
			verifier:   &fakeTokenVerifier{subjectID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid authorization format no Bearer prefix",
			authHeader: "Basic abc",
			verifier:   &fakeTokenVerifier{subjectID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token after Bearer",
			authHeader: "Bearer ",
			verifier:   &fakeTokenVerifier{subjectID: "user-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verifier returns error",
			authHeader: "Bearer bad-token",
			verifier:   &fakeTokenVerifier{err: errors.New("invalid or expired token")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedUserID, capturedRole string
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := UserIDFromContext(r.Context()); ok {
					capturedUserID = id
				}
				if role, ok := RoleFromContext(r.Context()); ok {
					capturedRole = role
				}
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireAuth(tt.verifier, discardLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantContextID, capturedUserID, "user ID in context")
				assert.Equal(t, tt.wantRole, capturedRole, "role in context")
				return
			}
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
		})
	}
}

func TestRequireOrganizer(t *testing.T) {
	tests := []struct {
		name         string
		authHeader   string
		verifier     domain.TokenVerifier
		wantStatus   int
		wantBodyCode string
		nextCalled   bool
	}{
		{
			name:       "organizer token passes",
			authHeader: "Bearer organizer-token",
			verifier:   &fakeTokenVerifier{subjectID: "org-1", role: domain.RoleOrganizer},
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:         "customer token is forbidden",
			authHeader:   "Bearer customer-token",
			verifier:     &fakeTokenVerifier{subjectID: "user-1", role: domain.RoleCustomer},
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
		},
		{
			name:         "missing token is unauthorized",
			authHeader:   "",
			verifier:     &fakeTokenVerifier{subjectID: "org-1", role: domain.RoleOrganizer},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireOrganizer(tt.verifier, discardLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/admin/events", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}
