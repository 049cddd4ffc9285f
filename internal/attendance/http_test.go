package attendance_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"transport-service/internal/attendance"
	"transport-service/internal/auth"
	"transport-service/internal/fleet"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubService returns canned results so the handler's error mapping can
// be exercised without real collaborators.
type stubService struct {
	summary    *attendance.Summary
	roster     []attendance.RosterEntry
	records    []*attendance.Record
	history    []attendance.HistoryDay
	summaryErr error
	rosterErr  error
	submitErr  error
	historyErr error
}

func (s *stubService) DailySummary(ctx context.Context, recorderID string) (*attendance.Summary, error) {
	return s.summary, s.summaryErr
}

func (s *stubService) RosterForToday(ctx context.Context, recorderID string) ([]attendance.RosterEntry, error) {
	return s.roster, s.rosterErr
}

func (s *stubService) SubmitBatch(ctx context.Context, recorderID string, entries []attendance.BatchEntry) ([]*attendance.Record, error) {
	return s.records, s.submitErr
}

func (s *stubService) History(ctx context.Context, recorderID, yearMonth string) ([]attendance.HistoryDay, error) {
	return s.history, s.historyErr
}

func newTestRouter(svc attendance.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), auth.UserIDKey, recorderID)
		ctx = context.WithValue(ctx, auth.RoleKey, auth.RoleRecorder)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	attendance.NewHandler(svc, logger).RegisterRoutes(router)
	return router
}

func TestSubmitBatchHandler_Created(t *testing.T) {
	svc := &stubService{records: []*attendance.Record{
		{ID: "r1", Date: "2025-03-05", StudentID: studentA, Status: attendance.StatusPresent, RecorderID: recorderID},
	}}
	router := newTestRouter(svc)

	body := `{"entries":[{"studentId":"` + studentA + `","status":"present"}]}`
	req := httptest.NewRequest(http.MethodPost, "/attendance/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"2025-03-05"`)
}

func TestSubmitBatchHandler_InvalidBody(t *testing.T) {
	router := newTestRouter(&stubService{})

	tests := []struct {
		name string
		body string
	}{
		{"no entries", `{"entries":[]}`},
		{"bad status", `{"entries":[{"studentId":"` + studentA + `","status":"late"}]}`},
		{"not json", `entries=1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/attendance/batch", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAttendanceErrorMapping(t *testing.T) {
	body := `{"entries":[{"studentId":"` + studentA + `","status":"present"}]}`

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"non school day", &attendance.NotSchoolDayError{Reason: "Weekend"}, http.StatusUnprocessableEntity, `"reason":"Weekend"`},
		{"already submitted", attendance.ErrAlreadySubmitted, http.StatusUnprocessableEntity, "already submitted"},
		{"storage conflict", attendance.ErrDuplicateRecord, http.StatusConflict, "already submitted"},
		{"no vehicle", fleet.ErrNoVehicleAssigned, http.StatusNotFound, ""},
		{"unknown failure", context.DeadlineExceeded, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubService{submitErr: tt.err})
			req := httptest.NewRequest(http.MethodPost, "/attendance/batch", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHistoryHandler(t *testing.T) {
	svc := &stubService{history: []attendance.HistoryDay{
		{Date: "2025-03-03", Entries: []attendance.HistoryEntry{
			{StudentID: studentA, Name: "Ana", Present: true},
		}},
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/attendance/history?month=2025-03", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"2025-03-03"`)
}

func TestSummaryHandler(t *testing.T) {
	svc := &stubService{summary: &attendance.Summary{
		VehiclePlate:  "M 123-456",
		TotalStudents: 12,
		IsSchoolDay:   true,
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/attendance/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"M 123-456"`)
}
