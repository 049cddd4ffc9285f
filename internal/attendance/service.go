package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"transport-service/internal/calendar"
	"transport-service/internal/clock"
	"transport-service/internal/events"
	"transport-service/internal/fleet"
	"transport-service/internal/metrics"
	"transport-service/internal/student"

	"github.com/google/uuid"
)

var (
	// ErrAlreadySubmitted gates the once-per-day protocol at the
	// application level; the storage unique index backs it up.
	ErrAlreadySubmitted = errors.New("attendance already submitted today")
	// ErrDuplicateRecord is the storage-level conflict: a concurrent
	// submission won the unique index race. Never retried.
	ErrDuplicateRecord = errors.New("attendance record already exists for student and date")
	ErrEmptyBatch      = errors.New("attendance batch is empty")
	ErrInvalidMonth    = errors.New("month must be in YYYY-MM format")
)

// NotSchoolDayError carries the oracle's reason so the client can show
// why capture is closed.
type NotSchoolDayError struct {
	Reason string
}

func (e *NotSchoolDayError) Error() string {
	return "not a school day: " + e.Reason
}

// Oracle is the calendar gate consulted before any capture.
type Oracle interface {
	IsSchoolDay(ctx context.Context, date time.Time) (calendar.Verdict, error)
}

// Fleet resolves a recorder to their vehicle.
type Fleet interface {
	VehicleForRecorder(ctx context.Context, recorderID string) (*fleet.Vehicle, error)
}

// Students is the roster side of the student store.
type Students interface {
	ActiveByVehicle(ctx context.Context, vehicleID string) ([]student.Student, error)
	CountActiveByVehicle(ctx context.Context, vehicleID string) (int, error)
}

type Service interface {
	DailySummary(ctx context.Context, recorderID string) (*Summary, error)
	RosterForToday(ctx context.Context, recorderID string) ([]RosterEntry, error)
	SubmitBatch(ctx context.Context, recorderID string, entries []BatchEntry) ([]*Record, error)
	History(ctx context.Context, recorderID, yearMonth string) ([]HistoryDay, error)
}

type service struct {
	repo      Repository
	oracle    Oracle
	fleet     Fleet
	students  Students
	clock     clock.Clock
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	oracle Oracle,
	fleetRepo Fleet,
	students Students,
	clk clock.Clock,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) Service {
	return &service{
		repo:      repo,
		oracle:    oracle,
		fleet:     fleetRepo,
		students:  students,
		clock:     clk,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) DailySummary(ctx context.Context, recorderID string) (*Summary, error) {
	// One clock read per request; every day-scoped lookup below uses it.
	now := s.clock.Now()
	today := now.Format(clock.DateLayout)

	verdict, err := s.oracle.IsSchoolDay(ctx, now)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.fleet.VehicleForRecorder(ctx, recorderID)
	if err != nil {
		return nil, err
	}

	total, err := s.students.CountActiveByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	present, err := s.repo.CountByRecorderDateStatus(ctx, recorderID, today, StatusPresent)
	if err != nil {
		return nil, err
	}
	absent, err := s.repo.CountByRecorderDateStatus(ctx, recorderID, today, StatusAbsent)
	if err != nil {
		return nil, err
	}

	return &Summary{
		VehiclePlate:     vehicle.Plate,
		DriverName:       vehicle.DriverName,
		TotalStudents:    total,
		PresentToday:     present,
		AbsentToday:      absent,
		IsSchoolDay:      verdict.IsSchoolDay,
		Reason:           verdict.Reason,
		AlreadySubmitted: present+absent > 0,
	}, nil
}

func (s *service) RosterForToday(ctx context.Context, recorderID string) ([]RosterEntry, error) {
	now := s.clock.Now()

	if err := s.gateCapture(ctx, recorderID, now); err != nil {
		return nil, err
	}

	vehicle, err := s.fleet.VehicleForRecorder(ctx, recorderID)
	if err != nil {
		return nil, err
	}

	students, err := s.students.ActiveByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	roster := make([]RosterEntry, 0, len(students))
	for _, st := range students {
		roster = append(roster, RosterEntry{
			StudentID: st.ID,
			Name:      st.Name,
			Grade:     st.Grade,
		})
	}
	return roster, nil
}

func (s *service) SubmitBatch(ctx context.Context, recorderID string, entries []BatchEntry) ([]*Record, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}

	now := s.clock.Now()
	today := now.Format(clock.DateLayout)

	// Re-validate both gates here. Results a client cached from an
	// earlier roster call are never trusted.
	if err := s.gateCapture(ctx, recorderID, now); err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		records = append(records, &Record{
			ID:         uuid.NewString(),
			Date:       today, // server-computed, never the client's date
			StudentID:  entry.StudentID,
			Status:     entry.Status,
			RecorderID: recorderID,
		})
	}

	if err := s.repo.InsertBatch(ctx, records); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "attendance batch recorded",
		"recorder_id", recorderID, "date", today, "records", len(records))
	s.metrics.RecordAttendanceBatch(ctx, len(records))
	events.Emit(ctx, s.publisher, s.logger, events.TypeAttendanceRecorded, map[string]interface{}{
		"recorderId": recorderID,
		"date":       today,
		"records":    len(records),
	})

	return records, nil
}

func (s *service) History(ctx context.Context, recorderID, yearMonth string) ([]HistoryDay, error) {
	start, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	from := start.Format(clock.DateLayout)
	to := start.AddDate(0, 1, -1).Format(clock.DateLayout)

	records, err := s.repo.ListByRecorderBetween(ctx, recorderID, from, to)
	if err != nil {
		return nil, err
	}

	var days []HistoryDay
	for _, rec := range records {
		name := "unknown student"
		if rec.Student != nil {
			name = rec.Student.Name
		}
		entry := HistoryEntry{
			StudentID: rec.StudentID,
			Name:      name,
			Present:   rec.Status == StatusPresent,
		}
		if len(days) == 0 || days[len(days)-1].Date != rec.Date {
			days = append(days, HistoryDay{Date: rec.Date})
		}
		days[len(days)-1].Entries = append(days[len(days)-1].Entries, entry)
	}
	return days, nil
}

// gateCapture enforces the two capture preconditions: today must be a
// school day and the recorder must not have submitted yet.
func (s *service) gateCapture(ctx context.Context, recorderID string, now time.Time) error {
	verdict, err := s.oracle.IsSchoolDay(ctx, now)
	if err != nil {
		return fmt.Errorf("calendar check: %w", err)
	}
	if !verdict.IsSchoolDay {
		return &NotSchoolDayError{Reason: verdict.Reason}
	}

	count, err := s.repo.CountByRecorderAndDate(ctx, recorderID, now.Format(clock.DateLayout))
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadySubmitted
	}
	return nil
}
