package promotion

import (
	"context"
	"log/slog"

	"transport-service/internal/events"
	"transport-service/internal/metrics"
	"transport-service/internal/student"
)

// Summary reports one promotion sweep.
type Summary struct {
	TotalConsidered int `json:"totalConsidered"`
	Promoted        int `json:"promoted"`
	Graduated       int `json:"graduated"`
}

// Students is the slice of the student store the engine needs.
type Students interface {
	AllActive(ctx context.Context) ([]student.Student, error)
	UpdateAll(ctx context.Context, students []*student.Student) error
}

type Service interface {
	// PromoteAll moves every active student one step up the grade
	// ladder in a single batch write. Run at most once per school
	// cycle; concurrent invocations are not supported.
	PromoteAll(ctx context.Context) (*Summary, error)
}

type service struct {
	students  Students
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(students Students, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		students:  students,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) PromoteAll(ctx context.Context) (*Summary, error) {
	active, err := s.students.AllActive(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalConsidered: len(active)}
	if len(active) == 0 {
		return summary, nil
	}

	changed := make([]*student.Student, 0, len(active))
	for i := range active {
		st := &active[i]
		next, ok := nextGrade(st.Grade)
		if !ok {
			// Unmapped grade: leave the student untouched.
			continue
		}
		if next == graduateMarker {
			st.Grade = GradeGraduated
			st.Active = false
			summary.Graduated++
		} else {
			st.Grade = next
			summary.Promoted++
		}
		changed = append(changed, st)
	}

	if err := s.students.UpdateAll(ctx, changed); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "promotion sweep completed",
		"considered", summary.TotalConsidered,
		"promoted", summary.Promoted,
		"graduated", summary.Graduated)
	s.metrics.RecordPromotion(ctx, summary.Promoted, summary.Graduated)
	events.Emit(ctx, s.publisher, s.logger, events.TypeStudentsPromoted, summary)

	return summary, nil
}
