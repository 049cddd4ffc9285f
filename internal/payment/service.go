package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"transport-service/internal/clock"
	"transport-service/internal/events"
	"transport-service/internal/metrics"
	"transport-service/internal/student"

	"github.com/google/uuid"
)

// amountEpsilon absorbs floating-point representation error in money
// comparisons. Never compare raw amounts for equality.
const amountEpsilon = 0.01

var ErrDuplicateMonth = errors.New("duplicate payment for month")

// BalanceExceededError rejects a closing-month payment larger than what
// is still owed; Remaining lets the caller self-correct.
type BalanceExceededError struct {
	Remaining float64
}

func (e *BalanceExceededError) Error() string {
	return fmt.Sprintf("amount exceeds remaining balance of %.2f", e.Remaining)
}

// AmountMismatchError rejects a regular-month payment that is not the
// full tuition price.
type AmountMismatchError struct {
	Expected float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("amount must equal full tuition of %.2f", e.Expected)
}

// Students is the slice of the student store the ledger needs.
type Students interface {
	GetByID(ctx context.Context, id string) (*student.Student, error)
}

type Service interface {
	CreateSingle(ctx context.Context, studentID, month string, amount float64) (*Payment, error)
	CreateBatch(ctx context.Context, studentID string, months []string, amountPerMonth float64, date string) ([]*Payment, error)
	FindByStudents(ctx context.Context, studentIDs []string) ([]Payment, error)
}

type service struct {
	repo         Repository
	students     Students
	clock        clock.Clock
	closingMonth string
	publisher    events.Publisher
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewService(
	repo Repository,
	students Students,
	clk clock.Clock,
	closingMonth string,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) Service {
	return &service{
		repo:         repo,
		students:     students,
		clock:        clk,
		closingMonth: closingMonth,
		publisher:    publisher,
		metrics:      m,
		logger:       logger,
	}
}

// closingMonthLabel is the one month label of the current school year
// that accepts partial payments, e.g. "November 2025".
func (s *service) closingMonthLabel() string {
	return fmt.Sprintf("%s %d", s.closingMonth, s.clock.Now().Year())
}

func (s *service) CreateSingle(ctx context.Context, studentID, month string, amount float64) (*Payment, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByStudentAndMonth(ctx, studentID, month)
	if err != nil {
		return nil, err
	}

	if month == s.closingMonthLabel() {
		// Closing month: partial payments accumulate up to the price.
		var paidSoFar float64
		for _, p := range existing {
			paidSoFar += p.Amount
		}
		remaining := st.MonthlyPrice - paidSoFar
		if amount > remaining+amountEpsilon {
			return nil, &BalanceExceededError{Remaining: remaining}
		}
	} else {
		// Regular month: exactly one payment, at the full price.
		if len(existing) > 0 {
			return nil, ErrDuplicateMonth
		}
		if math.Abs(amount-st.MonthlyPrice) > amountEpsilon {
			return nil, &AmountMismatchError{Expected: st.MonthlyPrice}
		}
	}

	p := &Payment{
		ID:          uuid.NewString(),
		StudentID:   st.ID,
		StudentName: st.Name,
		Amount:      amount,
		Month:       month,
		Date:        clock.Today(s.clock),
		Status:      StatusPaid,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tuition payment recorded",
		"student_id", st.ID, "month", month, "amount", amount)
	s.metrics.RecordPayment(ctx)
	events.Emit(ctx, s.publisher, s.logger, events.TypePaymentReceived, map[string]interface{}{
		"studentId": st.ID,
		"month":     month,
		"amount":    amount,
	})

	return p, nil
}

// CreateBatch settles several months in one call. Months that already
// have a payment are skipped, so resubmitting the same batch is
// idempotent: a fully settled batch returns an empty list.
func (s *service) CreateBatch(ctx context.Context, studentID string, months []string, amountPerMonth float64, date string) ([]*Payment, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByStudentAndMonths(ctx, studentID, months)
	if err != nil {
		return nil, err
	}
	settled := make(map[string]bool, len(existing))
	for _, p := range existing {
		settled[p.Month] = true
	}

	created := make([]*Payment, 0, len(months))
	for _, month := range months {
		if settled[month] {
			continue
		}
		settled[month] = true // a month listed twice settles once
		created = append(created, &Payment{
			ID:          uuid.NewString(),
			StudentID:   st.ID,
			StudentName: st.Name,
			Amount:      amountPerMonth,
			Month:       month,
			Date:        date,
			Status:      StatusPaid,
		})
	}

	if len(created) == 0 {
		return []*Payment{}, nil
	}

	if err := s.repo.InsertBatch(ctx, created); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "batch settlement recorded",
		"student_id", st.ID, "months_settled", len(created))
	s.metrics.RecordBatchSettlement(ctx, len(created))
	events.Emit(ctx, s.publisher, s.logger, events.TypePaymentReceived, map[string]interface{}{
		"studentId":     st.ID,
		"monthsSettled": len(created),
		"amountPerMonth": amountPerMonth,
	})

	return created, nil
}

func (s *service) FindByStudents(ctx context.Context, studentIDs []string) ([]Payment, error) {
	// Empty input short-circuits without touching the store.
	if len(studentIDs) == 0 {
		return []Payment{}, nil
	}
	return s.repo.ListByStudents(ctx, studentIDs)
}
