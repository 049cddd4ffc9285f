package payment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"transport-service/internal/clock"
	"transport-service/internal/payment"
	"transport-service/internal/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	payments []payment.Payment
	listed   int
}

func (f *fakeRepo) Insert(ctx context.Context, p *payment.Payment) error {
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakeRepo) InsertBatch(ctx context.Context, payments []*payment.Payment) error {
	for _, p := range payments {
		f.payments = append(f.payments, *p)
	}
	return nil
}

func (f *fakeRepo) ListByStudentAndMonth(ctx context.Context, studentID, month string) ([]payment.Payment, error) {
	var out []payment.Payment
	for _, p := range f.payments {
		if p.StudentID == studentID && p.Month == month {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByStudentAndMonths(ctx context.Context, studentID string, months []string) ([]payment.Payment, error) {
	wanted := make(map[string]bool, len(months))
	for _, m := range months {
		wanted[m] = true
	}
	var out []payment.Payment
	for _, p := range f.payments {
		if p.StudentID == studentID && wanted[p.Month] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByStudents(ctx context.Context, studentIDs []string) ([]payment.Payment, error) {
	f.listed++
	wanted := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}
	var out []payment.Payment
	for _, p := range f.payments {
		if wanted[p.StudentID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeStudents struct {
	students map[string]*student.Student
}

func (f *fakeStudents) GetByID(ctx context.Context, id string) (*student.Student, error) {
	if st, ok := f.students[id]; ok {
		return st, nil
	}
	return nil, student.ErrStudentNotFound
}

const anaID = "0a6e27c8-1111-4f4b-8a68-9a6d7c2d1e01"

func newService(t *testing.T) (payment.Service, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	students := &fakeStudents{students: map[string]*student.Student{
		anaID: {ID: anaID, Name: "Ana", MonthlyPrice: 100, Active: true},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.Fixed{Instant: time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)}
	svc := payment.NewService(repo, students, clk, "November", nil, nil, logger)
	return svc, repo
}

func TestCreateSingle_RegularMonth(t *testing.T) {
	svc, repo := newService(t)

	p, err := svc.CreateSingle(context.Background(), anaID, "March 2025", 100)
	require.NoError(t, err)
	assert.Equal(t, anaID, p.StudentID)
	assert.Equal(t, "Ana", p.StudentName)
	assert.Equal(t, "2025-10-20", p.Date)
	assert.Equal(t, payment.StatusPaid, p.Status)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, repo.payments, 1)
}

func TestCreateSingle_RegularMonthDuplicate(t *testing.T) {
	svc, repo := newService(t)

	_, err := svc.CreateSingle(context.Background(), anaID, "March 2025", 100)
	require.NoError(t, err)

	_, err = svc.CreateSingle(context.Background(), anaID, "March 2025", 100)
	assert.ErrorIs(t, err, payment.ErrDuplicateMonth)
	assert.Len(t, repo.payments, 1)
}

func TestCreateSingle_RegularMonthWrongAmount(t *testing.T) {
	svc, _ := newService(t)

	for _, amount := range []float64{99.5, 100.5, 40} {
		_, err := svc.CreateSingle(context.Background(), anaID, "March 2025", amount)
		var mismatch *payment.AmountMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 100.0, mismatch.Expected)
	}
}

func TestCreateSingle_RegularMonthToleratesRoundingNoise(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateSingle(context.Background(), anaID, "March 2025", 99.999)
	assert.NoError(t, err)
}

func TestCreateSingle_ClosingMonthPartials(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	// Price 100: 60 paid so far leaves a balance of 40.
	_, err := svc.CreateSingle(ctx, anaID, "November 2025", 60)
	require.NoError(t, err)

	_, err = svc.CreateSingle(ctx, anaID, "November 2025", 41)
	var exceeded *payment.BalanceExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.InDelta(t, 40.0, exceeded.Remaining, 0.001)

	_, err = svc.CreateSingle(ctx, anaID, "November 2025", 40)
	require.NoError(t, err)
	assert.Len(t, repo.payments, 2)
}

func TestCreateSingle_ClosingMonthFullySettled(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateSingle(ctx, anaID, "November 2025", 100)
	require.NoError(t, err)

	_, err = svc.CreateSingle(ctx, anaID, "November 2025", 5)
	var exceeded *payment.BalanceExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.InDelta(t, 0.0, exceeded.Remaining, 0.001)
}

func TestCreateSingle_ClosingMonthOfAnotherYearIsRegular(t *testing.T) {
	svc, _ := newService(t)

	// Only the current year's closing month takes partials.
	_, err := svc.CreateSingle(context.Background(), anaID, "November 2024", 60)
	var mismatch *payment.AmountMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestCreateSingle_UnknownStudent(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateSingle(context.Background(), "missing", "March 2025", 100)
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestCreateBatch_SettlesUnpaidMonthsOnly(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.CreateSingle(ctx, anaID, "February 2025", 100)
	require.NoError(t, err)

	months := []string{"February 2025", "March 2025", "April 2025"}
	created, err := svc.CreateBatch(ctx, anaID, months, 100, "2025-04-02")
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "March 2025", created[0].Month)
	assert.Equal(t, "April 2025", created[1].Month)
	assert.Equal(t, "2025-04-02", created[0].Date)
	assert.Len(t, repo.payments, 3)
}

func TestCreateBatch_Resubmission(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	months := []string{"March 2025", "April 2025"}

	first, err := svc.CreateBatch(ctx, anaID, months, 100, "2025-04-02")
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := svc.CreateBatch(ctx, anaID, months, 100, "2025-04-02")
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, repo.payments, 2, "resubmitting must not add rows")
}

func TestCreateBatch_RepeatedMonthSettlesOnce(t *testing.T) {
	svc, repo := newService(t)

	created, err := svc.CreateBatch(context.Background(), anaID,
		[]string{"March 2025", "March 2025"}, 100, "2025-03-03")
	require.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Len(t, repo.payments, 1)
}

func TestFindByStudents(t *testing.T) {
	svc, repo := newService(t)

	_, err := svc.CreateSingle(context.Background(), anaID, "March 2025", 100)
	require.NoError(t, err)

	payments, err := svc.FindByStudents(context.Background(), []string{anaID})
	require.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Equal(t, 1, repo.listed)
}

func TestFindByStudents_EmptyInput(t *testing.T) {
	svc, repo := newService(t)

	payments, err := svc.FindByStudents(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, payments)
	assert.Empty(t, payments)
	assert.Zero(t, repo.listed, "empty input must not reach the store")
}
