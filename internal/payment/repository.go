package payment

import (
	"context"

	"github.com/uptrace/bun"
)

type Repository interface {
	Insert(ctx context.Context, payment *Payment) error
	// InsertBatch persists all payments in one statement.
	InsertBatch(ctx context.Context, payments []*Payment) error
	ListByStudentAndMonth(ctx context.Context, studentID, month string) ([]Payment, error)
	ListByStudentAndMonths(ctx context.Context, studentID string, months []string) ([]Payment, error)
	ListByStudents(ctx context.Context, studentIDs []string) ([]Payment, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Insert(ctx context.Context, payment *Payment) error {
	_, err := r.db.NewInsert().Model(payment).Exec(ctx)
	return err
}

func (r *repository) InsertBatch(ctx context.Context, payments []*Payment) error {
	_, err := r.db.NewInsert().Model(&payments).Exec(ctx)
	return err
}

func (r *repository) ListByStudentAndMonth(ctx context.Context, studentID, month string) ([]Payment, error) {
	var payments []Payment
	err := r.db.NewSelect().
		Model(&payments).
		Where("student_id = ?", studentID).
		Where("month = ?", month).
		Scan(ctx)
	return payments, err
}

func (r *repository) ListByStudentAndMonths(ctx context.Context, studentID string, months []string) ([]Payment, error) {
	var payments []Payment
	err := r.db.NewSelect().
		Model(&payments).
		Where("student_id = ?", studentID).
		Where("month IN (?)", bun.In(months)).
		Scan(ctx)
	return payments, err
}

func (r *repository) ListByStudents(ctx context.Context, studentIDs []string) ([]Payment, error) {
	var payments []Payment
	err := r.db.NewSelect().
		Model(&payments).
		Where("student_id IN (?)", bun.In(studentIDs)).
		Order("date DESC", "created_at DESC").
		Scan(ctx)
	return payments, err
}
