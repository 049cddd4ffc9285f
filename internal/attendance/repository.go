package attendance

import (
	"context"

	"transport-service/internal/db"

	"github.com/uptrace/bun"
)

type Repository interface {
	// InsertBatch writes all records in one statement: either every
	// entry lands or none does. A unique-index hit on (date,
	// student_id) surfaces as ErrDuplicateRecord.
	InsertBatch(ctx context.Context, records []*Record) error
	CountByRecorderAndDate(ctx context.Context, recorderID, date string) (int, error)
	CountByRecorderDateStatus(ctx context.Context, recorderID, date, status string) (int, error)
	// ListByRecorderBetween returns the recorder's records in
	// [from, to], student relation loaded, ordered by date.
	ListByRecorderBetween(ctx context.Context, recorderID, from, to string) ([]Record, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

func (r *repository) InsertBatch(ctx context.Context, records []*Record) error {
	_, err := r.db.NewInsert().Model(&records).Exec(ctx)
	if err != nil && db.IsUniqueViolation(err) {
		return ErrDuplicateRecord
	}
	return err
}

func (r *repository) CountByRecorderAndDate(ctx context.Context, recorderID, date string) (int, error) {
	return r.db.NewSelect().
		Model((*Record)(nil)).
		Where("recorder_id = ?", recorderID).
		Where("date = ?", date).
		Count(ctx)
}

func (r *repository) CountByRecorderDateStatus(ctx context.Context, recorderID, date, status string) (int, error) {
	return r.db.NewSelect().
		Model((*Record)(nil)).
		Where("recorder_id = ?", recorderID).
		Where("date = ?", date).
		Where("status = ?", status).
		Count(ctx)
}

func (r *repository) ListByRecorderBetween(ctx context.Context, recorderID, from, to string) ([]Record, error) {
	var records []Record
	err := r.db.NewSelect().
		Model(&records).
		Relation("Student").
		Where("recorder_id = ?", recorderID).
		Where("ar.date >= ?", from).
		Where("ar.date <= ?", to).
		Order("ar.date ASC", "ar.created_at ASC").
		Scan(ctx)
	return records, err
}
