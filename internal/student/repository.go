package student

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

var ErrStudentNotFound = errors.New("student not found")

type Repository interface {
	GetByID(ctx context.Context, id string) (*Student, error)
	// ActiveByVehicle returns the active roster of a vehicle ordered by name.
	ActiveByVehicle(ctx context.Context, vehicleID string) ([]Student, error)
	CountActiveByVehicle(ctx context.Context, vehicleID string) (int, error)
	AllActive(ctx context.Context) ([]Student, error)
	FindByGuardian(ctx context.Context, guardianUserID string) ([]Student, error)
	// UpdateAll persists grade/active changes for many students as a
	// single batch inside one transaction.
	UpdateAll(ctx context.Context, students []*Student) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Student, error) {
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) ActiveByVehicle(ctx context.Context, vehicleID string) ([]Student, error) {
	var students []Student
	err := r.db.NewSelect().
		Model(&students).
		Where("vehicle_id = ?", vehicleID).
		Where("active = TRUE").
		Order("name ASC").
		Scan(ctx)
	return students, err
}

func (r *repository) CountActiveByVehicle(ctx context.Context, vehicleID string) (int, error) {
	return r.db.NewSelect().
		Model((*Student)(nil)).
		Where("vehicle_id = ?", vehicleID).
		Where("active = TRUE").
		Count(ctx)
}

func (r *repository) AllActive(ctx context.Context) ([]Student, error) {
	var students []Student
	err := r.db.NewSelect().
		Model(&students).
		Where("active = TRUE").
		Order("name ASC").
		Scan(ctx)
	return students, err
}

func (r *repository) FindByGuardian(ctx context.Context, guardianUserID string) ([]Student, error) {
	var students []Student
	err := r.db.NewSelect().
		Model(&students).
		Where("guardian_user_id = ?", guardianUserID).
		Order("name ASC").
		Scan(ctx)
	return students, err
}

func (r *repository) UpdateAll(ctx context.Context, students []*Student) error {
	if len(students) == 0 {
		return nil
	}
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model(&students).
			Column("grade", "active").
			Bulk().
			Exec(ctx)
		return err
	})
}
