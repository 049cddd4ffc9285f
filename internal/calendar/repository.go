package calendar

import (
	"context"
	"database/sql"
	"errors"

	"transport-service/internal/db"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrDayNotFound  = errors.New("non-school day not found")
	ErrDayExists    = errors.New("non-school day already registered for date")
	ErrConfigAbsent = errors.New("school config not initialized")
)

type Repository interface {
	// EnsureConfig creates the singleton config row if it does not
	// exist. Called once at startup; every later read is side-effect
	// free.
	EnsureConfig(ctx context.Context) (*SchoolConfig, error)
	GetConfig(ctx context.Context) (*SchoolConfig, error)
	UpdateConfig(ctx context.Context, cfg *SchoolConfig) error

	FindNonSchoolDay(ctx context.Context, date string) (*NonSchoolDay, error)
	CreateNonSchoolDay(ctx context.Context, day *NonSchoolDay) error
	ListNonSchoolDays(ctx context.Context) ([]NonSchoolDay, error)
	DeleteNonSchoolDay(ctx context.Context, id string) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

func (r *repository) EnsureConfig(ctx context.Context) (*SchoolConfig, error) {
	cfg := new(SchoolConfig)
	err := r.db.NewSelect().Model(cfg).Limit(1).Scan(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	cfg = &SchoolConfig{ID: uuid.NewString()}
	if _, err := r.db.NewInsert().Model(cfg).Exec(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *repository) GetConfig(ctx context.Context) (*SchoolConfig, error) {
	cfg := new(SchoolConfig)
	err := r.db.NewSelect().Model(cfg).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConfigAbsent
		}
		return nil, err
	}
	return cfg, nil
}

func (r *repository) UpdateConfig(ctx context.Context, cfg *SchoolConfig) error {
	_, err := r.db.NewUpdate().
		Model(cfg).
		Column("school_year_start", "school_year_end", "mid_year_break_start", "mid_year_break_end").
		WherePK().
		Exec(ctx)
	return err
}

func (r *repository) FindNonSchoolDay(ctx context.Context, date string) (*NonSchoolDay, error) {
	day := new(NonSchoolDay)
	err := r.db.NewSelect().Model(day).Where("date = ?", date).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	return day, nil
}

func (r *repository) CreateNonSchoolDay(ctx context.Context, day *NonSchoolDay) error {
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	_, err := r.db.NewInsert().Model(day).Exec(ctx)
	if err != nil && db.IsUniqueViolation(err) {
		return ErrDayExists
	}
	return err
}

func (r *repository) ListNonSchoolDays(ctx context.Context) ([]NonSchoolDay, error) {
	var days []NonSchoolDay
	err := r.db.NewSelect().Model(&days).Order("date DESC").Scan(ctx)
	return days, err
}

func (r *repository) DeleteNonSchoolDay(ctx context.Context, id string) error {
	result, err := r.db.NewDelete().Model(&NonSchoolDay{ID: id}).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDayNotFound
	}
	return nil
}
