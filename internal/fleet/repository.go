package fleet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

var (
	ErrRecorderNotFound  = errors.New("recorder not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrNoVehicleAssigned = errors.New("recorder has no vehicle assigned")
)

type Repository interface {
	GetRecorder(ctx context.Context, id string) (*Recorder, error)
	// VehicleForRecorder resolves a recorder to their assigned vehicle.
	// Fails with ErrRecorderNotFound or ErrNoVehicleAssigned.
	VehicleForRecorder(ctx context.Context, recorderID string) (*Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*Vehicle, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(database *bun.DB) Repository {
	return &repository{db: database}
}

func (r *repository) GetRecorder(ctx context.Context, id string) (*Recorder, error) {
	recorder := new(Recorder)
	err := r.db.NewSelect().
		Model(recorder).
		Relation("Vehicle").
		Where("rec.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecorderNotFound
		}
		return nil, err
	}
	return recorder, nil
}

func (r *repository) VehicleForRecorder(ctx context.Context, recorderID string) (*Vehicle, error) {
	recorder, err := r.GetRecorder(ctx, recorderID)
	if err != nil {
		return nil, err
	}
	if recorder.VehicleID == "" || recorder.Vehicle == nil {
		return nil, ErrNoVehicleAssigned
	}
	return recorder.Vehicle, nil
}

func (r *repository) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	vehicle := new(Vehicle)
	err := r.db.NewSelect().Model(vehicle).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (r *repository) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	var vehicles []Vehicle
	err := r.db.NewSelect().Model(&vehicles).Order("name ASC").Scan(ctx)
	return vehicles, err
}
