package fleet

import (
	"time"

	"github.com/uptrace/bun"
)

// Vehicle is one van on a route.
type Vehicle struct {
	bun.BaseModel `bun:"table:vehicles,alias:v"`

	ID         string    `bun:"id,pk,type:uuid" json:"id"`
	Name       string    `bun:"name,notnull" json:"name" validate:"required"`
	Plate      string    `bun:"plate,notnull,unique" json:"plate" validate:"required"`
	DriverName string    `bun:"driver_name" json:"driverName"`
	Capacity   int       `bun:"capacity" json:"capacity" validate:"min=0"`
	Status     string    `bun:"status,notnull,default:'active'" json:"status"` // active | maintenance | retired
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Recorder is the van assistant who captures attendance. Identity lives
// with the external provider; this row only binds a provider user id to
// a vehicle.
type Recorder struct {
	bun.BaseModel `bun:"table:recorders,alias:rec"`

	ID        string    `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Phone     string    `bun:"phone,unique" json:"phone"`
	VehicleID string    `bun:"vehicle_id,nullzero,type:uuid" json:"vehicleId,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Vehicle *Vehicle `bun:"rel:belongs-to,join:vehicle_id=id" json:"vehicle,omitempty"`
}
