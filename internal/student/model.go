package student

import (
	"time"

	"github.com/uptrace/bun"
)

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID           string  `bun:"id,pk,type:uuid" json:"id"`
	Name         string  `bun:"name,notnull" json:"name" validate:"required"`
	GuardianName string  `bun:"guardian_name,notnull" json:"guardianName" validate:"required"`
	// GuardianUserID links to the identity provider's user record.
	GuardianUserID string  `bun:"guardian_user_id,nullzero,type:uuid" json:"guardianUserId,omitempty"`
	Grade          string  `bun:"grade,notnull" json:"grade" validate:"required"`
	// MonthlyPrice is the full tuition owed per regular month.
	MonthlyPrice float64 `bun:"monthly_price,notnull,default:0" json:"monthlyPrice" validate:"min=0"`
	Active       bool    `bun:"active,notnull,default:true" json:"active"`
	VehicleID    string  `bun:"vehicle_id,nullzero,type:uuid" json:"vehicleId,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
