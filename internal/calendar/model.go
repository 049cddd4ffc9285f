package calendar

import (
	"time"

	"github.com/uptrace/bun"
)

// NonSchoolDay is an administrator-maintained fact: a single date on
// which no classes run, with a free-text reason ("National holiday",
// "Holy Week", ...). Read-only to the attendance path.
type NonSchoolDay struct {
	bun.BaseModel `bun:"table:non_school_days,alias:nsd"`

	ID        string    `bun:"id,pk,type:uuid" json:"id"`
	Date      string    `bun:"date,notnull,unique" json:"date" validate:"required,datetime=2006-01-02"`
	Reason    string    `bun:"reason,notnull" json:"reason" validate:"required,max=255"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// SchoolConfig is the singleton school-year configuration. Empty date
// fields simply disable the corresponding calendar rule.
type SchoolConfig struct {
	bun.BaseModel `bun:"table:school_config,alias:sc"`

	ID                string    `bun:"id,pk,type:uuid" json:"id"`
	SchoolYearStart   string    `bun:"school_year_start,nullzero" json:"schoolYearStart,omitempty"`
	SchoolYearEnd     string    `bun:"school_year_end,nullzero" json:"schoolYearEnd,omitempty"`
	MidYearBreakStart string    `bun:"mid_year_break_start,nullzero" json:"midYearBreakStart,omitempty"`
	MidYearBreakEnd   string    `bun:"mid_year_break_end,nullzero" json:"midYearBreakEnd,omitempty"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
