package attendance

import (
	"time"

	"transport-service/internal/student"

	"github.com/uptrace/bun"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Record is one student's attendance on one civil date. Write-once; the
// composite unique index on (date, student_id) is the authoritative
// guard against double capture.
type Record struct {
	bun.BaseModel `bun:"table:attendance_records,alias:ar"`

	ID         string    `bun:"id,pk,type:uuid" json:"id"`
	Date       string    `bun:"date,notnull,unique:attendance_date_student" json:"date"`
	StudentID  string    `bun:"student_id,notnull,type:uuid,unique:attendance_date_student" json:"studentId"`
	Status     string    `bun:"status,notnull" json:"status"`
	RecorderID string    `bun:"recorder_id,notnull,type:uuid" json:"recorderId"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Student *student.Student `bun:"rel:belongs-to,join:student_id=id" json:"-"`
}

// Summary backs the recorder's dashboard for the current day.
type Summary struct {
	VehiclePlate     string `json:"vehiclePlate"`
	DriverName       string `json:"driverName"`
	TotalStudents    int    `json:"totalStudents"`
	PresentToday     int    `json:"presentToday"`
	AbsentToday      int    `json:"absentToday"`
	IsSchoolDay      bool   `json:"isSchoolDay"`
	Reason           string `json:"reason,omitempty"`
	AlreadySubmitted bool   `json:"alreadySubmitted"`
}

// RosterEntry is one student on the capture surface.
type RosterEntry struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
}

// BatchEntry is one submitted status; the server stamps date and recorder.
type BatchEntry struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	Status    string `json:"status" validate:"required,oneof=present absent"`
}

type HistoryEntry struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Present   bool   `json:"present"`
}

type HistoryDay struct {
	Date    string         `json:"date"`
	Entries []HistoryEntry `json:"entries"`
}
