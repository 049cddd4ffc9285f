package payment

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusPaid    = "paid"
	StatusPending = "pending"
)

// Payment is one tuition payment for one student and one month label
// ("March 2025"). Created by the ledger, never mutated by it;
// corrections are an administrative action outside this service.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	ID          string    `bun:"id,pk,type:uuid" json:"id"`
	StudentID   string    `bun:"student_id,notnull,type:uuid" json:"studentId"`
	StudentName string    `bun:"student_name,notnull" json:"studentName"`
	Amount      float64   `bun:"amount,notnull" json:"amount"`
	Month       string    `bun:"month,notnull" json:"month"`
	Date        string    `bun:"date,nullzero" json:"date,omitempty"`
	Status      string    `bun:"status,notnull,default:'paid'" json:"status"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
