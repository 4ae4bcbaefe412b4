package domain

import "time"

// Gateway-reported payment statuses. The admin approval flag is tracked
// independently so a delayed webhook never blocks a manually-verified member.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// PaymentRecord is keyed by owner identity. Export is permitted when the
// gateway reports paid or an administrator has approved the member manually.
type PaymentRecord struct {
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	AdminApproved bool      `json:"admin_approved"`
	Amount        float64   `json:"amount"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Unlocked reports whether the record satisfies the export gate.
func (p PaymentRecord) Unlocked() bool {
	return p.Status == PaymentStatusPaid || p.AdminApproved
}
