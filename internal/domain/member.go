package domain

import "time"

// MemberRecord is profile metadata created at account registration, used by
// the admin moderation surface.
type MemberRecord struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberWithPayment joins a member with its payment state for the admin
// members view. Members without a payment row show as pending/unapproved.
type MemberWithPayment struct {
	MemberRecord
	PaymentStatus string `json:"payment_status"`
	AdminApproved bool   `json:"admin_approved"`
}

// StatsRange selects the window for admin dashboard aggregates.
type StatsRange string

const (
	StatsRangeAll    StatsRange = "all"
	StatsRange30Days StatsRange = "30d"
)

// AdminStats are the dashboard aggregates, recomputed per range.
type AdminStats struct {
	Members       int64          `json:"members"`
	CVs           int64          `json:"cvs"`
	Revenue       float64        `json:"revenue"`
	RecentMembers []MemberRecord `json:"recent_members"`
}
