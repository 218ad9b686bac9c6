// internal/domain/entitlement/entity.go
package entitlement

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusSuspended SubscriptionStatus = "suspended"
)

// FreePeriod is the effectively-unbounded window written when a
// subscription is downgraded to the free plan. A far-future end date
// is used instead of NULL so every subscription keeps a period end.
const FreePeriod = 10 * 365 * 24 * time.Hour

// Subscription is the single billing row a user owns. Exactly one row
// exists per user; it is created at signup and advanced by payment
// processing, both outside this service.
type Subscription struct {
	ID                 int64              `json:"id"`
	UserID             int64              `json:"user_id"`
	PlanID             int64              `json:"plan_id"`
	Status             SubscriptionStatus `json:"status"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   sql.NullTime       `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Expired reports whether the paid period has lapsed. A subscription
// with no period end never expires.
func (s *Subscription) Expired(now time.Time) bool {
	return s.CurrentPeriodEnd.Valid && s.CurrentPeriodEnd.Time.Before(now)
}

// Plan is a row of the billing plan catalog. Rows are administrative
// configuration; this service only ever reads them.
type Plan struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Features    pq.StringArray `json:"features,omitempty"`

	// Per-resource limits; NULL means unbounded.
	LimitOrders        sql.NullInt32 `json:"limit_orders,omitempty"`
	LimitEnquiries     sql.NullInt32 `json:"limit_enquiries,omitempty"`
	LimitCustomers     sql.NullInt32 `json:"limit_customers,omitempty"`
	LimitProducts      sql.NullInt32 `json:"limit_products,omitempty"`
	LimitProductImages sql.NullInt32 `json:"limit_product_images,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entitlement is a subscription joined with its resolved plan, as
// observed after lazy reconciliation.
type Entitlement struct {
	Subscription Subscription `json:"subscription"`
	Plan         Plan         `json:"plan"`
}

// Key returns the plan key of the entitlement's plan, with unknown
// names mapped explicitly to PlanKeyUnknown.
func (e *Entitlement) Key() PlanKey {
	return ParsePlanKey(e.Plan.Name)
}
