// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"time"

	"resellerpro-service/internal/domain/entitlement"
	xerrors "resellerpro-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// FindByUser loads a user's subscription joined with its plan. Every
// user has at most one subscription row (user_id is unique).
func (r *SubscriptionRepository) FindByUser(ctx context.Context, userID int64) (*entitlement.Entitlement, error) {
	query := `
		SELECT s.id, s.user_id, s.plan_id, s.status,
		       s.current_period_start, s.current_period_end, s.cancel_at_period_end,
		       s.created_at, s.updated_at,
		       p.id, p.name, p.display_name, p.features,
		       p.limit_orders, p.limit_enquiries, p.limit_customers,
		       p.limit_products, p.limit_product_images,
		       p.created_at, p.updated_at
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.user_id = $1
	`

	var ent entitlement.Entitlement
	sub := &ent.Subscription
	plan := &ent.Plan

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.CancelAtPeriodEnd,
		&sub.CreatedAt, &sub.UpdatedAt,
		&plan.ID, &plan.Name, &plan.DisplayName, &plan.Features,
		&plan.LimitOrders, &plan.LimitEnquiries, &plan.LimitCustomers,
		&plan.LimitProducts, &plan.LimitProductImages,
		&plan.CreatedAt, &plan.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNoSubscription
	}
	if err != nil {
		return nil, storeError("failed to find subscription", err)
	}

	return &ent, nil
}

// MoveToPlan rewrites the subscription onto another plan with a fresh
// period. The write is a single-row update with fixed target values,
// so concurrent callers converge on the same state.
func (r *SubscriptionRepository) MoveToPlan(ctx context.Context, subscriptionID, planID int64, periodStart, periodEnd time.Time) error {
	query := `
		UPDATE subscriptions
		SET plan_id = $1, status = $2,
		    current_period_start = $3, current_period_end = $4,
		    cancel_at_period_end = FALSE, updated_at = $5
		WHERE id = $6
	`

	tag, err := r.db.Exec(ctx, query,
		planID, entitlement.StatusActive, periodStart, periodEnd, time.Now(), subscriptionID,
	)
	if err != nil {
		return storeError("failed to move subscription to plan", err)
	}

	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
