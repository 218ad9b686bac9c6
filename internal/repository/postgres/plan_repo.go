// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"errors"

	"resellerpro-service/internal/domain/entitlement"
	xerrors "resellerpro-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindByName retrieves a plan by its stable key (e.g. "free").
func (r *PlanRepository) FindByName(ctx context.Context, name string) (*entitlement.Plan, error) {
	query := `
		SELECT id, name, display_name, features,
		       limit_orders, limit_enquiries, limit_customers,
		       limit_products, limit_product_images,
		       created_at, updated_at
		FROM plans
		WHERE name = $1
	`

	var plan entitlement.Plan
	err := r.db.QueryRow(ctx, query, name).Scan(
		&plan.ID, &plan.Name, &plan.DisplayName, &plan.Features,
		&plan.LimitOrders, &plan.LimitEnquiries, &plan.LimitCustomers,
		&plan.LimitProducts, &plan.LimitProductImages,
		&plan.CreatedAt, &plan.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, storeError("failed to find plan", err)
	}

	return &plan, nil
}

// List returns the whole plan catalog ordered by tier.
func (r *PlanRepository) List(ctx context.Context) ([]entitlement.Plan, error) {
	query := `
		SELECT id, name, display_name, features,
		       limit_orders, limit_enquiries, limit_customers,
		       limit_products, limit_product_images,
		       created_at, updated_at
		FROM plans
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("failed to list plans", err)
	}
	defer rows.Close()

	var plans []entitlement.Plan
	for rows.Next() {
		var plan entitlement.Plan
		if err := rows.Scan(
			&plan.ID, &plan.Name, &plan.DisplayName, &plan.Features,
			&plan.LimitOrders, &plan.LimitEnquiries, &plan.LimitCustomers,
			&plan.LimitProducts, &plan.LimitProductImages,
			&plan.CreatedAt, &plan.UpdatedAt,
		); err != nil {
			return nil, storeError("failed to scan plan", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("failed to read plans", err)
	}

	return plans, nil
}
