// internal/repository/postgres/usage_repo.go
package postgres

import (
	"context"
	"fmt"

	"resellerpro-service/internal/domain/entitlement"

	"github.com/jackc/pgx/v5/pgxpool"
)

// usageTables maps a resource key to the dashboard table its rows
// live in. The entitlement core only ever reads counts from these
// tables; their CRUD belongs to the rest of the dashboard.
var usageTables = map[entitlement.ResourceKey]string{
	entitlement.ResourceOrders:        "orders",
	entitlement.ResourceEnquiries:     "enquiries",
	entitlement.ResourceCustomers:     "customers",
	entitlement.ResourceProducts:      "products",
	entitlement.ResourceProductImages: "product_images",
}

type UsageRepository struct {
	db *pgxpool.Pool
}

func NewUsageRepository(db *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{db: db}
}

// CountForUser returns the user's current row count in a resource
// category. The table name comes from the closed usageTables map,
// never from input.
func (r *UsageRepository) CountForUser(ctx context.Context, userID int64, resource entitlement.ResourceKey) (int, error) {
	table, ok := usageTables[resource]
	if !ok {
		return 0, fmt.Errorf("unknown resource %q", resource)
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1`, table)

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, storeError("failed to count "+table, err)
	}

	return count, nil
}
