// internal/repository/postgres/db.go
package postgres

import (
	"errors"
	"fmt"

	xerrors "resellerpro-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// undefinedTable is the SQLSTATE for a missing relation. It gets its
// own sentinel because it means the deployment is broken, not the
// request.
const undefinedTable = "42P01"

// storeError wraps a store failure with the failed operation, mapping
// missing-relation errors to ErrSchemaMissing for operators.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("%s: %w: %s", op, xerrors.ErrSchemaMissing, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
