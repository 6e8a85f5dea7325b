package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isDuplicateReference detecta el choque contra el índice único de referencias
// de movimiento (uq_movements_reference): la referencia ya fue aplicada al
// ledger. Un 23505 contra otro constraint (p.ej. la PK) no cuenta como
// referencia duplicada.
func isDuplicateReference(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" { // unique_violation
			return false
		}
		return pgErr.ConstraintName == "" || pgErr.ConstraintName == "uq_movements_reference"
	}
	return strings.Contains(err.Error(), "23505")
}
