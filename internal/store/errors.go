package store

import (
	"errors"

	"LotusLedger/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	errClientExists  = &models.ValidationError{Message: "a client with this name already exists"}
	errClientInUse   = &models.ValidationError{Message: "client still has bills or receipts"}
	errBillExists    = &models.ValidationError{Message: "bill number already exists"}
	errUnknownClient = &models.ValidationError{Message: "client does not exist"}
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"

	clientsNameIndex    = "clients_name_lower_key"
	billsBillNoIndex    = "bills_bill_no_key"
	receiptsBillNoIndex = "receipts_bill_no_key"
)

// translate maps PostgreSQL constraint errors onto the model errors the rest
// of the service understands. billNo names the receipt bill number for
// conflict errors.
func translate(err error, billNo string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case receiptsBillNoIndex:
			return models.NewConflictError([]string{billNo})
		case clientsNameIndex:
			return errClientExists
		case billsBillNoIndex:
			return errBillExists
		default:
			return &models.ValidationError{Message: "a record with the same unique value already exists"}
		}
	case pgForeignKeyViolation:
		return errUnknownClient
	case pgCheckViolation:
		return &models.ValidationError{Message: "some fields have invalid values"}
	}
	return err
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
