package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"LotusLedger/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBExecutor is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBExecutor interface {
	QueryRow(ctx context.Context, sql string, arguments ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
}

// Postgres is the production Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) View(ctx context.Context, fn func(q Queries) error) error {
	return fn(&pgQueries{db: p.pool})
}

func (p *Postgres) WithTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgQueries{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pgQueries struct {
	db DBExecutor
}

const clientColumns = `id, name, address, gst_no, pan_no, remarks`

func scanClient(row pgx.Row) (models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.GSTNo, &c.PANNo, &c.Remarks)
	return c, err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

func (q *pgQueries) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := q.db.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY lower(name), id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *pgQueries) GetClient(ctx context.Context, id int64) (models.Client, error) {
	c, err := scanClient(q.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	return c, notFound(err)
}

func (q *pgQueries) FindClientByName(ctx context.Context, name string) (models.Client, bool, error) {
	c, err := scanClient(q.db.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE lower(name) = lower($1)`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Client{}, false, nil
	}
	if err != nil {
		return models.Client{}, false, err
	}
	return c, true, nil
}

func (q *pgQueries) CreateClient(ctx context.Context, c *models.Client) error {
	err := q.db.QueryRow(ctx, `
		INSERT INTO clients (name, address, gst_no, pan_no, remarks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.Name, c.Address, c.GSTNo, c.PANNo, c.Remarks,
	).Scan(&c.ID)
	return translate(err, "")
}

func (q *pgQueries) UpdateClient(ctx context.Context, c models.Client) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE clients SET name = $2, address = $3, gst_no = $4, pan_no = $5, remarks = $6
		WHERE id = $1`,
		c.ID, c.Name, c.Address, c.GSTNo, c.PANNo, c.Remarks,
	)
	if err != nil {
		return translate(err, "")
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (q *pgQueries) DeleteClient(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if hasCode(err, pgForeignKeyViolation) {
		return errClientInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern. Backslash is
// the default LIKE escape character in PostgreSQL.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

const billSelect = `
	SELECT b.id, b.bill_no, b.bill_date, b.client_id, c.name, b.amount, b.description, b.remarks, b.subject
	FROM bills b JOIN clients c ON c.id = b.client_id`

func scanBill(row pgx.Row) (models.Bill, error) {
	var b models.Bill
	err := row.Scan(&b.ID, &b.BillNo, &b.BillDate, &b.ClientID, &b.ClientName,
		&b.Amount, &b.Description, &b.Remarks, &b.Subject)
	return b, err
}

func (q *pgQueries) ListBills(ctx context.Context, f models.BillFilter) ([]models.Bill, error) {
	rows, err := q.db.Query(ctx, billSelect+`
		WHERE ($1 = '' OR b.bill_no ILIKE '%' || $1 || '%' OR c.name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR c.name ILIKE '%' || $2 || '%')
		  AND ($3::date IS NULL OR b.bill_date >= $3)
		  AND ($4::date IS NULL OR b.bill_date <= $4)
		ORDER BY b.bill_date DESC NULLS LAST, b.id DESC`,
		escapeLike(f.Search), escapeLike(f.Client), f.From, f.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (q *pgQueries) GetBill(ctx context.Context, id int64) (models.Bill, error) {
	b, err := scanBill(q.db.QueryRow(ctx, billSelect+` WHERE b.id = $1`, id))
	return b, notFound(err)
}

func (q *pgQueries) GetBillByNo(ctx context.Context, billNo string) (models.Bill, bool, error) {
	b, err := scanBill(q.db.QueryRow(ctx, billSelect+` WHERE b.bill_no = $1`, billNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Bill{}, false, nil
	}
	if err != nil {
		return models.Bill{}, false, err
	}
	return b, true, nil
}

func (q *pgQueries) CreateBill(ctx context.Context, b *models.Bill) error {
	err := q.db.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO bills (bill_no, bill_date, client_id, amount, description, remarks, subject)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, client_id
		)
		SELECT ins.id, c.name FROM ins JOIN clients c ON c.id = ins.client_id`,
		b.BillNo, b.BillDate, b.ClientID, b.Amount, b.Description, b.Remarks, b.Subject,
	).Scan(&b.ID, &b.ClientName)
	return translate(err, "")
}

func (q *pgQueries) UpdateBill(ctx context.Context, b models.Bill) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE bills SET bill_no = $2, bill_date = $3, client_id = $4, amount = $5,
			description = $6, remarks = $7, subject = $8
		WHERE id = $1`,
		b.ID, b.BillNo, b.BillDate, b.ClientID, b.Amount, b.Description, b.Remarks, b.Subject,
	)
	if err != nil {
		return translate(err, "")
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (q *pgQueries) DeleteBill(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (q *pgQueries) BillNosByClient(ctx context.Context, clientID int64) ([]string, error) {
	rows, err := q.db.Query(ctx, `SELECT bill_no FROM bills WHERE client_id = $1 ORDER BY bill_no`, clientID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

const receiptSelect = `
	SELECT r.id, r.receipt_ref, r.receipt_date, r.client_id, c.name, r.bill_no,
		r.tds_amt, r.collection_amount, r.utr_details, r.mode, r.remarks
	FROM receipts r JOIN clients c ON c.id = r.client_id`

func scanReceipt(row pgx.Row) (models.Receipt, error) {
	var r models.Receipt
	err := row.Scan(&r.ID, &r.ReceiptRef, &r.ReceiptDate, &r.ClientID, &r.ClientName, &r.BillNo,
		&r.TDSAmt, &r.CollectionAmount, &r.UTRDetails, &r.Mode, &r.Remarks)
	return r, err
}

func (q *pgQueries) ListReceipts(ctx context.Context, f models.ReceiptFilter) ([]models.Receipt, error) {
	rows, err := q.db.Query(ctx, receiptSelect+`
		WHERE ($1 = '' OR c.name ILIKE '%' || $1 || '%' OR r.utr_details ILIKE '%' || $1 || '%'
		       OR r.bill_no ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR c.name ILIKE '%' || $2 || '%')
		  AND ($3::date IS NULL OR r.receipt_date >= $3)
		  AND ($4::date IS NULL OR r.receipt_date <= $4)
		ORDER BY r.receipt_date DESC NULLS LAST, r.id DESC`,
		escapeLike(f.Search), escapeLike(f.Client), f.From, f.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *pgQueries) GetReceipt(ctx context.Context, id int64) (models.Receipt, error) {
	r, err := scanReceipt(q.db.QueryRow(ctx, receiptSelect+` WHERE r.id = $1`, id))
	return r, notFound(err)
}

func (q *pgQueries) CreateReceipt(ctx context.Context, r *models.Receipt) error {
	err := q.db.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO receipts (receipt_ref, receipt_date, client_id, bill_no, tds_amt,
				collection_amount, utr_details, mode, remarks)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, client_id
		)
		SELECT ins.id, c.name FROM ins JOIN clients c ON c.id = ins.client_id`,
		r.ReceiptRef, r.ReceiptDate, r.ClientID, r.BillNo, r.TDSAmt,
		r.CollectionAmount, r.UTRDetails, r.Mode, r.Remarks,
	).Scan(&r.ID, &r.ClientName)
	return translate(err, r.BillNo)
}

func (q *pgQueries) UpdateReceipt(ctx context.Context, r models.Receipt) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE receipts SET receipt_ref = $2, receipt_date = $3, client_id = $4, bill_no = $5,
			tds_amt = $6, collection_amount = $7, utr_details = $8, mode = $9, remarks = $10
		WHERE id = $1`,
		r.ID, r.ReceiptRef, r.ReceiptDate, r.ClientID, r.BillNo,
		r.TDSAmt, r.CollectionAmount, r.UTRDetails, r.Mode, r.Remarks,
	)
	if err != nil {
		return translate(err, r.BillNo)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (q *pgQueries) DeleteReceipt(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (q *pgQueries) ReceiptedBillNos(ctx context.Context, billNos []string) ([]string, error) {
	if len(billNos) == 0 {
		return nil, nil
	}
	rows, err := q.db.Query(ctx,
		`SELECT DISTINCT bill_no FROM receipts WHERE bill_no = ANY($1) ORDER BY bill_no`, billNos)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
