package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL CHECK (btrim(name) <> ''),
		address TEXT NOT NULL DEFAULT '',
		gst_no  TEXT NOT NULL DEFAULT '',
		pan_no  TEXT NOT NULL DEFAULT '',
		remarks TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS clients_name_lower_key ON clients (lower(name))`,
	`CREATE TABLE IF NOT EXISTS bills (
		id          BIGSERIAL PRIMARY KEY,
		bill_no     TEXT NOT NULL CONSTRAINT bills_bill_no_key UNIQUE,
		bill_date   DATE,
		client_id   BIGINT NOT NULL REFERENCES clients (id) ON DELETE RESTRICT,
		amount      NUMERIC(18,2) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		remarks     TEXT NOT NULL DEFAULT '',
		subject     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS bills_client_id_idx ON bills (client_id)`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id                BIGSERIAL PRIMARY KEY,
		receipt_ref       TEXT NOT NULL DEFAULT '',
		receipt_date      DATE,
		client_id         BIGINT NOT NULL REFERENCES clients (id) ON DELETE RESTRICT,
		bill_no           TEXT NOT NULL DEFAULT '',
		tds_amt           NUMERIC(18,2) NOT NULL DEFAULT 0,
		collection_amount NUMERIC(18,2) NOT NULL,
		utr_details       TEXT NOT NULL DEFAULT '',
		mode              TEXT NOT NULL DEFAULT '',
		remarks           TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS receipts_bill_no_key ON receipts (bill_no) WHERE bill_no <> ''`,
	`CREATE INDEX IF NOT EXISTS receipts_client_id_idx ON receipts (client_id)`,
}

// Migrate creates the ledger tables and indexes when they are missing. It is
// safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}
