// Package store persists clients, bills and receipts. Every caller reaches
// the data through a Queries value handed out by View or WithTx.
package store

import (
	"context"

	"LotusLedger/internal/models"
)

// Queries is the set of row-level operations shared by the PostgreSQL and
// in-memory backends. Lookups by id return models.ErrNotFound for unknown
// rows.
type Queries interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id int64) (models.Client, error)
	// FindClientByName matches case-insensitively. The boolean is false when
	// no client has that name.
	FindClientByName(ctx context.Context, name string) (models.Client, bool, error)
	CreateClient(ctx context.Context, c *models.Client) error
	UpdateClient(ctx context.Context, c models.Client) error
	// DeleteClient fails with a ValidationError while the client still owns
	// bills or receipts.
	DeleteClient(ctx context.Context, id int64) error

	// ListBills orders by bill date descending (undated last), then id
	// descending.
	ListBills(ctx context.Context, f models.BillFilter) ([]models.Bill, error)
	GetBill(ctx context.Context, id int64) (models.Bill, error)
	GetBillByNo(ctx context.Context, billNo string) (models.Bill, bool, error)
	CreateBill(ctx context.Context, b *models.Bill) error
	UpdateBill(ctx context.Context, b models.Bill) error
	DeleteBill(ctx context.Context, id int64) error
	// BillNosByClient returns the client's bill numbers in ascending order.
	BillNosByClient(ctx context.Context, clientID int64) ([]string, error)

	// ListReceipts orders by receipt date descending (undated last), then id
	// descending.
	ListReceipts(ctx context.Context, f models.ReceiptFilter) ([]models.Receipt, error)
	GetReceipt(ctx context.Context, id int64) (models.Receipt, error)
	// CreateReceipt and UpdateReceipt return a ConflictError when another
	// receipt already holds the bill number.
	CreateReceipt(ctx context.Context, r *models.Receipt) error
	UpdateReceipt(ctx context.Context, r models.Receipt) error
	DeleteReceipt(ctx context.Context, id int64) error
	// ReceiptedBillNos returns which of billNos already have a receipt.
	ReceiptedBillNos(ctx context.Context, billNos []string) ([]string, error)
}

// Store hands out Queries. View is for reads. WithTx runs fn in a single
// transaction that is rolled back when fn returns an error.
type Store interface {
	View(ctx context.Context, fn func(q Queries) error) error
	WithTx(ctx context.Context, fn func(q Queries) error) error
}
