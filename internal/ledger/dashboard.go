package ledger

import (
	"context"
	"strings"
	"time"

	"LotusLedger/internal/models"
	"LotusLedger/internal/recon"
	"LotusLedger/internal/store"
)

// DashboardFilter narrows the reconciliation. Client and the date range
// apply to bills (by bill date) and receipts (by receipt date) alike.
type DashboardFilter struct {
	Client string     `json:"client"`
	Status string     `json:"status"`
	From   *time.Time `json:"from"`
	To     *time.Time `json:"to"`
}

type Dashboard struct {
	Filters    DashboardFilter   `json:"filters"`
	Rows       []recon.Row       `json:"rows"`
	Totals     recon.Totals      `json:"totals"`
	Pagination models.Pagination `json:"pagination"`
}

// Reconciliation computes every row matching f in display order.
func (s *Service) Reconciliation(ctx context.Context, f DashboardFilter) (recon.Result, error) {
	f.Client = strings.TrimSpace(f.Client)
	// An unknown status keeps its raw value and matches no row.
	status, _ := recon.ParseStatus(f.Status)

	var res recon.Result
	err := s.store.View(ctx, func(q store.Queries) error {
		bills, err := q.ListBills(ctx, models.BillFilter{Client: f.Client, From: f.From, To: f.To})
		if err != nil {
			return err
		}
		receipts, err := q.ListReceipts(ctx, models.ReceiptFilter{Client: f.Client, From: f.From, To: f.To})
		if err != nil {
			return err
		}
		res = recon.Reconcile(bills, receipts, status)
		return nil
	})
	return res, err
}

func (s *Service) Dashboard(ctx context.Context, f DashboardFilter, page, perPage int) (Dashboard, error) {
	res, err := s.Reconciliation(ctx, f)
	if err != nil {
		return Dashboard{}, err
	}
	rows, p := res.Page(page, perPage)
	if rows == nil {
		rows = []recon.Row{}
	}
	return Dashboard{Filters: f, Rows: rows, Totals: res.Totals, Pagination: p}, nil
}
