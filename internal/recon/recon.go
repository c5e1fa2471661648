// Package recon joins bills to the receipts booked against their bill
// numbers and classifies what is still owed.
package recon

import (
	"sort"
	"strings"

	"LotusLedger/internal/models"

	"github.com/shopspring/decimal"
)

type Status string

const (
	Paid     Status = "Paid"
	Overpaid Status = "Overpaid"
	Pending  Status = "Pending"
)

// Tolerance is the largest absolute balance still treated as settled.
var Tolerance = decimal.New(1, -4)

// Classify returns the status of a bill with the given outstanding balance.
func Classify(balance decimal.Decimal) Status {
	switch {
	case balance.Abs().LessThan(Tolerance):
		return Paid
	case balance.IsNegative():
		return Overpaid
	default:
		return Pending
	}
}

// ParseStatus matches a status name case-insensitively. Blank input means no
// filter and yields ok=true with an empty status.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	for _, st := range []Status{Paid, Overpaid, Pending} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return Status(s), false
}

// Row is one bill with its collected amount and standing.
type Row struct {
	models.Bill
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Balance    decimal.Decimal `json:"balance"`
	Status     Status          `json:"status"`
}

type Totals struct {
	Amount   decimal.Decimal `json:"amount"`
	Paid     decimal.Decimal `json:"paid"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int             `json:"count"`
	ByStatus map[Status]int  `json:"by_status"`
}

// Result holds every matching row in display order plus totals over them.
type Result struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

// PaidByBill sums collection amounts per bill number. Receipts without a bill
// number are ignored.
func PaidByBill(receipts []models.Receipt) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range receipts {
		if r.BillNo == "" {
			continue
		}
		out[r.BillNo] = out[r.BillNo].Add(r.CollectionAmount)
	}
	return out
}

// Reconcile builds one row per bill. A non-empty status keeps only rows in
// that status, and totals cover the kept rows.
func Reconcile(bills []models.Bill, receipts []models.Receipt, status Status) Result {
	paid := PaidByBill(receipts)
	res := Result{Totals: Totals{ByStatus: map[Status]int{Paid: 0, Overpaid: 0, Pending: 0}}}
	for _, b := range bills {
		p := paid[b.BillNo]
		bal := b.Amount.Sub(p)
		row := Row{Bill: b, PaidAmount: p, Balance: bal, Status: Classify(bal)}
		if status != "" && row.Status != status {
			continue
		}
		res.Rows = append(res.Rows, row)
		res.Totals.Amount = res.Totals.Amount.Add(row.Amount)
		res.Totals.Paid = res.Totals.Paid.Add(row.PaidAmount)
		res.Totals.Balance = res.Totals.Balance.Add(row.Balance)
		res.Totals.ByStatus[row.Status]++
	}
	res.Totals.Count = len(res.Rows)
	sort.SliceStable(res.Rows, func(i, j int) bool {
		return less(res.Rows[i].Bill, res.Rows[j].Bill)
	})
	return res
}

// less orders by bill date descending with undated bills last, then bill
// number ascending.
func less(a, b models.Bill) bool {
	switch {
	case a.BillDate != nil && b.BillDate != nil && !a.BillDate.Equal(*b.BillDate):
		return a.BillDate.After(*b.BillDate)
	case a.BillDate != nil && b.BillDate == nil:
		return true
	case a.BillDate == nil && b.BillDate != nil:
		return false
	}
	return a.BillNo < b.BillNo
}

// Page slices one page out of the computed rows.
func (r Result) Page(page, perPage int) ([]Row, models.Pagination) {
	p := models.Paginate(len(r.Rows), page, perPage)
	start, end := p.Bounds(len(r.Rows))
	return r.Rows[start:end], p
}
