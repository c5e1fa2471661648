// Package importer loads clients, bills and receipts from uploaded sheets.
// Each import runs in one store transaction: it either applies every row or
// none.
package importer

import (
	"context"
	"errors"
	"sort"

	"LotusLedger/internal/models"
	"LotusLedger/internal/store"
	"LotusLedger/internal/tabular"
)

var (
	StagedColumns  = []string{"Client", "Bill No", "Bill Date", "Amount"}
	ClientColumns  = []string{"Client"}
	BillColumns    = []string{"Bill No", "Bill Date", "Client", "Amount"}
	ReceiptColumns = []string{"Client", "Bill No", "Receipt Date", "Paid", "TDS"}
)

type Summary struct {
	CreatedClients  int `json:"created_clients"`
	UpdatedClients  int `json:"updated_clients"`
	CreatedBills    int `json:"created_bills"`
	CreatedReceipts int `json:"created_receipts"`
	SkippedRows     int `json:"skipped_rows"`
}

type Importer struct {
	store store.Store
}

func New(st store.Store) *Importer {
	return &Importer{store: st}
}

// ReadFile parses an upload. Parse failures become ValidationErrors; an
// unknown extension stays an UnsupportedFormatError.
func ReadFile(filename string, data []byte) (*tabular.Table, error) {
	if !tabular.Supported(filename) {
		return nil, &models.UnsupportedFormatError{Format: tabular.Ext(filename)}
	}
	t, err := tabular.Read(filename, data)
	if err != nil {
		var ue *models.UnsupportedFormatError
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, models.Validationf("could not parse file: %v", err)
	}
	return t, nil
}

// resolveClient finds a client by case-insensitive name or creates it from
// seed.
func resolveClient(ctx context.Context, q store.Queries, seed models.Client, sum *Summary) (models.Client, error) {
	c, ok, err := q.FindClientByName(ctx, seed.Name)
	if err != nil || ok {
		return c, err
	}
	if err := q.CreateClient(ctx, &seed); err != nil {
		return models.Client{}, err
	}
	sum.CreatedClients++
	return seed, nil
}

// ImportClients creates unknown clients and updates known ones. Only fields
// whose column is present in the sheet are overwritten.
func (im *Importer) ImportClients(ctx context.Context, t *tabular.Table) (Summary, error) {
	if err := requireColumns(t, ClientColumns...); err != nil {
		return Summary{}, err
	}
	var rows []clientRecord
	if err := mapRecords(t, &rows); err != nil {
		return Summary{}, err
	}
	var sum Summary
	err := im.store.WithTx(ctx, func(q store.Queries) error {
		for _, r := range rows {
			if r.Client == "" {
				sum.SkippedRows++
				continue
			}
			c, ok, err := q.FindClientByName(ctx, r.Client)
			if err != nil {
				return err
			}
			if !ok {
				nc := models.Client{Name: r.Client, Address: r.Address, GSTNo: r.GST, PANNo: r.PAN, Remarks: r.Remarks}
				if err := q.CreateClient(ctx, &nc); err != nil {
					return err
				}
				sum.CreatedClients++
				continue
			}
			if t.Has("Address") {
				c.Address = r.Address
			}
			if t.Has("GST") {
				c.GSTNo = r.GST
			}
			if t.Has("PAN") {
				c.PANNo = r.PAN
			}
			if t.Has("Remarks") {
				c.Remarks = r.Remarks
			}
			if err := q.UpdateClient(ctx, c); err != nil {
				return err
			}
			sum.UpdatedClients++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// ImportBills creates bills for unseen bill numbers. Existing bills are
// never overwritten.
func (im *Importer) ImportBills(ctx context.Context, t *tabular.Table) (Summary, error) {
	if err := requireColumns(t, BillColumns...); err != nil {
		return Summary{}, err
	}
	var rows []billRecord
	if err := mapRecords(t, &rows); err != nil {
		return Summary{}, err
	}
	var sum Summary
	err := im.store.WithTx(ctx, func(q store.Queries) error {
		for _, r := range rows {
			if r.Client == "" {
				sum.SkippedRows++
				continue
			}
			c, err := resolveClient(ctx, q, models.Client{Name: r.Client}, &sum)
			if err != nil {
				return err
			}
			created, err := createBill(ctx, q, models.Bill{
				BillNo:      r.BillNo,
				BillDate:    r.BillDate.T,
				ClientID:    c.ID,
				Amount:      r.Amount.Decimal,
				Description: r.Description,
				Remarks:     r.Remarks,
				Subject:     r.Subject,
			})
			if err != nil {
				return err
			}
			if created {
				sum.CreatedBills++
			} else {
				sum.SkippedRows++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// createBill inserts b unless its number is blank or taken or its amount is
// not positive.
func createBill(ctx context.Context, q store.Queries, b models.Bill) (bool, error) {
	if b.BillNo == "" || !b.Amount.IsPositive() {
		return false, nil
	}
	_, exists, err := q.GetBillByNo(ctx, b.BillNo)
	if err != nil || exists {
		return false, err
	}
	if err := q.CreateBill(ctx, &b); err != nil {
		return false, err
	}
	return true, nil
}

// ImportReceipts creates one receipt per row. The whole file is rejected
// when any bill number appears on two rows or already has a receipt.
func (im *Importer) ImportReceipts(ctx context.Context, t *tabular.Table) (Summary, error) {
	if err := requireColumns(t, ReceiptColumns...); err != nil {
		return Summary{}, err
	}
	var rows []receiptRecord
	if err := mapRecords(t, &rows); err != nil {
		return Summary{}, err
	}
	var candidates []string
	for _, r := range rows {
		if r.BillNo != "" {
			candidates = append(candidates, r.BillNo)
		}
	}
	var sum Summary
	err := im.store.WithTx(ctx, func(q store.Queries) error {
		if err := checkReceiptConflicts(ctx, q, candidates); err != nil {
			return err
		}
		for _, r := range rows {
			total := r.total()
			if r.Client == "" || r.BillNo == "" || !total.IsPositive() {
				sum.SkippedRows++
				continue
			}
			c, err := resolveClient(ctx, q, models.Client{Name: r.Client}, &sum)
			if err != nil {
				return err
			}
			rec := models.Receipt{
				ReceiptRef:       r.ReceiptRef,
				ReceiptDate:      r.ReceiptDate.T,
				ClientID:         c.ID,
				BillNo:           r.BillNo,
				TDSAmt:           r.TDS.Decimal,
				CollectionAmount: total,
				UTRDetails:       r.UTR,
				Mode:             r.Mode,
				Remarks:          r.Remarks,
			}
			if err := q.CreateReceipt(ctx, &rec); err != nil {
				return err
			}
			sum.CreatedReceipts++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// ImportStaged applies the combined sheet: each row may create a client, a
// bill and a receipt. Bill numbers are checked for receipt conflicts the
// same way ImportReceipts checks them.
func (im *Importer) ImportStaged(ctx context.Context, t *tabular.Table) (Summary, error) {
	if err := requireColumns(t, StagedColumns...); err != nil {
		return Summary{}, err
	}
	var rows []stagedRecord
	if err := mapRecords(t, &rows); err != nil {
		return Summary{}, err
	}
	var candidates []string
	for _, r := range rows {
		if r.BillNo != "" {
			candidates = append(candidates, r.BillNo)
		}
	}
	var sum Summary
	err := im.store.WithTx(ctx, func(q store.Queries) error {
		if err := checkReceiptConflicts(ctx, q, candidates); err != nil {
			return err
		}
		for _, r := range rows {
			if r.Client == "" {
				sum.SkippedRows++
				continue
			}
			c, err := resolveClient(ctx, q, models.Client{
				Name:    r.Client,
				Address: r.Address,
				GSTNo:   r.GST,
				PANNo:   r.PAN,
				Remarks: r.ClientRemarks,
			}, &sum)
			if err != nil {
				return err
			}
			billCreated, err := createBill(ctx, q, models.Bill{
				BillNo:      r.BillNo,
				BillDate:    r.BillDate.T,
				ClientID:    c.ID,
				Amount:      r.Amount.Decimal,
				Description: r.Description,
				Remarks:     r.BillRemarks,
				Subject:     r.Subject,
			})
			if err != nil {
				return err
			}
			if billCreated {
				sum.CreatedBills++
			}

			total := r.total()
			if r.BillNo == "" || !total.IsPositive() {
				if !billCreated {
					sum.SkippedRows++
				}
				continue
			}
			receiptDate := r.ReceiptDate.T
			if receiptDate == nil {
				receiptDate = r.BillDate.T
			}
			rec := models.Receipt{
				ReceiptRef:       r.ReceiptRef,
				ReceiptDate:      receiptDate,
				ClientID:         c.ID,
				BillNo:           r.BillNo,
				TDSAmt:           r.TDS.Decimal,
				CollectionAmount: total,
				UTRDetails:       r.UTR,
				Mode:             r.Mode,
				Remarks:          r.ReceiptRemarks,
			}
			if err := q.CreateReceipt(ctx, &rec); err != nil {
				return err
			}
			sum.CreatedReceipts++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// checkReceiptConflicts rejects bill numbers repeated in billNos or already
// holding a receipt.
func checkReceiptConflicts(ctx context.Context, q store.Queries, billNos []string) error {
	if len(billNos) == 0 {
		return nil
	}
	seen := make(map[string]int, len(billNos))
	var unique []string
	for _, b := range billNos {
		if seen[b] == 0 {
			unique = append(unique, b)
		}
		seen[b]++
	}
	conflicts := make(map[string]bool)
	for b, n := range seen {
		if n > 1 {
			conflicts[b] = true
		}
	}
	existing, err := q.ReceiptedBillNos(ctx, unique)
	if err != nil {
		return err
	}
	for _, b := range existing {
		conflicts[b] = true
	}
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]string, 0, len(conflicts))
	for b := range conflicts {
		out = append(out, b)
	}
	sort.Strings(out)
	return models.NewConflictError(out)
}

// Import kinds accepted by ImportFile.
const (
	KindClients  = "clients"
	KindBills    = "bills"
	KindReceipts = "receipts"
)

// ImportFile parses an upload and applies it at once as the given kind.
func (im *Importer) ImportFile(ctx context.Context, kind, filename string, data []byte) (Summary, error) {
	var run func(context.Context, *tabular.Table) (Summary, error)
	switch kind {
	case KindClients:
		run = im.ImportClients
	case KindBills:
		run = im.ImportBills
	case KindReceipts:
		run = im.ImportReceipts
	default:
		return Summary{}, models.Validationf("unknown import kind %q", kind)
	}
	t, err := ReadFile(filename, data)
	if err != nil {
		return Summary{}, err
	}
	return run(ctx, t)
}
