// Package ledger implements the interactive operations on clients, bills
// and receipts, plus the reconciliation dashboard built on top of them.
package ledger

import (
	"context"
	"errors"
	"strings"

	"LotusLedger/internal/dateparse"
	"LotusLedger/internal/models"
	"LotusLedger/internal/recon"
	"LotusLedger/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Service struct {
	store    store.Store
	validate *validator.Validate
}

func NewService(st store.Store) *Service {
	return &Service{store: st, validate: newValidator()}
}

// Clients

func (s *Service) ListClients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	err := s.store.View(ctx, func(q store.Queries) error {
		var err error
		out, err = q.ListClients(ctx)
		return err
	})
	return out, err
}

func (s *Service) CreateClient(ctx context.Context, in ClientInput) (models.Client, error) {
	in.normalize()
	if err := s.check("client", in); err != nil {
		return models.Client{}, err
	}
	c := models.Client{Name: in.Name, Address: in.Address, GSTNo: in.GSTNo, PANNo: in.PANNo, Remarks: in.Remarks}
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		return q.CreateClient(ctx, &c)
	})
	return c, err
}

func (s *Service) UpdateClient(ctx context.Context, id int64, in ClientInput) (models.Client, error) {
	in.normalize()
	if err := s.check("client", in); err != nil {
		return models.Client{}, err
	}
	c := models.Client{ID: id, Name: in.Name, Address: in.Address, GSTNo: in.GSTNo, PANNo: in.PANNo, Remarks: in.Remarks}
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		return q.UpdateClient(ctx, c)
	})
	return c, err
}

// Bills

type BillPage struct {
	Rows       []models.Bill     `json:"rows"`
	Pagination models.Pagination `json:"pagination"`
}

// SearchBills returns every bill whose number or client name contains q,
// newest first.
func (s *Service) SearchBills(ctx context.Context, q string) ([]models.Bill, error) {
	var out []models.Bill
	err := s.store.View(ctx, func(qs store.Queries) error {
		var err error
		out, err = qs.ListBills(ctx, models.BillFilter{Search: strings.TrimSpace(q)})
		return err
	})
	return out, err
}

func (s *Service) ListBills(ctx context.Context, q string, page, perPage int) (BillPage, error) {
	all, err := s.SearchBills(ctx, q)
	if err != nil {
		return BillPage{}, err
	}
	p := models.Paginate(len(all), page, perPage)
	start, end := p.Bounds(len(all))
	return BillPage{Rows: all[start:end], Pagination: p}, nil
}

func (s *Service) billFromInput(in BillInput) models.Bill {
	return models.Bill{
		BillNo:      in.BillNo,
		BillDate:    dateparse.ParseOr(in.BillDate, nil),
		ClientID:    in.ClientID,
		Amount:      in.Amount,
		Description: in.Description,
		Remarks:     in.Remarks,
		Subject:     in.Subject,
	}
}

func (s *Service) CreateBill(ctx context.Context, in BillInput) (models.Bill, error) {
	in.normalize()
	if err := s.check("bill", in); err != nil {
		return models.Bill{}, err
	}
	b := s.billFromInput(in)
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		if _, ok, err := q.GetBillByNo(ctx, b.BillNo); err != nil {
			return err
		} else if ok {
			return models.Validationf("Bill No %s already exists", b.BillNo)
		}
		if _, err := q.GetClient(ctx, b.ClientID); err != nil {
			return clientRef(err)
		}
		return q.CreateBill(ctx, &b)
	})
	return b, err
}

func (s *Service) UpdateBill(ctx context.Context, id int64, in BillInput) (models.Bill, error) {
	in.normalize()
	if err := s.check("bill", in); err != nil {
		return models.Bill{}, err
	}
	b := s.billFromInput(in)
	b.ID = id
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		if _, err := q.GetBill(ctx, id); err != nil {
			return err
		}
		if other, ok, err := q.GetBillByNo(ctx, b.BillNo); err != nil {
			return err
		} else if ok && other.ID != id {
			return models.Validationf("Bill No %s already exists", b.BillNo)
		}
		if _, err := q.GetClient(ctx, b.ClientID); err != nil {
			return clientRef(err)
		}
		if err := q.UpdateBill(ctx, b); err != nil {
			return err
		}
		saved, err := q.GetBill(ctx, id)
		if err != nil {
			return err
		}
		b = saved
		return nil
	})
	if err != nil {
		return models.Bill{}, err
	}
	return b, nil
}

// BillsByClient lists the client's bill numbers in ascending order.
func (s *Service) BillsByClient(ctx context.Context, clientID int64) ([]string, error) {
	out := []string{}
	err := s.store.View(ctx, func(q store.Queries) error {
		nos, err := q.BillNosByClient(ctx, clientID)
		if err != nil {
			return err
		}
		out = append(out, nos...)
		return nil
	})
	return out, err
}

// Receipts

// ReceiptView is a receipt annotated with its bill's amount and standing.
// BillAmount is nil when no bill carries the receipt's bill number.
type ReceiptView struct {
	models.Receipt
	PaidAmount decimal.Decimal  `json:"paid_amount"`
	BillAmount *decimal.Decimal `json:"bill_amount"`
	BillStatus recon.Status     `json:"bill_status,omitempty"`
}

type ReceiptPage struct {
	Rows       []ReceiptView     `json:"rows"`
	Pagination models.Pagination `json:"pagination"`
}

// SearchReceipts returns every receipt whose client name, UTR details or
// bill number contains q, newest first, annotated with bill data.
func (s *Service) SearchReceipts(ctx context.Context, q string) ([]ReceiptView, error) {
	var out []ReceiptView
	err := s.store.View(ctx, func(qs store.Queries) error {
		rows, err := qs.ListReceipts(ctx, models.ReceiptFilter{Search: strings.TrimSpace(q)})
		if err != nil {
			return err
		}
		bills, err := qs.ListBills(ctx, models.BillFilter{})
		if err != nil {
			return err
		}
		all, err := qs.ListReceipts(ctx, models.ReceiptFilter{})
		if err != nil {
			return err
		}
		out = annotate(rows, bills, all)
		return nil
	})
	return out, err
}

func annotate(rows []models.Receipt, bills []models.Bill, all []models.Receipt) []ReceiptView {
	amounts := make(map[string]decimal.Decimal, len(bills))
	for _, b := range bills {
		amounts[b.BillNo] = b.Amount
	}
	paid := recon.PaidByBill(all)
	out := make([]ReceiptView, 0, len(rows))
	for _, r := range rows {
		v := ReceiptView{Receipt: r, PaidAmount: r.PaidAmount()}
		if amt, ok := amounts[r.BillNo]; ok && r.BillNo != "" {
			amt := amt
			v.BillAmount = &amt
			v.BillStatus = recon.Classify(amt.Sub(paid[r.BillNo]))
		}
		out = append(out, v)
	}
	return out
}

func (s *Service) ListReceipts(ctx context.Context, q string, page, perPage int) (ReceiptPage, error) {
	all, err := s.SearchReceipts(ctx, q)
	if err != nil {
		return ReceiptPage{}, err
	}
	p := models.Paginate(len(all), page, perPage)
	start, end := p.Bounds(len(all))
	return ReceiptPage{Rows: all[start:end], Pagination: p}, nil
}

func (s *Service) receiptFromInput(in ReceiptInput) (models.Receipt, error) {
	total := in.TDSAmt.Add(in.PaidAmount)
	if !total.IsPositive() {
		return models.Receipt{}, models.Validationf("invalid receipt: paid_amount plus tds_amt must be positive")
	}
	return models.Receipt{
		ReceiptRef:       in.ReceiptRef,
		ReceiptDate:      dateparse.ParseOr(in.ReceiptDate, nil),
		ClientID:         in.ClientID,
		BillNo:           in.BillNo,
		TDSAmt:           in.TDSAmt,
		CollectionAmount: total,
		UTRDetails:       in.UTRDetails,
		Mode:             in.Mode,
		Remarks:          in.Remarks,
	}, nil
}

func (s *Service) CreateReceipt(ctx context.Context, in ReceiptInput) (models.Receipt, error) {
	in.normalize()
	if err := s.check("receipt", in); err != nil {
		return models.Receipt{}, err
	}
	r, err := s.receiptFromInput(in)
	if err != nil {
		return models.Receipt{}, err
	}
	err = s.store.WithTx(ctx, func(q store.Queries) error {
		if err := requireBill(ctx, q, r.BillNo); err != nil {
			return err
		}
		if _, err := q.GetClient(ctx, r.ClientID); err != nil {
			return clientRef(err)
		}
		return q.CreateReceipt(ctx, &r)
	})
	return r, withReceiptHint(err)
}

const receiptConflictHint = "Edit the existing receipt to record a further payment"

// withReceiptHint tells form users where a second payment on a bill goes.
func withReceiptHint(err error) error {
	var ce *models.ConflictError
	if errors.As(err, &ce) {
		ce.Hint = receiptConflictHint
	}
	return err
}

func (s *Service) UpdateReceipt(ctx context.Context, id int64, in ReceiptInput) (models.Receipt, error) {
	in.normalize()
	if err := s.check("receipt", in); err != nil {
		return models.Receipt{}, err
	}
	r, err := s.receiptFromInput(in)
	if err != nil {
		return models.Receipt{}, err
	}
	r.ID = id
	err = s.store.WithTx(ctx, func(q store.Queries) error {
		if _, err := q.GetReceipt(ctx, id); err != nil {
			return err
		}
		if err := requireBill(ctx, q, r.BillNo); err != nil {
			return err
		}
		if _, err := q.GetClient(ctx, r.ClientID); err != nil {
			return clientRef(err)
		}
		if err := q.UpdateReceipt(ctx, r); err != nil {
			return err
		}
		saved, err := q.GetReceipt(ctx, id)
		if err != nil {
			return err
		}
		r = saved
		return nil
	})
	if err != nil {
		return models.Receipt{}, withReceiptHint(err)
	}
	return r, nil
}

func requireBill(ctx context.Context, q store.Queries, billNo string) error {
	_, ok, err := q.GetBillByNo(ctx, billNo)
	if err != nil {
		return err
	}
	if !ok {
		return models.Validationf("Bill No %s does not exist", billNo)
	}
	return nil
}

func clientRef(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.Validationf("selected client does not exist")
	}
	return err
}

// Delete

// DeleteRow removes one client, bill or receipt by id. Kind may be singular
// or plural.
func (s *Service) DeleteRow(ctx context.Context, kind string, id int64) error {
	return s.store.WithTx(ctx, func(q store.Queries) error {
		switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(kind)), "s") {
		case "client":
			return q.DeleteClient(ctx, id)
		case "bill":
			return q.DeleteBill(ctx, id)
		case "receipt":
			return q.DeleteReceipt(ctx, id)
		default:
			return models.Validationf("invalid delete request: unknown table %q", kind)
		}
	})
}
