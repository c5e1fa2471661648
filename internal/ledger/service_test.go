package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"LotusLedger/internal/models"
	"LotusLedger/internal/recon"
	"LotusLedger/internal/store"

	"github.com/shopspring/decimal"
)

func newService(t *testing.T) (*Service, models.Client) {
	t.Helper()
	svc := NewService(store.NewMemory())
	c, err := svc.CreateClient(context.Background(), ClientInput{Name: " Acme Ltd "})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	return svc, c
}

func isValidation(err error) bool {
	var ve *models.ValidationError
	return errors.As(err, &ve)
}

func TestCreateClientValidation(t *testing.T) {
	svc, c := newService(t)
	ctx := context.Background()
	if c.Name != "Acme Ltd" {
		t.Fatalf("name not trimmed: %q", c.Name)
	}
	if _, err := svc.CreateClient(ctx, ClientInput{Name: "   "}); !isValidation(err) {
		t.Fatalf("blank name err=%v", err)
	}
	if _, err := svc.CreateClient(ctx, ClientInput{Name: "ACME LTD"}); !isValidation(err) {
		t.Fatalf("duplicate name err=%v", err)
	}
	if _, err := svc.UpdateClient(ctx, 42, ClientInput{Name: "Ghost"}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("update unknown err=%v", err)
	}
}

func TestCreateBillRules(t *testing.T) {
	svc, c := newService(t)
	ctx := context.Background()
	in := BillInput{BillNo: "INV-1", BillDate: "03/04/2024", ClientID: c.ID, Amount: decimal.NewFromInt(1000)}
	b, err := svc.CreateBill(ctx, in)
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if models.FormatDate(b.BillDate) != "2024-04-03" || b.ClientName != "Acme Ltd" {
		t.Fatalf("bill got date=%s client=%q", models.FormatDate(b.BillDate), b.ClientName)
	}
	if _, err := svc.CreateBill(ctx, in); !isValidation(err) {
		t.Fatalf("duplicate bill err=%v", err)
	}
	bad := in
	bad.BillNo, bad.Amount = "INV-2", decimal.Zero
	if _, err := svc.CreateBill(ctx, bad); !isValidation(err) || !strings.Contains(err.Error(), "amount") {
		t.Fatalf("zero amount err=%v", err)
	}
	bad = in
	bad.BillNo, bad.ClientID = "INV-3", 999
	if _, err := svc.CreateBill(ctx, bad); !isValidation(err) {
		t.Fatalf("unknown client err=%v", err)
	}
}

func TestReceiptRequiresBillAndIsUnique(t *testing.T) {
	svc, c := newService(t)
	ctx := context.Background()
	if _, err := svc.CreateBill(ctx, BillInput{BillNo: "B1", BillDate: "2024-01-01", ClientID: c.ID, Amount: decimal.NewFromInt(1000)}); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	in := ReceiptInput{ReceiptDate: "05/01/2024", ClientID: c.ID, BillNo: "B9", PaidAmount: decimal.NewFromInt(900), TDSAmt: decimal.NewFromInt(100)}
	if _, err := svc.CreateReceipt(ctx, in); !isValidation(err) {
		t.Fatalf("unknown bill err=%v", err)
	}
	in.BillNo = "B1"
	r, err := svc.CreateReceipt(ctx, in)
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	if !r.CollectionAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("collection got=%s want=1000", r.CollectionAmount)
	}
	var ce *models.ConflictError
	if _, err := svc.CreateReceipt(ctx, in); !errors.As(err, &ce) {
		t.Fatalf("second receipt err=%v want ConflictError", err)
	}
	if !strings.Contains(ce.Error(), "Edit the existing receipt") {
		t.Fatalf("conflict message got=%q", ce.Error())
	}

	page, err := svc.ListReceipts(ctx, "", 1, 15)
	if err != nil {
		t.Fatalf("ListReceipts: %v", err)
	}
	row := page.Rows[0]
	if row.BillAmount == nil || !row.BillAmount.Equal(decimal.NewFromInt(1000)) || row.BillStatus != recon.Paid {
		t.Fatalf("annotation got amount=%v status=%s", row.BillAmount, row.BillStatus)
	}
	if !row.PaidAmount.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("paid got=%s want=900", row.PaidAmount)
	}

	zero := in
	zero.PaidAmount, zero.TDSAmt = decimal.Zero, decimal.Zero
	if _, err := svc.CreateReceipt(ctx, zero); !isValidation(err) {
		t.Fatalf("zero total err=%v", err)
	}
}

func TestDeleteRow(t *testing.T) {
	svc, c := newService(t)
	ctx := context.Background()
	b, _ := svc.CreateBill(ctx, BillInput{BillNo: "B1", BillDate: "2024-01-01", ClientID: c.ID, Amount: decimal.NewFromInt(5)})
	if err := svc.DeleteRow(ctx, "invoice", b.ID); !isValidation(err) {
		t.Fatalf("unknown kind err=%v", err)
	}
	if err := svc.DeleteRow(ctx, "client", c.ID); !isValidation(err) {
		t.Fatalf("client in use err=%v", err)
	}
	if err := svc.DeleteRow(ctx, "bill", b.ID); err != nil {
		t.Fatalf("delete bill: %v", err)
	}
	if err := svc.DeleteRow(ctx, "bill", b.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second delete err=%v", err)
	}
	if err := svc.DeleteRow(ctx, "client", c.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}
}

func TestListBillsSearchAndPaging(t *testing.T) {
	svc, c := newService(t)
	ctx := context.Background()
	other, _ := svc.CreateClient(ctx, ClientInput{Name: "Zen INV-1 Partners"})
	for _, in := range []BillInput{
		{BillNo: "INV-10", BillDate: "2024-01-01", ClientID: c.ID, Amount: decimal.NewFromInt(1)},
		{BillNo: "X-1", BillDate: "2024-01-02", ClientID: other.ID, Amount: decimal.NewFromInt(1)},
		{BillNo: "Y-2", BillDate: "2024-01-03", ClientID: c.ID, Amount: decimal.NewFromInt(1)},
	} {
		if _, err := svc.CreateBill(ctx, in); err != nil {
			t.Fatalf("CreateBill: %v", err)
		}
	}
	page, err := svc.ListBills(ctx, "inv-1", 1, 15)
	if err != nil {
		t.Fatalf("ListBills: %v", err)
	}
	if page.Pagination.Total != 2 || page.Rows[0].BillNo != "X-1" {
		t.Fatalf("search got total=%d first=%s", page.Pagination.Total, page.Rows[0].BillNo)
	}
	page, _ = svc.ListBills(ctx, "", 7, 2)
	if page.Pagination.Page != 2 || len(page.Rows) != 1 || page.Rows[0].BillNo != "INV-10" {
		t.Fatalf("clamped page got=%+v", page.Pagination)
	}
	nos, _ := svc.BillsByClient(ctx, c.ID)
	if strings.Join(nos, ",") != "INV-10,Y-2" {
		t.Fatalf("bills by client got=%v", nos)
	}
}

func TestDashboardFilters(t *testing.T) {
	svc, c := newService(t)
	ctx := context.Background()
	beta, _ := svc.CreateClient(ctx, ClientInput{Name: "Beta"})
	_, _ = svc.CreateBill(ctx, BillInput{BillNo: "A1", BillDate: "2024-02-01", ClientID: c.ID, Amount: decimal.NewFromInt(100)})
	_, _ = svc.CreateBill(ctx, BillInput{BillNo: "B1", BillDate: "2024-03-01", ClientID: beta.ID, Amount: decimal.NewFromInt(50)})
	_, _ = svc.CreateReceipt(ctx, ReceiptInput{ReceiptDate: "2024-02-05", ClientID: c.ID, BillNo: "A1", PaidAmount: decimal.NewFromInt(100)})

	d, err := svc.Dashboard(ctx, DashboardFilter{Status: "pending"}, 1, 15)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(d.Rows) != 1 || d.Rows[0].BillNo != "B1" || d.Totals.Count != 1 {
		t.Fatalf("pending rows got=%d totals=%+v", len(d.Rows), d.Totals)
	}
	d, _ = svc.Dashboard(ctx, DashboardFilter{Client: "acme"}, 1, 15)
	if len(d.Rows) != 1 || d.Rows[0].Status != recon.Paid {
		t.Fatalf("client filter rows=%v", d.Rows)
	}
	d, _ = svc.Dashboard(ctx, DashboardFilter{Status: "bogus"}, 1, 15)
	if len(d.Rows) != 0 || d.Pagination.Pages != 1 {
		t.Fatalf("unknown status rows=%d pages=%d", len(d.Rows), d.Pagination.Pages)
	}
}

var errReread = errors.New("connection reset")

// rereadFailQueries fails every lookup by id once an update has gone through.
type rereadFailQueries struct {
	store.Queries
	updated bool
}

func (q *rereadFailQueries) UpdateBill(ctx context.Context, b models.Bill) error {
	q.updated = true
	return q.Queries.UpdateBill(ctx, b)
}

func (q *rereadFailQueries) UpdateReceipt(ctx context.Context, r models.Receipt) error {
	q.updated = true
	return q.Queries.UpdateReceipt(ctx, r)
}

func (q *rereadFailQueries) GetBill(ctx context.Context, id int64) (models.Bill, error) {
	if q.updated {
		return models.Bill{}, errReread
	}
	return q.Queries.GetBill(ctx, id)
}

func (q *rereadFailQueries) GetReceipt(ctx context.Context, id int64) (models.Receipt, error) {
	if q.updated {
		return models.Receipt{}, errReread
	}
	return q.Queries.GetReceipt(ctx, id)
}

type rereadFailStore struct {
	store.Store
}

func (s rereadFailStore) WithTx(ctx context.Context, fn func(q store.Queries) error) error {
	return s.Store.WithTx(ctx, func(q store.Queries) error {
		return fn(&rereadFailQueries{Queries: q})
	})
}

func TestUpdateReportsFailedReread(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	svc := NewService(mem)
	c, err := svc.CreateClient(ctx, ClientInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	bin := BillInput{BillNo: "B1", BillDate: "2024-01-01", ClientID: c.ID, Amount: decimal.NewFromInt(1000)}
	b, err := svc.CreateBill(ctx, bin)
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	rin := ReceiptInput{ReceiptDate: "2024-01-05", ClientID: c.ID, BillNo: "B1", PaidAmount: decimal.NewFromInt(500)}
	r, err := svc.CreateReceipt(ctx, rin)
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}

	flaky := NewService(rereadFailStore{Store: mem})
	bin.Amount = decimal.NewFromInt(1200)
	got, err := flaky.UpdateBill(ctx, b.ID, bin)
	if !errors.Is(err, errReread) || got.ID != 0 {
		t.Fatalf("UpdateBill got=%+v err=%v want errReread", got, err)
	}
	rin.PaidAmount = decimal.NewFromInt(600)
	gotR, err := flaky.UpdateReceipt(ctx, r.ID, rin)
	if !errors.Is(err, errReread) || gotR.ID != 0 {
		t.Fatalf("UpdateReceipt got=%+v err=%v want errReread", gotR, err)
	}
}
