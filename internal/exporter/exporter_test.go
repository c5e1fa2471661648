package exporter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"LotusLedger/internal/ledger"
	"LotusLedger/internal/models"
	"LotusLedger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func seed(t *testing.T) *Exporter {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	svc := ledger.NewService(st)
	c, err := svc.CreateClient(ctx, ledger.ClientInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	for _, b := range []ledger.BillInput{
		{BillNo: "INV-1", BillDate: "2024-04-03", ClientID: c.ID, Amount: decimal.NewFromInt(1000), Subject: "Retainer"},
		{BillNo: "INV-2", BillDate: "2024-04-01", ClientID: c.ID, Amount: decimal.NewFromInt(500)},
	} {
		if _, err := svc.CreateBill(ctx, b); err != nil {
			t.Fatalf("CreateBill %s: %v", b.BillNo, err)
		}
	}
	if _, err := svc.CreateReceipt(ctx, ledger.ReceiptInput{
		ReceiptDate: "2024-05-01", ClientID: c.ID, BillNo: "INV-1",
		TDSAmt: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(900), UTRDetails: "UTR1",
	}); err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	err = st.WithTx(ctx, func(q store.Queries) error {
		return q.CreateReceipt(ctx, &models.Receipt{ReceiptDate: &day, ClientID: c.ID, BillNo: "OLD-7", CollectionAmount: decimal.NewFromInt(50)})
	})
	if err != nil {
		t.Fatalf("orphan receipt: %v", err)
	}
	return New(svc)
}

func TestBillsCSVFiltersByQuery(t *testing.T) {
	e := seed(t)
	f, err := e.Bills(context.Background(), "INV-1", "CSV")
	if err != nil {
		t.Fatalf("Bills: %v", err)
	}
	want := "Bill Date,Bill No,Client,Amount,Description,Remarks,Subject\n2024-04-03,INV-1,Acme,1000.00,,,Retainer\n"
	if string(f.Data) != want {
		t.Fatalf("csv got=%q want=%q", f.Data, want)
	}
	if f.Name != "bills.csv" || !strings.HasPrefix(f.ContentType, "text/csv") {
		t.Fatalf("file got name=%s type=%s", f.Name, f.ContentType)
	}
}

func TestReceiptsLeaveUnknownBillAmountBlank(t *testing.T) {
	e := seed(t)
	f, err := e.Receipts(context.Background(), "", "csv")
	if err != nil {
		t.Fatalf("Receipts: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(f.Data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines got=%d want=3: %q", len(lines), f.Data)
	}
	if lines[1] != "2024-05-02,Acme,OLD-7,,0.00,50.00,,," {
		t.Fatalf("orphan row got=%q", lines[1])
	}
	if lines[2] != "2024-05-01,Acme,INV-1,1000.00,100.00,1000.00,UTR1,," {
		t.Fatalf("receipt row got=%q", lines[2])
	}
}

func TestReconciliationXLSX(t *testing.T) {
	e := seed(t)
	f, err := e.Reconciliation(context.Background(), ledger.DashboardFilter{Status: "pending"}, "xlsx")
	if err != nil {
		t.Fatalf("Reconciliation: %v", err)
	}
	if f.Name != "reconciliation.xlsx" {
		t.Fatalf("name got=%s", f.Name)
	}
	book, err := excelize.OpenReader(bytes.NewReader(f.Data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer book.Close()
	rows, err := book.GetRows("Reconciliation")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows got=%d want=2", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(ReconHeader, ",") {
		t.Fatalf("header got=%v", rows[0])
	}
	if rows[1][1] != "INV-2" || rows[1][11] != "Pending" {
		t.Fatalf("row got=%v", rows[1])
	}
}

func TestUnknownFormat(t *testing.T) {
	e := seed(t)
	_, err := e.Bills(context.Background(), "", "pdf")
	var ue *models.UnsupportedFormatError
	if !errors.As(err, &ue) || ue.Format != "pdf" {
		t.Fatalf("err got=%v want UnsupportedFormatError", err)
	}
}
