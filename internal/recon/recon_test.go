package recon

import (
	"testing"
	"time"

	"LotusLedger/internal/models"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) *time.Time {
	t := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify(t *testing.T) {
	cases := []struct {
		balance string
		want    Status
	}{
		{"0", Paid},
		{"0.00009", Paid},
		{"-0.00009", Paid},
		{"0.0001", Pending},
		{"-0.0001", Overpaid},
		{"250", Pending},
		{"-5", Overpaid},
	}
	for _, tc := range cases {
		if got := Classify(d(tc.balance)); got != tc.want {
			t.Fatalf("Classify(%s) got=%s want=%s", tc.balance, got, tc.want)
		}
	}
}

func TestBillWithoutReceiptsIsPending(t *testing.T) {
	res := Reconcile([]models.Bill{{BillNo: "B9", Amount: d("10")}}, nil, "")
	row := res.Rows[0]
	if !row.PaidAmount.IsZero() || row.Status != Pending {
		t.Fatalf("row got paid=%s status=%s", row.PaidAmount, row.Status)
	}
}

func TestSettledBillWithTDS(t *testing.T) {
	bills := []models.Bill{{BillNo: "B1", Amount: d("1000")}}
	r := models.Receipt{BillNo: "B1", TDSAmt: d("100")}
	r.CollectionAmount = d("900").Add(r.TDSAmt)
	res := Reconcile(bills, []models.Receipt{r}, "")
	row := res.Rows[0]
	if !row.PaidAmount.Equal(d("1000")) || !row.Balance.IsZero() || row.Status != Paid {
		t.Fatalf("row got paid=%s balance=%s status=%s", row.PaidAmount, row.Balance, row.Status)
	}
}

func TestReconcileSortsAndTotals(t *testing.T) {
	bills := []models.Bill{
		{BillNo: "B3", BillDate: day(2024, 1, 1), Amount: d("100")},
		{BillNo: "B2", BillDate: day(2024, 5, 1), Amount: d("200")},
		{BillNo: "B1", BillDate: day(2024, 5, 1), Amount: d("300")},
		{BillNo: "B0", Amount: d("50")},
	}
	receipts := []models.Receipt{
		{BillNo: "B1", CollectionAmount: d("300")},
		{BillNo: "B2", CollectionAmount: d("250")},
		{BillNo: "", CollectionAmount: d("999")},
	}
	res := Reconcile(bills, receipts, "")
	order := []string{"B1", "B2", "B3", "B0"}
	for i, want := range order {
		if res.Rows[i].BillNo != want {
			t.Fatalf("row %d got=%s want=%s", i, res.Rows[i].BillNo, want)
		}
	}
	tot := res.Totals
	if !tot.Amount.Equal(d("650")) || !tot.Paid.Equal(d("550")) || !tot.Balance.Equal(d("100")) {
		t.Fatalf("totals got amount=%s paid=%s balance=%s", tot.Amount, tot.Paid, tot.Balance)
	}
	if tot.ByStatus[Paid] != 1 || tot.ByStatus[Overpaid] != 1 || tot.ByStatus[Pending] != 2 {
		t.Fatalf("status counts got=%v", tot.ByStatus)
	}

	pending := Reconcile(bills, receipts, Pending)
	if pending.Totals.Count != 2 || !pending.Totals.Amount.Equal(d("150")) {
		t.Fatalf("filtered totals got count=%d amount=%s", pending.Totals.Count, pending.Totals.Amount)
	}
	for _, r := range pending.Rows {
		if !r.Balance.Equal(r.Amount.Sub(r.PaidAmount)) {
			t.Fatalf("balance mismatch on %s", r.BillNo)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if st, ok := ParseStatus("overPAID"); !ok || st != Overpaid {
		t.Fatalf("ParseStatus got=%s ok=%v", st, ok)
	}
	if st, ok := ParseStatus(" "); !ok || st != "" {
		t.Fatalf("blank status got=%q ok=%v", st, ok)
	}
	if _, ok := ParseStatus("settled"); ok {
		t.Fatalf("unknown status accepted")
	}
}

func TestPageClampsBeyondLast(t *testing.T) {
	var bills []models.Bill
	for i := 0; i < 23; i++ {
		bills = append(bills, models.Bill{BillNo: string(rune('A' + i)), Amount: d("1")})
	}
	res := Reconcile(bills, nil, "")
	rows, p := res.Page(99, 10)
	if p.Page != 3 || p.Pages != 3 || p.Total != 23 || len(rows) != 3 {
		t.Fatalf("page got=%d pages=%d total=%d rows=%d", p.Page, p.Pages, p.Total, len(rows))
	}
	if rows[0].BillNo != "U" {
		t.Fatalf("first row on last page got=%s want=U", rows[0].BillNo)
	}
}
