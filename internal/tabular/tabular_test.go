package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"LotusLedger/internal/models"

	"github.com/shopspring/decimal"
)

func TestReadCSVStripsBOMAndBlankRows(t *testing.T) {
	data := []byte("\xef\xbb\xbf Client ,Bill No,Amount\nAcme,INV-1,100\n,,\nBeta,INV-2\n")
	tbl, err := Read("bills.CSV", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows got=%d want=2", tbl.Len())
	}
	if !tbl.Has("Client") {
		t.Fatalf("header not trimmed: %q", tbl.Columns)
	}
	if got := tbl.Get(1, "Amount"); got != "" {
		t.Fatalf("short row not padded, got=%q", got)
	}
	if got := tbl.Get(0, "Bill No"); got != "INV-1" {
		t.Fatalf("Get got=%q want=INV-1", got)
	}
}

func TestReadCSVWindows1252(t *testing.T) {
	data := []byte("Client\nCaf\xe9 Legal\n")
	tbl, err := Read("clients.csv", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := tbl.Get(0, "Client"); got != "Café Legal" {
		t.Fatalf("decoded got=%q", got)
	}
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	_, err := Read("notes.txt", []byte("x"))
	var ue *models.UnsupportedFormatError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
	if Supported("notes.txt") || !Supported("book.XLSX") {
		t.Fatalf("Supported disagrees with Read")
	}
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

func TestReadXLS(t *testing.T) {
	tbl, err := Read("bills.XLS", readFixture(t, "bills.xls"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := strings.Join(tbl.Columns, "|"); got != "Bill No|Bill Date|Client|Amount" {
		t.Fatalf("columns got=%q", got)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows got=%d want=2", tbl.Len())
	}
	want := [][]string{
		{"INV-101", "45292", "Acme Legal", "1500.5"},
		{"INV-102", "45323", "Beta Corp", "2000"},
	}
	for i, row := range want {
		for j, col := range tbl.Columns {
			if got := tbl.Get(i, col); got != row[j] {
				t.Fatalf("row %d %s got=%q want=%q", i, col, got, row[j])
			}
		}
	}
}

func TestReadXLSWithoutSheets(t *testing.T) {
	_, err := Read("empty.xls", readFixture(t, "no_sheets.xls"))
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("err got=%v want ErrEmptyFile", err)
	}
	if _, err := Read("broken.xls", []byte("not a workbook")); err == nil {
		t.Fatalf("garbage accepted as xls")
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	s := Sheet{
		Name:   "Reconciliation",
		Header: []string{"Bill No", "Client", "Amount"},
		Rows: [][]interface{}{
			{"INV-1", "Acme", decimal.RequireFromString("1000.50")},
			{"INV-2", "Beta", nil},
		},
	}
	data, err := s.XLSX()
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	tbl, err := Read("out.xlsx", data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows got=%d want=2", tbl.Len())
	}
	if got := tbl.Get(0, "Amount"); got != "1000.5" {
		t.Fatalf("amount got=%q want=1000.5", got)
	}
	if got := tbl.Get(1, "Client"); got != "Beta" {
		t.Fatalf("client got=%q", got)
	}
}

func TestSheetCSV(t *testing.T) {
	s := Sheet{
		Header: []string{"Bill No", "Amount"},
		Rows:   [][]interface{}{{"INV-1", decimal.NewFromInt(5)}, {"INV, 2", nil}},
	}
	data, err := s.CSV()
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	want := "Bill No,Amount\nINV-1,5.00\n\"INV, 2\",\n"
	if string(data) != want {
		t.Fatalf("csv got=%q want=%q", data, want)
	}
}

func TestMissingAndSuggest(t *testing.T) {
	tbl := NewTable([]string{"Client", "Bill No", "Bill Date", "amount"}, nil)
	missing := tbl.Missing("Client", "Amount")
	if strings.Join(missing, ",") != "Amount" {
		t.Fatalf("missing got=%v", missing)
	}
	sugg := tbl.Suggest(missing)
	if sugg["Amount"] != "amount" {
		t.Fatalf("suggestion got=%v", sugg)
	}
}

func TestRecordReader(t *testing.T) {
	tbl := NewTable([]string{"A"}, [][]string{{"1"}, {"2"}})
	r := tbl.Reader()
	head, err := r.Read()
	if err != nil || head[0] != "A" {
		t.Fatalf("header got=%v err=%v", head, err)
	}
	rest, _ := r.ReadAll()
	if len(rest) != 2 {
		t.Fatalf("rest got=%d want=2", len(rest))
	}
	if _, err := r.Read(); err == nil {
		t.Fatalf("expected EOF")
	}
}
