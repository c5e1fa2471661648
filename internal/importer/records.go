package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"LotusLedger/internal/dateparse"
	"LotusLedger/internal/models"
	"LotusLedger/internal/tabular"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Amount is a numeric cell. Blank cells read as zero; thousands separators
// and currency symbols are ignored.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalCSV(s string) error {
	clean := strings.NewReplacer(",", "", "₹", "", "$", "", " ", "").Replace(strings.TrimSpace(s))
	if clean == "" || clean == "-" || strings.EqualFold(clean, "nan") {
		a.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	a.Decimal = d
	return nil
}

// Date is a date cell. Unreadable dates leave T nil rather than failing
// the row.
type Date struct {
	T *time.Time
}

func (d *Date) UnmarshalCSV(s string) error {
	d.T = dateparse.ParseOr(s, nil)
	return nil
}

type clientRecord struct {
	Client  string `csv:"Client"`
	Address string `csv:"Address"`
	GST     string `csv:"GST"`
	PAN     string `csv:"PAN"`
	Remarks string `csv:"Remarks"`
}

type billRecord struct {
	Client      string `csv:"Client"`
	BillNo      string `csv:"Bill No"`
	BillDate    Date   `csv:"Bill Date"`
	Amount      Amount `csv:"Amount"`
	Description string `csv:"Description"`
	Remarks     string `csv:"Remarks"`
	Subject     string `csv:"Subject"`
}

type receiptRecord struct {
	Client      string `csv:"Client"`
	BillNo      string `csv:"Bill No"`
	ReceiptRef  string `csv:"Receipt Ref"`
	ReceiptDate Date   `csv:"Receipt Date"`
	Paid        Amount `csv:"Paid"`
	TDS         Amount `csv:"TDS"`
	UTR         string `csv:"UTR"`
	Mode        string `csv:"Mode"`
	Remarks     string `csv:"Remarks"`
}

func (r receiptRecord) total() decimal.Decimal {
	return r.Paid.Add(r.TDS.Decimal)
}

// stagedRecord is one row of the combined clients, bills and receipts sheet.
type stagedRecord struct {
	Client         string `csv:"Client"`
	Address        string `csv:"Address"`
	GST            string `csv:"GST"`
	PAN            string `csv:"PAN"`
	ClientRemarks  string `csv:"Client Remarks"`
	BillNo         string `csv:"Bill No"`
	BillDate       Date   `csv:"Bill Date"`
	Amount         Amount `csv:"Amount"`
	Description    string `csv:"Description"`
	BillRemarks    string `csv:"Bill Remarks"`
	Subject        string `csv:"Subject"`
	Paid           Amount `csv:"Paid"`
	TDS            Amount `csv:"TDS"`
	ReceiptRef     string `csv:"Receipt Ref"`
	ReceiptDate    Date   `csv:"Receipt Date"`
	UTR            string `csv:"UTR"`
	Mode           string `csv:"Mode"`
	ReceiptRemarks string `csv:"Receipt Remarks"`
}

func (r stagedRecord) total() decimal.Decimal {
	return r.Paid.Add(r.TDS.Decimal)
}

// mapRecords converts every table row into out, a pointer to a slice of
// records. Cell conversion errors name the row and column.
func mapRecords(t *tabular.Table, out interface{}) error {
	err := gocsv.UnmarshalCSV(t.Reader(), out)
	if err == nil {
		return nil
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		col := ""
		if pe.Column >= 1 && pe.Column <= len(t.Columns) {
			col = t.Columns[pe.Column-1]
		}
		return models.Validationf("row %d, column %q: %v", pe.Line, col, pe.Err)
	}
	return models.Validationf("could not read rows: %v", err)
}

// requireColumns fails with the missing names and the closest headers that
// are present.
func requireColumns(t *tabular.Table, required ...string) error {
	missing := t.Missing(required...)
	if len(missing) == 0 {
		return nil
	}
	return &models.MissingColumnsError{Missing: missing, Suggestions: t.Suggest(missing)}
}
