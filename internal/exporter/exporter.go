// Package exporter renders bills, receipts and the reconciliation as CSV or
// XLSX downloads.
package exporter

import (
	"context"
	"strings"

	"LotusLedger/internal/ledger"
	"LotusLedger/internal/models"
	"LotusLedger/internal/tabular"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var (
	BillHeader    = []string{"Bill Date", "Bill No", "Client", "Amount", "Description", "Remarks", "Subject"}
	ReceiptHeader = []string{"Receipt Date", "Client", "Bill No", "Bill Amount", "TDS", "Collection", "UTR", "Mode", "Remarks"}
	ReconHeader   = []string{"Id", "Bill_no", "Bill_date", "Client_id", "Client_name", "Amount", "Description", "Remarks", "Subject", "Paid_amount", "Balance", "Status"}
)

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Exporter struct {
	ledger *ledger.Service
}

func New(svc *ledger.Service) *Exporter {
	return &Exporter{ledger: svc}
}

// normalizeFormat lowercases format and rejects anything but csv and xlsx.
func normalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if _, ok := contentTypes[f]; !ok {
		return "", &models.UnsupportedFormatError{Format: format}
	}
	return f, nil
}

// Bills exports the bills matching q, in list order.
func (e *Exporter) Bills(ctx context.Context, q, format string) (File, error) {
	f, err := normalizeFormat(format)
	if err != nil {
		return File{}, err
	}
	bills, err := e.ledger.SearchBills(ctx, q)
	if err != nil {
		return File{}, err
	}
	sheet := tabular.Sheet{Name: "Sheet1", Header: BillHeader}
	for _, b := range bills {
		sheet.Rows = append(sheet.Rows, []interface{}{
			b.BillDate, b.BillNo, b.ClientName, b.Amount, b.Description, b.Remarks, b.Subject,
		})
	}
	return render("bills", f, sheet)
}

// Receipts exports the receipts matching q. Bill Amount is blank for receipts
// whose bill number has no bill.
func (e *Exporter) Receipts(ctx context.Context, q, format string) (File, error) {
	f, err := normalizeFormat(format)
	if err != nil {
		return File{}, err
	}
	views, err := e.ledger.SearchReceipts(ctx, q)
	if err != nil {
		return File{}, err
	}
	sheet := tabular.Sheet{Name: "Sheet1", Header: ReceiptHeader}
	for _, v := range views {
		sheet.Rows = append(sheet.Rows, []interface{}{
			v.ReceiptDate, v.ClientName, v.BillNo, v.BillAmount, v.TDSAmt, v.CollectionAmount, v.UTRDetails, v.Mode, v.Remarks,
		})
	}
	return render("receipts", f, sheet)
}

// Reconciliation exports every dashboard row matching filter, unpaginated.
func (e *Exporter) Reconciliation(ctx context.Context, filter ledger.DashboardFilter, format string) (File, error) {
	f, err := normalizeFormat(format)
	if err != nil {
		return File{}, err
	}
	res, err := e.ledger.Reconciliation(ctx, filter)
	if err != nil {
		return File{}, err
	}
	sheet := tabular.Sheet{Name: "Reconciliation", Header: ReconHeader}
	for _, r := range res.Rows {
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.ID, r.BillNo, r.BillDate, r.ClientID, r.ClientName, r.Amount,
			r.Description, r.Remarks, r.Subject, r.PaidAmount, r.Balance, string(r.Status),
		})
	}
	return render("reconciliation", f, sheet)
}

func render(base, format string, sheet tabular.Sheet) (File, error) {
	var (
		data []byte
		err  error
	)
	if format == FormatXLSX {
		data, err = sheet.XLSX()
	} else {
		data, err = sheet.CSV()
	}
	if err != nil {
		return File{}, err
	}
	return File{Name: base + "." + format, ContentType: contentTypes[format], Data: data}, nil
}
