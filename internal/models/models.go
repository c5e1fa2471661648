package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTNo   string `json:"gst_no"`
	PANNo   string `json:"pan_no"`
	Remarks string `json:"remarks"`
}

// Bill is an invoice issued to a client. ClientName is filled by joins and
// is never written back.
type Bill struct {
	ID          int64           `json:"id"`
	BillNo      string          `json:"bill_no"`
	BillDate    *time.Time      `json:"bill_date"`
	ClientID    int64           `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Remarks     string          `json:"remarks"`
	Subject     string          `json:"subject"`
}

// Receipt is a collection booked against a bill number. CollectionAmount is
// always the stored total (tds + paid).
type Receipt struct {
	ID               int64           `json:"id"`
	ReceiptRef       string          `json:"receipt_ref"`
	ReceiptDate      *time.Time      `json:"receipt_date"`
	ClientID         int64           `json:"client_id"`
	ClientName       string          `json:"client_name"`
	BillNo           string          `json:"bill_no"`
	TDSAmt           decimal.Decimal `json:"tds_amt"`
	CollectionAmount decimal.Decimal `json:"collection_amount"`
	UTRDetails       string          `json:"utr_details"`
	Mode             string          `json:"mode"`
	Remarks          string          `json:"remarks"`
}

// PaidAmount is the net amount received, excluding tax withheld at source.
func (r Receipt) PaidAmount() decimal.Decimal {
	return r.CollectionAmount.Sub(r.TDSAmt)
}

// BillFilter narrows bill listings. Search matches bill number or client
// name; Client matches client name only.
type BillFilter struct {
	Search string
	Client string
	From   *time.Time
	To     *time.Time
}

// ReceiptFilter narrows receipt listings. Search matches client name, UTR
// details or bill number.
type ReceiptFilter struct {
	Search string
	Client string
	From   *time.Time
	To     *time.Time
}

// FormatDate renders an optional date the way exports and JSON previews do.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
