// Package handlers exposes the ledger, import and export operations over
// HTTP.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"LotusLedger/api"
	"LotusLedger/api/constants"
	"LotusLedger/internal/exporter"
	"LotusLedger/internal/importer"
	"LotusLedger/internal/ledger"
	"LotusLedger/internal/logger"
	"LotusLedger/internal/models"

	"github.com/gorilla/mux"
)

// Deps are the services the handlers call into.
type Deps struct {
	Ledger   *ledger.Service
	Importer *importer.Importer
	Stager   *importer.Stager
	Exporter *exporter.Exporter
	PerPage  int
}

// Register installs every ledger route on r.
func Register(r *mux.Router, d Deps) {
	get, post := http.MethodGet, http.MethodPost

	r.HandleFunc("/clients", ListClients(d.Ledger)).Methods(get)
	r.HandleFunc("/clients", CreateClient(d.Ledger)).Methods(post)
	r.HandleFunc("/clients/{id:[0-9]+}/edit", UpdateClient(d.Ledger)).Methods(post)

	r.HandleFunc("/bills", ListBills(d.Ledger, d.PerPage)).Methods(get)
	r.HandleFunc("/bills", CreateBill(d.Ledger)).Methods(post)
	r.HandleFunc("/bills/{id:[0-9]+}/edit", UpdateBill(d.Ledger)).Methods(post)

	r.HandleFunc("/receipts", ListReceipts(d.Ledger, d.PerPage)).Methods(get)
	r.HandleFunc("/receipts", CreateReceipt(d.Ledger)).Methods(post)
	r.HandleFunc("/receipts/{id:[0-9]+}/edit", UpdateReceipt(d.Ledger)).Methods(post)

	r.HandleFunc("/delete/{table}/{id:[0-9]+}", DeleteRow(d.Ledger)).Methods(post)

	r.HandleFunc("/import", StageImport(d.Stager)).Methods(post)
	r.HandleFunc("/import/confirm", ConfirmImport(d.Stager)).Methods(post)
	r.HandleFunc("/import/{kind:clients|bills|receipts}/now", ImportNow(d.Importer)).Methods(post)

	r.HandleFunc("/export/{kind:bills|receipts|reconciliation}.{format}", Export(d.Exporter)).Methods(get)

	r.HandleFunc("/dashboard", Dashboard(d.Ledger, d.PerPage)).Methods(get)
	r.HandleFunc("/api/bills/by-client/{client_id:[0-9]+}", BillsByClient(d.Ledger)).Methods(get)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Message: constants.ErrInvalidID}
	}
	return id, nil
}

func audit(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logr := logger.GlobalLogger; logr != nil {
		logr.LogAudit(msg)
		return
	}
	api.LogInfo(msg)
}

func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
