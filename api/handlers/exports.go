package handlers

import (
	"fmt"
	"net/http"

	"LotusLedger/api"
	"LotusLedger/api/constants"
	"LotusLedger/internal/exporter"
)

// Export streams bills, receipts or the reconciliation as a download.
func Export(ex *exporter.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, format := muxVar(r, "kind"), muxVar(r, "format")
		var (
			file exporter.File
			err  error
		)
		switch kind {
		case "bills":
			file, err = ex.Bills(r.Context(), r.URL.Query().Get(constants.ParamQuery), format)
		case "receipts":
			file, err = ex.Receipts(r.Context(), r.URL.Query().Get(constants.ParamQuery), format)
		default:
			file, err = ex.Reconciliation(r.Context(), dashboardFilter(r), format)
		}
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		audit("exported %s (%d bytes)", file.Name, len(file.Data))
		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(file.Data); err != nil {
			api.LogError("write export %s: %v", file.Name, err)
		}
	}
}
