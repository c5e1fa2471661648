package handlers

import (
	"net/http"

	"LotusLedger/api"
	"LotusLedger/api/utils"
	"LotusLedger/internal/dateparse"
	"LotusLedger/internal/ledger"
)

// dashboardFilter reads client, status, from and to. Unreadable dates are
// ignored.
func dashboardFilter(r *http.Request) ledger.DashboardFilter {
	q := r.URL.Query()
	return ledger.DashboardFilter{
		Client: q.Get("client"),
		Status: q.Get("status"),
		From:   dateparse.ParseOr(q.Get("from"), nil),
		To:     dateparse.ParseOr(q.Get("to"), nil),
	}
}

func Dashboard(svc *ledger.Service, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := utils.ExtractPagination(r, perPage)
		d, err := svc.Dashboard(r.Context(), dashboardFilter(r), p.Page, p.PerPage)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.RespondWithPayload(w, http.StatusOK, map[string]interface{}{
			"filters":    d.Filters,
			"rows":       d.Rows,
			"totals":     d.Totals,
			"pagination": d.Pagination,
		})
	}
}
