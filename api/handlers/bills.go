package handlers

import (
	"net/http"

	"LotusLedger/api"
	"LotusLedger/api/constants"
	"LotusLedger/api/utils"
	"LotusLedger/internal/ledger"
)

func ListBills(svc *ledger.Service, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get(constants.ParamQuery)
		p := utils.ExtractPagination(r, perPage)
		page, err := svc.ListBills(r.Context(), q, p.Page, p.PerPage)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.RespondWithPayload(w, http.StatusOK, map[string]interface{}{
			"rows":       page.Rows,
			"pagination": page.Pagination,
			"q":          q,
		})
	}
}

func CreateBill(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.BillInput
		if err := api.DecodeBody(r, &req); err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		b, err := svc.CreateBill(r.Context(), req)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.LogInfo("bill %s created for client %d", b.BillNo, b.ClientID)
		api.RespondWithPayload(w, http.StatusCreated, map[string]interface{}{"bill": b})
	}
}

func UpdateBill(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		var req ledger.BillInput
		if err := api.DecodeBody(r, &req); err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		b, err := svc.UpdateBill(r.Context(), id, req)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.RespondWithPayload(w, http.StatusOK, map[string]interface{}{"bill": b})
	}
}

// BillsByClient backs the receipt form's bill picker.
func BillsByClient(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "client_id")
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		nos, err := svc.BillsByClient(r.Context(), id)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.RespondWithRows(w, nos)
	}
}
