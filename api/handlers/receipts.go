package handlers

import (
	"net/http"

	"LotusLedger/api"
	"LotusLedger/api/constants"
	"LotusLedger/api/utils"
	"LotusLedger/internal/ledger"
)

func ListReceipts(svc *ledger.Service, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get(constants.ParamQuery)
		p := utils.ExtractPagination(r, perPage)
		page, err := svc.ListReceipts(r.Context(), q, p.Page, p.PerPage)
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

func CreateReceipt(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.ReceiptInput
		if err := api.DecodeBody(r, &req); err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		rec, err := svc.CreateReceipt(r.Context(), req)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.LogInfo("receipt %d booked against %s", rec.ID, rec.BillNo)
		api.RespondWithPayload(w, http.StatusCreated, map[string]interface{}{"receipt": rec})
	}
}

func UpdateReceipt(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		var req ledger.ReceiptInput
		if err := api.DecodeBody(r, &req); err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		rec, err := svc.UpdateReceipt(r.Context(), id, req)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.RespondWithPayload(w, http.StatusOK, map[string]interface{}{"receipt": rec})
	}
}

func DeleteRow(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		table := muxVar(r, "table")
		if err := svc.DeleteRow(r.Context(), table, id); err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		audit("deleted %s %d", table, id)
		api.RespondWithResult(w, true, "")
	}
}
