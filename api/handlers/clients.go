package handlers

import (
	"net/http"

	"LotusLedger/api"
	"LotusLedger/internal/ledger"
)

func ListClients(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := svc.ListClients(r.Context())
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.RespondWithRows(w, clients)
	}
}

func CreateClient(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.ClientInput
		if err := api.DecodeBody(r, &req); err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		c, err := svc.CreateClient(r.Context(), req)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.LogInfo("client %d created: %s", c.ID, c.Name)
		api.RespondWithPayload(w, http.StatusCreated, map[string]interface{}{"client": c})
	}
}

func UpdateClient(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		var req ledger.ClientInput
		if err := api.DecodeBody(r, &req); err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		c, err := svc.UpdateClient(r.Context(), id, req)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		api.RespondWithPayload(w, http.StatusOK, map[string]interface{}{"client": c})
	}
}
