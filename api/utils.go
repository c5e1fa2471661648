package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"LotusLedger/api/constants"
	"LotusLedger/internal/models"
)

// RespondWithError writes {"success": false, "error": errMsg}.
func RespondWithError(w http.ResponseWriter, status int, errMsg string) {
	log.Println("[ERROR]", errMsg)
	RespondWithJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   errMsg,
	})
}

// RespondWithResult sends {"success": true} or the error form.
func RespondWithResult(w http.ResponseWriter, success bool, errMsg string) {
	if !success {
		RespondWithError(w, http.StatusBadRequest, errMsg)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// RespondWithPayload sends a success response with payload merged in at the
// top level.
func RespondWithPayload(w http.ResponseWriter, status int, payload map[string]interface{}) {
	resp := map[string]interface{}{"success": true}
	for k, v := range payload {
		resp[k] = v
	}
	RespondWithJSON(w, status, resp)
}

// RespondWithRows uses the conventional `rows` key for list payloads.
func RespondWithRows(w http.ResponseWriter, rows interface{}) {
	RespondWithPayload(w, http.StatusOK, map[string]interface{}{"rows": rows})
}

func RespondWithJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		LogError("encode response: %v", err)
	}
}

// StatusFor maps an error from the ledger packages to its HTTP status.
func StatusFor(err error) int {
	var (
		ve *models.ValidationError
		ue *models.UnsupportedFormatError
		me *models.MissingColumnsError
		ce *models.ConflictError
	)
	switch {
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &ve), errors.As(err, &ue), errors.As(err, &me):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithAppError writes err with its mapped status. Internal errors are
// logged and replaced with a generic message.
func RespondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	if !models.IsUserError(err) {
		LogError("%s %s request_id=%s: %v", r.Method, r.URL.Path, RequestIDFromCtx(r.Context()), err)
		RespondWithError(w, http.StatusInternalServerError, constants.ErrInternal)
		return
	}
	status := StatusFor(err)
	resp := map[string]interface{}{"success": false, "error": err.Error()}
	var me *models.MissingColumnsError
	if errors.As(err, &me) {
		resp["missing_columns"] = me.Missing
		if len(me.Suggestions) > 0 {
			resp["suggestions"] = me.Suggestions
		}
	}
	var ce *models.ConflictError
	if errors.As(err, &ce) {
		resp["bill_nos"] = ce.BillNos
	}
	log.Println("[ERROR]", err.Error())
	RespondWithJSON(w, status, resp)
}

// LogInfo logs an informational message (wrapper for consistent logging)
func LogInfo(msg string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+msg, args...)
	} else {
		log.Println("[INFO]", msg)
	}
}

// LogError logs an error message (wrapper for consistent logging)
func LogError(msg string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+msg, args...)
	} else {
		log.Println("[ERROR]", msg)
	}
}
