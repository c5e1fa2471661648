package handlers

import (
	"errors"
	"io"
	"net/http"

	"LotusLedger/api"
	"LotusLedger/api/constants"
	"LotusLedger/internal/importer"
	"LotusLedger/internal/models"
)

// readUpload returns the multipart file field and its name.
func readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadBytes)
	if err := r.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", nil, &models.ValidationError{Message: constants.ErrFileTooLarge}
		}
		return "", nil, &models.ValidationError{Message: constants.ErrMissingFile}
	}
	file, header, err := r.FormFile(constants.UploadField)
	if err != nil {
		return "", nil, &models.ValidationError{Message: constants.ErrMissingFile}
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// StageImport parks an upload and returns its preview.
func StageImport(stager *importer.Stager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename, data, err := readUpload(w, r)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		preview, err := stager.Stage(r.Context(), r.FormValue("session_id"), filename, data)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		audit("staged %s (%d rows) in session %s", filename, preview.Total, preview.ID)
		api.RespondWithPayload(w, http.StatusOK, map[string]interface{}{
			"session_id":      preview.ID,
			"filename":        preview.Filename,
			"columns":         preview.Columns,
			"rows":            preview.Rows,
			"total_rows":      preview.Total,
			"missing_columns": preview.Missing,
		})
	}
}

func ConfirmImport(stager *importer.Stager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := api.FormOrJSONValue(r, "session_id")
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		sum, err := stager.Confirm(r.Context(), sessionID)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		audit("confirmed import for session %s: %+v", sessionID, sum)
		api.RespondWithPayload(w, http.StatusOK, map[string]interface{}{"summary": sum})
	}
}

// ImportNow applies a clients, bills or receipts upload in one step.
func ImportNow(im *importer.Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := muxVar(r, "kind")
		filename, data, err := readUpload(w, r)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		sum, err := im.ImportFile(r.Context(), kind, filename, data)
		if err != nil {
			api.RespondWithAppError(w, r, err)
			return
		}
		audit("imported %s from %s: %+v", kind, filename, sum)
		api.RespondWithPayload(w, http.StatusOK, map[string]interface{}{"summary": sum})
	}
}
