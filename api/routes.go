package api

import (
	"net/http"

	"LotusLedger/api/constants"
	"LotusLedger/internal/logger"

	"github.com/gorilla/mux"
)

// NewRouter returns the base router with middleware, health check and the
// not-found handler installed. Feature handlers register on top of it.
func NewRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, AccessLogMiddleware, RecoverMiddleware)

	router.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(NotFoundHandler)
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllow)
	})
	return router
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithPayload(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	msg := "[Gateway] [Error] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)"
	if logr := logger.GlobalLogger; logr != nil {
		logr.LogAudit(msg)
	} else {
		LogError(msg)
	}
	RespondWithError(w, http.StatusNotFound, constants.ErrRouteNotFound)
}
