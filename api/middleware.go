package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"LotusLedger/api/constants"
	"LotusLedger/internal/logger"

	"github.com/google/uuid"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestIDMiddleware tags each request with an id, reusing the caller's
// X-Request-ID when present.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// AccessLogMiddleware logs one audit line per request.
func AccessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		clientIP := r.RemoteAddr
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			clientIP = xff
		}
		msg := fmt.Sprintf("[Gateway] %s %s from %s status=%d took=%s request_id=%s",
			r.Method, r.URL.Path, clientIP, rw.statusCode, time.Since(start).Round(time.Millisecond), RequestIDFromCtx(r.Context()))
		if logr := logger.GlobalLogger; logr != nil {
			logr.LogAudit(msg)
		} else {
			LogInfo(msg)
		}
	})
}

// RecoverMiddleware turns a handler panic into a 500 response.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				LogError("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
				RespondWithError(w, http.StatusInternalServerError, constants.ErrInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
