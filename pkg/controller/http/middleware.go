package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// LoggingMiddleware returns a middleware that logs HTTP requests
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := ctxlog.From(ctx).With("request_id", middleware.GetReqID(r.Context()))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"query", r.URL.RawQuery,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctxlog.With(r.Context(), logger)))
		})
	}
}

var (
	overridableMethods = map[string]bool{
		http.MethodGet:     true,
		http.MethodHead:    true,
		http.MethodPost:    true,
		http.MethodDelete:  true,
		http.MethodPut:     true,
		http.MethodPatch:   true,
		http.MethodOptions: true,
	}
	bodylessMethods = map[string]bool{
		http.MethodGet:     true,
		http.MethodHead:    true,
		http.MethodOptions: true,
		http.MethodDelete:  true,
	}
)

// MethodOverride replaces the request method by the X-HTTP-Method header
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Header.Get("X-HTTP-Method"))
		if overridableMethods[method] {
			r.Method = method
			if bodylessMethods[method] {
				r.Body = http.NoBody
				r.ContentLength = 0
			}
		}
		next.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorStatus maps tagged errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case goerr.HasTag(err, model.ErrTagBadRequest):
		return http.StatusBadRequest
	case goerr.HasTag(err, model.ErrTagNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, model.ErrTagUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case goerr.HasTag(err, model.ErrTagNotImplemented):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeError writes an OData error response
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)
	status := errorStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Failed to handle request", "error", err)
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		}
		message = http.StatusText(status)
	} else {
		logger.Debug("Request rejected", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.Header().Set("OData-Version", odataVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    strconv.Itoa(status),
			Message: message,
		},
	}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}
