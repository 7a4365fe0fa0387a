package http

import (
	"encoding/json"
	"net/http"

	"github.com/fiware/odataserver/pkg/domain/interfaces"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
)

// handleHealth reports the service status, including the document store connectivity
func handleHealth(uc interfaces.ODataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := ctxlog.From(r.Context())

		status := &model.HealthStatus{
			Status:  "healthy",
			Service: "odataserver",
			Version: types.Version,
			Storage: "ok",
		}
		code := http.StatusOK
		if err := uc.Health(r.Context()); err != nil {
			logger.Warn("Health check failed", "error", err)
			status.Status = "unhealthy"
			status.Storage = "unreachable"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logger.Error("Failed to encode health response", "error", err)
		}
	}
}
