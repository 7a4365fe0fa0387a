package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	controller "github.com/fiware/odataserver/pkg/controller/http"
	"github.com/fiware/odataserver/pkg/domain/interfaces/mocks"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestHealthEndpoint(t *testing.T) {
	ctx := context.Background()
	uc := &mocks.ODataUseCaseMock{
		HealthFunc: func(ctx context.Context) error { return nil },
	}

	server, err := controller.NewServer(ctx, uc, controller.WithAddr("localhost:0"))
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Equal(t, w.Code, http.StatusOK)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status)).Required()
	gt.Equal(t, status.Status, "healthy")
	gt.Equal(t, status.Service, "odataserver")
	gt.Equal(t, status.Storage, "ok")
	gt.True(t, status.Version != "")
}

func TestHealthEndpointStoreDown(t *testing.T) {
	ctx := context.Background()
	uc := &mocks.ODataUseCaseMock{
		HealthFunc: func(ctx context.Context) error { return errors.New("no reachable servers") },
	}

	server, err := controller.NewServer(ctx, uc)
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Equal(t, w.Code, http.StatusServiceUnavailable)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status)).Required()
	gt.Equal(t, status.Status, "unhealthy")
	gt.Equal(t, status.Storage, "unreachable")
	gt.A(t, uc.HealthCalls()).Length(1)
}
