package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	controller "github.com/fiware/odataserver/pkg/controller/http"
	"github.com/fiware/odataserver/pkg/domain/interfaces/mocks"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func newTestServer(t *testing.T, uc *mocks.ODataUseCaseMock, opts ...controller.Option) http.Handler {
	t.Helper()
	server, err := controller.NewServer(context.Background(), uc, opts...)
	gt.NoError(t, err).Required()
	return server.Handler
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
	return body
}

func TestServiceDocumentEndpoint(t *testing.T) {
	uc := &mocks.ODataUseCaseMock{
		ServiceDocumentFunc: func(ctx context.Context, serviceRoot string) (model.Document, error) {
			return model.Document{
				"@odata.context": serviceRoot + "/$metadata",
				"value":          []any{},
			}, nil
		},
	}
	handler := newTestServer(t, uc)

	for _, path := range []string{"/odata", "/odata/"} {
		t.Run(path, func(t *testing.T) {
			w := serve(handler, httptest.NewRequest(http.MethodGet, "http://example.com"+path, nil))
			gt.Equal(t, w.Code, http.StatusOK)
			gt.Equal(t, w.Header().Get("Content-Type"), "application/json;odata.metadata=full;charset=utf-8")
			gt.Equal(t, w.Header().Get("OData-Version"), "4.0")
			gt.Equal(t, decodeBody(t, w)["@odata.context"], any("http://example.com/odata/$metadata"))
		})
	}

	t.Run("unsupported format", func(t *testing.T) {
		w := serve(handler, httptest.NewRequest(http.MethodGet, "/odata/?$format=xml", nil))
		gt.Equal(t, w.Code, http.StatusUnsupportedMediaType)
	})
}

func TestMetadataEndpoint(t *testing.T) {
	uc := &mocks.ODataUseCaseMock{
		MetadataFunc: func(ctx context.Context, format string) ([]byte, string, error) {
			switch format {
			case "":
				return []byte("<edmx:Edmx/>"), "application/xml;charset=utf-8", nil
			case "json":
				return []byte(`{"$Version":"4.0"}`), "application/json;charset=utf-8", nil
			}
			return nil, "", goerr.New("unsupported", goerr.T(model.ErrTagUnsupportedFormat))
		},
	}
	handler := newTestServer(t, uc)

	w := serve(handler, httptest.NewRequest(http.MethodGet, "/odata/$metadata", nil))
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Content-Type"), "application/xml;charset=utf-8")
	gt.Equal(t, w.Body.String(), "<edmx:Edmx/>")

	w = serve(handler, httptest.NewRequest(http.MethodGet, "/odata/$metadata?$format=json", nil))
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Content-Type"), "application/json;charset=utf-8")

	w = serve(handler, httptest.NewRequest(http.MethodGet, "/odata/$metadata?$format=atom", nil))
	gt.Equal(t, w.Code, http.StatusUnsupportedMediaType)
}

func TestResourceCollectionEndpoint(t *testing.T) {
	next := int64(35)
	uc := &mocks.ODataUseCaseMock{
		ResourceFunc: func(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error) {
			return &model.ResourceResult{
				Kind: model.ResourceCollection,
				Body: model.Document{
					"@odata.context": req.ServiceRoot + "/$metadata#Products",
					"value":          []any{model.Document{"ID": 1}},
				},
				PageSize: 10,
				NextSkip: &next,
			}, nil
		},
	}
	handler := newTestServer(t, uc, controller.WithBaseURL("https://api.example.com/"))

	req := httptest.NewRequest(http.MethodGet, "/odata/Products?$filter=%20Name%20eq%20%27a%27&$skip=25", nil)
	req.Header.Set("Prefer", "odata.maxpagesize=10")
	w := serve(handler, req)

	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Preference-Applied"), "odata.maxpagesize=10")
	gt.True(t, strings.HasPrefix(w.Header().Get("ETag"), `W/"`))

	body := decodeBody(t, w)
	gt.Equal(t, body["@odata.context"], any("https://api.example.com/odata/$metadata#Products"))
	gt.Equal(t, body["@odata.nextLink"], any("https://api.example.com/odata/Products?$filter=%20Name%20eq%20%27a%27&$skip=35"))

	calls := uc.ResourceCalls()
	gt.A(t, calls).Length(1).Required()
	got := calls[0].Req
	gt.Equal(t, got.ServiceRoot, "https://api.example.com/odata")
	gt.Equal(t, got.Path, "Products")
	gt.Equal(t, got.Query.Filter, "Name eq 'a'")
	gt.Equal(t, got.Query.Skip, int64(25))
	gt.Equal(t, got.Prefer.MaxPageSize, 10)
	gt.True(t, got.Prefer.Requested)
}

func TestResourceCollectionWithoutPrefer(t *testing.T) {
	next := int64(25)
	uc := &mocks.ODataUseCaseMock{
		ResourceFunc: func(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error) {
			result := &model.ResourceResult{
				Kind: model.ResourceCollection,
				Body: model.Document{
					"@odata.context": req.ServiceRoot + "/$metadata#Products",
					"value":          []any{model.Document{"ID": 1}},
				},
				NextSkip: &next,
			}
			if req.Prefer.Requested {
				result.PageSize = req.Prefer.MaxPageSize
			}
			return result, nil
		},
	}
	handler := newTestServer(t, uc)

	w := serve(handler, httptest.NewRequest(http.MethodGet, "/odata/Products", nil))
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Preference-Applied"), "")

	body := decodeBody(t, w)
	gt.Equal(t, body["@odata.nextLink"], any("http://example.com/odata/Products?$skip=25"))

	calls := uc.ResourceCalls()
	gt.A(t, calls).Length(1).Required()
	gt.False(t, calls[0].Req.Prefer.Requested)
	gt.Equal(t, calls[0].Req.Prefer.MaxPageSize, 25)
}

func TestResourceEntityEndpoint(t *testing.T) {
	uc := &mocks.ODataUseCaseMock{
		ResourceFunc: func(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error) {
			return &model.ResourceResult{
				Kind: model.ResourceEntity,
				Body: model.Document{"ID": "a/b"},
				ETag: "0f8fad5b-d9cb-469f-a165-70867728950e",
			}, nil
		},
	}
	handler := newTestServer(t, uc)

	w := serve(handler, httptest.NewRequest(http.MethodGet, "/odata/Products('a%2Fb')", nil))
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("ETag"), `W/"0f8fad5b-d9cb-469f-a165-70867728950e"`)
	gt.Equal(t, w.Header().Get("Preference-Applied"), "")
	gt.Equal(t, uc.ResourceCalls()[0].Req.Path, "Products('a%2Fb')")

	req := httptest.NewRequest(http.MethodGet, "/odata/Products('a%2Fb')", nil)
	req.Header.Set("If-None-Match", `W/"0f8fad5b-d9cb-469f-a165-70867728950e"`)
	w = serve(handler, req)
	gt.Equal(t, w.Code, http.StatusNotModified)
	gt.Equal(t, w.Body.Len(), 0)
}

func TestResourceTextEndpoints(t *testing.T) {
	var result *model.ResourceResult
	uc := &mocks.ODataUseCaseMock{
		ResourceFunc: func(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error) {
			return result, nil
		},
	}
	handler := newTestServer(t, uc)

	t.Run("count", func(t *testing.T) {
		result = &model.ResourceResult{Kind: model.ResourceCount, Body: int64(42)}
		w := serve(handler, httptest.NewRequest(http.MethodGet, "/odata/Products/$count", nil))
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "text/plain;charset=utf-8")
		gt.Equal(t, w.Body.String(), "42")
	})

	t.Run("raw value", func(t *testing.T) {
		result = &model.ResourceResult{Kind: model.ResourceValue, Body: "Bread"}
		w := serve(handler, httptest.NewRequest(http.MethodGet, "/odata/Products(1)/Name/$value", nil))
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Body.String(), "Bread")
	})

	t.Run("null value", func(t *testing.T) {
		result = &model.ResourceResult{Kind: model.ResourceValue, Body: nil}
		w := serve(handler, httptest.NewRequest(http.MethodGet, "/odata/Products(1)/Name/$value", nil))
		gt.Equal(t, w.Code, http.StatusNoContent)
	})
}

func TestResourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad request", goerr.New("invalid $filter", goerr.T(model.ErrTagBadRequest)), http.StatusBadRequest},
		{"not found", goerr.New("resource not found", goerr.T(model.ErrTagNotFound)), http.StatusNotFound},
		{"not implemented", goerr.New("lambda operators are not supported", goerr.T(model.ErrTagNotImplemented)), http.StatusNotImplemented},
		{"internal", goerr.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mocks.ODataUseCaseMock{
				ResourceFunc: func(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error) {
					return nil, tt.err
				},
			}
			w := serve(newTestServer(t, uc), httptest.NewRequest(http.MethodGet, "/odata/Products", nil))
			gt.Equal(t, w.Code, tt.status)

			body := decodeBody(t, w)
			detail, ok := body["error"].(map[string]any)
			gt.True(t, ok)
			gt.Equal(t, detail["code"], any(strconv.Itoa(tt.status)))
			if tt.status == http.StatusInternalServerError {
				gt.Equal(t, detail["message"], any("Internal Server Error"))
			} else {
				gt.Equal(t, detail["message"], any(tt.err.Error()))
			}
		})
	}
}

func TestInvalidQueryOptions(t *testing.T) {
	uc := &mocks.ODataUseCaseMock{}
	handler := newTestServer(t, uc)

	w := serve(handler, httptest.NewRequest(http.MethodGet, "/odata/Products?$top=-1", nil))
	gt.Equal(t, w.Code, http.StatusBadRequest)

	w = serve(handler, httptest.NewRequest(http.MethodGet, "/odata/Products?$format=xml", nil))
	gt.Equal(t, w.Code, http.StatusUnsupportedMediaType)
	gt.A(t, uc.ResourceCalls()).Length(0)
}

func TestMethodOverride(t *testing.T) {
	uc := &mocks.ODataUseCaseMock{
		ResourceFunc: func(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error) {
			return &model.ResourceResult{Kind: model.ResourceCount, Body: int64(1)}, nil
		},
	}
	handler := newTestServer(t, uc)

	req := httptest.NewRequest(http.MethodPost, "/odata/Products/$count", strings.NewReader("ignored"))
	req.Header.Set("X-HTTP-Method", "get")
	w := serve(handler, req)
	gt.Equal(t, w.Code, http.StatusOK)

	w = serve(handler, httptest.NewRequest(http.MethodPost, "/odata/Products/$count", nil))
	gt.Equal(t, w.Code, http.StatusMethodNotAllowed)
}

func TestCustomPrefix(t *testing.T) {
	uc := &mocks.ODataUseCaseMock{
		ResourceFunc: func(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error) {
			return &model.ResourceResult{Kind: model.ResourceEntity, Body: model.Document{}}, nil
		},
	}
	handler := newTestServer(t, uc, controller.WithPrefix("/api/v1/"))

	w := serve(handler, httptest.NewRequest(http.MethodGet, "/api/v1/Products(1)/Category", nil))
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, uc.ResourceCalls()[0].Req.Path, "Products(1)/Category")
	gt.Equal(t, uc.ResourceCalls()[0].Req.ServiceRoot, "http://example.com/api/v1")

	w = serve(handler, httptest.NewRequest(http.MethodGet, "/odata/Products", nil))
	gt.Equal(t, w.Code, http.StatusNotFound)
}
