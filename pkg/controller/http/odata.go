package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/interfaces"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/goerr/v2"
)

type odataHandler struct {
	cfg *config
	uc  interfaces.ODataUseCase
}

func newODataHandler(cfg *config, uc interfaces.ODataUseCase) *odataHandler {
	return &odataHandler{
		cfg: cfg,
		uc:  uc,
	}
}

// serviceRoot returns the absolute URL of the service root
func (h *odataHandler) serviceRoot(r *http.Request) string {
	base := h.cfg.baseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + h.cfg.prefix
}

func (h *odataHandler) serviceDocument(w http.ResponseWriter, r *http.Request) {
	if format := r.URL.Query().Get("$format"); !isJSONFormat(format) {
		writeError(w, r, unsupportedFormat(format))
		return
	}

	doc, err := h.uc.ServiceDocument(r.Context(), h.serviceRoot(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, doc, "")
}

func (h *odataHandler) metadata(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.uc.Metadata(r.Context(), r.URL.Query().Get("$format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBody(w, r, contentType, data, "")
}

func (h *odataHandler) resource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := odata.ParseQuery(r.URL.RawQuery)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !isJSONFormat(query.Format) {
		writeError(w, r, unsupportedFormat(query.Format))
		return
	}

	root := h.serviceRoot(r)
	path := strings.TrimPrefix(r.URL.EscapedPath(), h.cfg.prefix+"/")
	req := &model.ResourceRequest{
		ServiceRoot: root,
		Path:        path,
		Query:       *query,
		Prefer:      odata.ParsePrefer(r.Header.Get("Prefer"), h.cfg.defaultPageSize, h.cfg.maxPageSize),
	}

	result, err := h.uc.Resource(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch result.Kind {
	case model.ResourceCount:
		count, ok := result.Body.(int64)
		if !ok {
			writeError(w, r, goerr.New("invalid count result", goerr.V("body", result.Body)))
			return
		}
		writeBody(w, r, contentTypeText, []byte(strconv.FormatInt(count, 10)), "")

	case model.ResourceValue:
		writeValue(w, r, result.Body)

	default:
		body, ok := result.Body.(model.Document)
		if !ok {
			writeError(w, r, goerr.New("invalid resource result", goerr.V("kind", result.Kind)))
			return
		}
		if result.NextSkip != nil {
			body["@odata.nextLink"] = nextLink(root, path, r.URL.RawQuery, *result.NextSkip)
		}
		if result.PageSize > 0 {
			w.Header().Set("Preference-Applied", "odata.maxpagesize="+strconv.Itoa(result.PageSize))
		}
		writeJSON(w, r, body, result.ETag)
	}
}
