package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	odataVersion         = "4.0"
	contentTypeODataJSON = "application/json;odata.metadata=full;charset=utf-8"
	contentTypeJSON      = "application/json;charset=utf-8"
	contentTypeText      = "text/plain;charset=utf-8"
	contentTypeBinary    = "application/octet-stream"
)

// isJSONFormat reports whether a $format value asks for JSON
func isJSONFormat(format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	return format == "" || format == "json" || strings.HasPrefix(format, "application/json")
}

func unsupportedFormat(format string) error {
	return goerr.New("unsupported format "+format, goerr.T(model.ErrTagUnsupportedFormat))
}

func writeJSON(w http.ResponseWriter, r *http.Request, body any, etag string) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to encode response"))
		return
	}
	writeBody(w, r, contentTypeODataJSON, buf.Bytes(), etag)
}

// writeBody writes a 200 response with a weak ETag, or 304 when the client
// already holds the same representation. Without etag, the ETag is derived
// from the body.
func writeBody(w http.ResponseWriter, r *http.Request, contentType string, data []byte, etag string) {
	if etag == "" {
		etag = uuid.NewSHA1(uuid.NameSpaceURL, data).String()
	}
	etag = `W/"` + etag + `"`

	w.Header().Set("ETag", etag)
	w.Header().Set("OData-Version", odataVersion)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write response", "error", err)
	}
}

// etagMatches applies the weak comparison of If-None-Match
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}

// writeValue writes the raw value of a property
func writeValue(w http.ResponseWriter, r *http.Request, value any) {
	var text string
	switch v := value.(type) {
	case nil:
		w.Header().Set("OData-Version", odataVersion)
		w.WriteHeader(http.StatusNoContent)
		return
	case []byte:
		writeBody(w, r, contentTypeBinary, v, "")
		return
	case string:
		text = v
	case time.Time:
		text = v.Format(time.RFC3339Nano)
	case float64:
		text = strconv.FormatFloat(v, 'g', -1, 64)
	case bool, int, int32, int64:
		text = fmt.Sprint(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			writeError(w, r, goerr.Wrap(err, "failed to encode value"))
			return
		}
		writeBody(w, r, contentTypeJSON, data, "")
		return
	}
	writeBody(w, r, contentTypeText, []byte(text), "")
}

// nextLink builds the URL of the next page, keeping every query option but $skip
func nextLink(serviceRoot, path, rawQuery string, skip int64) string {
	var params []string
	for _, p := range strings.Split(rawQuery, "&") {
		if p == "" {
			continue
		}
		name, _, _ := strings.Cut(p, "=")
		if name == "$skip" || strings.EqualFold(name, "%24skip") {
			continue
		}
		params = append(params, p)
	}
	params = append(params, "$skip="+strconv.FormatInt(skip, 10))
	return serviceRoot + "/" + path + "?" + strings.Join(params, "&")
}
