package usecase

import (
	"fmt"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
)

// CropResult hoists the sub document stored under prefix to the root of doc.
// Root level fields read alongside it, such as keys, are kept.
func CropResult(doc model.Document, prefix string) model.Document {
	if prefix == "" {
		return doc
	}

	root, _, _ := strings.Cut(prefix, ".")
	var value any = doc
	for _, part := range strings.Split(prefix, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			value = nil
			break
		}
		value = m[part]
	}

	out := model.Document{}
	for k, v := range doc {
		if k != root {
			out[k] = v
		}
	}
	if sub, ok := value.(map[string]any); ok {
		for k, v := range sub {
			out[k] = v
		}
	}
	return out
}

// Annotate adds the @odata.id and @odata.etag control information of an
// entity of set. The uuid field is consumed by the etag.
func Annotate(serviceRoot string, doc model.Document, set *edm.EntitySet) {
	keys := set.Type().KeyProperties()
	values := map[string]any{}
	complete := true
	for _, k := range keys {
		v, ok := doc[k]
		if !ok {
			complete = false
			break
		}
		values[k] = v
	}
	if complete {
		doc["@odata.id"] = serviceRoot + "/" + set.Name + "(" + odata.FormatKeyPredicate(keys, values) + ")"
	}

	if uuid, ok := doc["uuid"]; ok {
		if uuid != nil {
			doc["@odata.etag"] = weakETag(uuid)
		}
		delete(doc, "uuid")
	}
}

func weakETag(uuid any) string {
	return fmt.Sprintf(`W/"%v"`, uuid)
}
