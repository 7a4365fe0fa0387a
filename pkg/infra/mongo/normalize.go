package mongo

import (
	"time"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalize converts a decoded BSON document into plain Go values: nested
// documents become maps, arrays become slices, integers become int64 and
// BSON specific types are turned into their JSON friendly representation.
func Normalize(doc bson.M) model.Document {
	out := make(model.Document, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch value := v.(type) {
	case bson.M:
		return Normalize(value)
	case map[string]any:
		return Normalize(value)
	case bson.D:
		out := make(model.Document, len(value))
		for _, e := range value {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		return normalizeSlice(value)
	case []any:
		return normalizeSlice(value)
	case int32:
		return int64(value)
	case primitive.ObjectID:
		return value.Hex()
	case primitive.DateTime:
		return value.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(value.T), 0).UTC()
	case primitive.Decimal128:
		return value.String()
	case primitive.Binary:
		if value.Subtype == bson.TypeBinaryUUID || value.Subtype == bson.TypeBinaryUUIDOld {
			if id, err := uuid.FromBytes(value.Data); err == nil {
				return id.String()
			}
		}
		return value.Data
	case primitive.Regex:
		return value.Pattern
	case primitive.Symbol:
		return string(value)
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}

func normalizeSlice(values []any) []any {
	out := make([]any, 0, len(values))
	for _, item := range values {
		out = append(out, normalizeValue(item))
	}
	return out
}
