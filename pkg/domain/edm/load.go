package edm

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed edmx.schema.json
var embeddedSchemaData string

// Format is the serialization of a model definition file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath guesses the definition format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", goerr.New("unsupported model definition format", goerr.V("path", path))
}

// Load reads, validates, decodes and processes a model definition file
func Load(path string) (*Edmx, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read model definition", goerr.V("path", path))
	}

	edmx, err := Parse(data, format)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid model definition", goerr.V("path", path))
	}
	return edmx, nil
}

// Parse validates, decodes and processes a serialized model definition
func Parse(data []byte, format Format) (*Edmx, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, goerr.Wrap(err, "failed to parse JSON")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, goerr.Wrap(err, "failed to parse YAML")
		}
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, goerr.Wrap(err, "failed to parse TOML")
		}
		raw = doc
	default:
		return nil, goerr.New("unsupported model definition format", goerr.V("format", format))
	}

	doc, err := toJSONValue(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	edmx, err := Decode(doc)
	if err != nil {
		return nil, err
	}
	if err := edmx.Process(); err != nil {
		return nil, err
	}
	return edmx, nil
}

// toJSONValue converts YAML/TOML decoded values into plain JSON values
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, goerr.Wrap(err, "model definition cannot be represented as JSON")
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to normalize model definition")
	}
	return out, nil
}

var definitionSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("edmx.json", strings.NewReader(embeddedSchemaData)); err != nil {
		return nil, goerr.Wrap(err, "failed to add embedded schema resource")
	}
	schema, err := compiler.Compile("edmx.json")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile embedded schema")
	}
	return schema, nil
})

// Validate checks a JSON-like model definition against the embedded JSON Schema
func Validate(doc any) error {
	schema, err := definitionSchema()
	if err != nil {
		return err
	}

	if err := schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return goerr.New("model definition does not match the schema",
				goerr.V("errors", strings.Join(messages, "; ")))
		}
		return goerr.Wrap(err, "model definition validation failed")
	}
	return nil
}

func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" && len(err.Causes) == 0 {
		*messages = append(*messages, fmt.Sprintf("%s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}

var wrappedLists = map[reflect.Type]string{
	reflect.TypeOf(DataServices{}):         "Schemas",
	reflect.TypeOf(Key{}):                  "PropertyRefs",
	reflect.TypeOf(NullExpression{}):       "Annotations",
	reflect.TypeOf(CollectionExpression{}): "Items",
}

// wrapListHook accepts the short list form of single-list elements, e.g.
// "Key": [{"Name": "ID"}] instead of "Key": {"PropertyRefs": [...]}
func wrapListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Slice {
		return data, nil
	}
	for to.Kind() == reflect.Ptr {
		to = to.Elem()
	}
	if field, ok := wrappedLists[to]; ok {
		return map[string]any{field: data}, nil
	}
	return data, nil
}

// Decode builds an unprocessed model from a generic document
func Decode(doc any) (*Edmx, error) {
	var edmx Edmx
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &edmx,
		WeaklyTypedInput: true,
		DecodeHook:       wrapListHook,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create model decoder")
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode model definition")
	}
	if edmx.DataServices == nil {
		return nil, goerr.New("missing DataServices attribute")
	}
	return &edmx, nil
}
