package http

import (
	"encoding/json"
	"fmt"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"
)

// The API description is maintained as YAML next to the handlers and
// served as JSON from /openapi.json.
//
//go:embed openapi.yaml
var apiSpecYAML []byte

// getOpenAPIJSON converts the embedded YAML once and serves the cached
// JSON afterwards.
var getOpenAPIJSON = sync.OnceValues(func() ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(apiSpecYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing api description: %w", err)
	}
	return json.MarshalIndent(jsonSafe(doc), "", "  ")
})

// jsonSafe rewrites any mapping with non-string keys into a
// string-keyed map so the document can be marshaled as JSON. Keys that
// are not strings have no JSON representation and are dropped.
func jsonSafe(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		for key, value := range v {
			v[key] = jsonSafe(value)
		}
		return v
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if name, ok := key.(string); ok {
				out[name] = jsonSafe(value)
			}
		}
		return out
	case []interface{}:
		for i, value := range v {
			v[i] = jsonSafe(value)
		}
		return v
	default:
		return v
	}
}
