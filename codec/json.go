package codec

import (
	gojson "github.com/goccy/go-json"
)

// JSON marshals via goccy/go-json, which is wire-compatible with
// encoding/json but considerably faster.
type JSON struct{}

// ContentType implements the Codec interface.
func (JSON) ContentType() string { return "application/json" }

// Marshal implements the Codec interface.
func (JSON) Marshal(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal implements the Codec interface.
func (JSON) Unmarshal(data []byte, v any) error {
	return gojson.Unmarshal(data, v)
}
