package codec

import "gopkg.in/yaml.v3"

// YAML marshals via gopkg.in/yaml.v3. Decoded mappings may use any-typed
// keys; the engine widens them to string keys.
type YAML struct{}

// ContentType implements the Codec interface.
func (YAML) ContentType() string { return "application/yaml" }

// Marshal implements the Codec interface.
func (YAML) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal implements the Codec interface.
func (YAML) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
