package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack uses the vmihailenco/msgpack library for serialization.
// It is generally faster and produces smaller output than JSON.
type Msgpack struct{}

// ContentType implements the Codec interface.
func (Msgpack) ContentType() string { return "application/msgpack" }

// Marshal implements the Codec interface.
func (Msgpack) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal implements the Codec interface.
func (Msgpack) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
