// Package codec provides the pluggable wire formats used around the
// transformer engine: JSON (default), YAML and MessagePack. Each codec turns
// documents into the JSON-shaped any values the engine decodes from, and
// renders the plain values ToJSON produces.
package codec

import "sync"

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

var (
	defaultMu    sync.RWMutex
	defaultCodec Codec = JSON{}
)

// SetDefault replaces the process-wide default codec; nil values are ignored.
func SetDefault(c Codec) {
	if c == nil {
		return
	}
	defaultMu.Lock()
	defaultCodec = c
	defaultMu.Unlock()
}

// UseDefaultJSON restores the JSON default codec.
func UseDefaultJSON() {
	defaultMu.Lock()
	defaultCodec = JSON{}
	defaultMu.Unlock()
}

// Default returns the current default codec.
func Default() Codec {
	defaultMu.RLock()
	c := defaultCodec
	defaultMu.RUnlock()
	return c
}
