package transformer

// DecodeOpt bundles decoding options. The zero value is the default: strict
// validation, unlimited depth.
type DecodeOpt struct {
	// Lenient downgrades shape mismatches from errors to "keep the current
	// value and continue". Missing required fields are tolerated the same
	// way. Element-level date coercion still enforces (see FromJSON).
	Lenient bool
	// MaxDepth caps the nesting depth of the source data; 0 means unlimited.
	// Exceeding it aborts the decode.
	MaxDepth int
}
