package transformer

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidTarget = "invalid_target"
	CodeInvalidSource = "invalid_source"
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeCyclicSchema  = "cyclic_schema"
	CodeMaxDepth      = "max_depth"
	CodeParseError    = "parse_error"
)

// Sentinel error kinds. Every Issue carries one as its Cause, so callers can
// branch with errors.Is without inspecting codes.
var (
	// ErrInvalidTarget reports a target type that cannot be decoded into: not
	// a struct, or a field whose type cannot be resolved.
	ErrInvalidTarget = errors.New("transformer: invalid target")
	// ErrInvalidSource reports a source value that is not object-shaped.
	ErrInvalidSource = errors.New("transformer: invalid source")
	// ErrInvalidType reports a field or element whose source value disagrees
	// with the declared/inferred shape, including missing required fields.
	ErrInvalidType = errors.New("transformer: invalid type")
	// ErrCyclicSchema reports a self-referential target type graph.
	ErrCyclicSchema = errors.New("transformer: cyclic schema")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // The sentinel kind (ErrInvalidType etc.) or an underlying error.
	// Params carries structured parameters (e.g., {"expected":"string",
	// "actual":"number"}) for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error. Decoding
// is fail-fast, so in practice it holds the single first violation.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes each issue's cause so errors.Is matches the sentinel kinds.
func (iss Issues) Unwrap() []error {
	out := make([]error, 0, len(iss))
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// kindFor maps an issue code to its sentinel error kind.
func kindFor(code string) error {
	switch code {
	case CodeInvalidTarget:
		return ErrInvalidTarget
	case CodeInvalidSource, CodeMaxDepth, CodeParseError:
		return ErrInvalidSource
	case CodeInvalidType, CodeRequired:
		return ErrInvalidType
	case CodeCyclicSchema:
		return ErrCyclicSchema
	}
	return nil
}
