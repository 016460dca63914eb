package transformer

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/KrtNinja/kr-transformer/i18n"
	eng "github.com/KrtNinja/kr-transformer/internal/engine"
)

// FromJSON materializes a fully typed T from JSON-shaped source data
// (map[string]any, []any, primitives, as produced by any of the codecs).
// Validation is strict by default: shape mismatches and missing fields abort
// with structured Issues. The source is never mutated; on failure no partial
// instance is returned.
func FromJSON[T any](src any, opts ...DecodeOpt) (T, error) {
	var out T
	if err := Decode(&out, src, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Decode populates dst, a non-nil pointer to a struct, from src. It is the
// non-generic form of FromJSON for call sites that already hold a pointer.
// Values already present in dst act as field defaults: a missing (lenient
// mode) or null source value leaves them in place. dst is written only when
// the whole decode succeeds.
func Decode(dst any, src any, opts ...DecodeOpt) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return singleIssue(CodeInvalidTarget, "destination must be a non-nil pointer to a struct")
	}
	dstV := rv.Elem()
	ev := dstV
	// A nil pointer destination gets its pointee allocated off to the side
	// and published together with the decoded contents, so a failed call
	// leaves the caller's pointer nil.
	var newPtr reflect.Value
	if dstV.Kind() == reflect.Ptr {
		if dstV.IsNil() {
			newPtr = reflect.New(dstV.Type().Elem())
			ev = newPtr.Elem()
		} else {
			ev = dstV.Elem()
		}
	}
	if ev.Kind() != reflect.Struct {
		return singleIssue(CodeInvalidTarget, "target must be a struct type")
	}
	if src == nil {
		return singleIssue(CodeInvalidSource, "source is null")
	}
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	d := &eng.Decoder{Resolve: resolveOverrides, MaxDepth: opt.MaxDepth}
	// Decode into a scratch instance so a failed call publishes nothing.
	// The scratch starts from dst's current contents: prefilled fields act as
	// defaults and survive missing or null source values.
	tmp := reflect.New(ev.Type()).Elem()
	tmp.Set(ev)
	if err := d.DecodeStruct(tmp, src, !opt.Lenient); err != nil {
		return toIssues(err)
	}
	ev.Set(tmp)
	if newPtr.IsValid() {
		dstV.Set(newPtr)
	}
	return nil
}

// ToJSON flattens an instance into plain JSON-shaped data: maps, sequences
// and primitives only. Dates become canonical RFC3339 strings, sets become
// ordered sequences, unexported and function-valued fields are dropped.
// It needs no schema and never fails on acyclic finite values.
func ToJSON(v any) (any, error) {
	out, err := eng.Encode(v)
	if err != nil {
		return nil, toIssues(err)
	}
	return out, nil
}

// Localize rewrites issue messages through the current i18n translator,
// keeping paths, codes and params intact.
func Localize(iss Issues) Issues {
	out := make(Issues, len(iss))
	for i, it := range iss {
		data := make(map[string]string, len(it.Params))
		for k, v := range it.Params {
			data[k] = toParamString(v)
		}
		it.Message = i18n.T(it.Code, data)
		out[i] = it
	}
	return out
}

func toParamString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ---- helpers (issue translation) ----

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		msg := ie.Message
		if msg == "" {
			msg = i18n.T(ie.Code, nil)
		}
		return AppendIssues(nil, Issue{
			Code:    ie.Code,
			Path:    ie.Path,
			Message: msg,
			Cause:   kindFor(ie.Code),
			Params:  ie.Params,
		})
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Message: err.Error(), Cause: ErrInvalidSource})
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Code: code, Path: "/", Message: msg, Cause: kindFor(code)})
}
