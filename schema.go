package transformer

import (
	"reflect"

	eng "github.com/KrtNinja/kr-transformer/internal/engine"
)

// Field is the optional per-field descriptor declared by a target type.
// All members may be left unset; everything then falls through to the field's
// statically declared type.
type Field struct {
	// Type overrides the field's expected type. Mandatory for interface-typed
	// fields other than plain any, whose type cannot be inferred statically.
	Type reflect.Type
	// Of declares the element type of a []any or map[string]any field.
	// Statically typed collections never need it; absent Of means elements
	// pass through unconverted.
	Of reflect.Type
	// Strict overrides the ambient strictness mode for this field only and
	// always wins over the caller-supplied mode.
	Strict *bool
}

// Schema maps Go field names to their descriptors. It is attached to the
// type, not per instance, and must be immutable after definition. Schemas are
// not inherited across embedded types.
type Schema map[string]Field

// Typed is implemented by target types that declare a Schema. The method is
// invoked on a zero value during plan compilation and must be side-effect
// free.
type Typed interface {
	Types() Schema
}

// TypeOf is a convenience for building Field descriptors:
//
//	Schema{"Items": {Of: transformer.TypeOf[Bar]()}}
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Strict builds the per-field strictness override value.
func Strict(v bool) *bool { return &v }

var typedIface = reflect.TypeOf((*Typed)(nil)).Elem()

// resolveOverrides adapts a type's Schema declaration to the engine's
// override table. Resolution never fails; types without a Schema resolve to
// nil.
func resolveOverrides(t reflect.Type) map[string]eng.Override {
	var sch Schema
	switch {
	case t.Implements(typedIface):
		sch = reflect.New(t).Elem().Interface().(Typed).Types()
	case reflect.PtrTo(t).Implements(typedIface):
		sch = reflect.New(t).Interface().(Typed).Types()
	default:
		return nil
	}
	if len(sch) == 0 {
		return nil
	}
	out := make(map[string]eng.Override, len(sch))
	for name, f := range sch {
		out[name] = eng.Override{Type: f.Type, Of: f.Of, Strict: f.Strict}
	}
	return out
}
