package transformer

import (
	"reflect"

	eng "github.com/KrtNinja/kr-transformer/internal/engine"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct
// field's external key used in source data and in ToJSON output.
// Priority: transform:"name=..." > json tag name > field name; "-" disables
// the field.
func ResolveStructKey(sf reflect.StructField) string {
	return eng.ResolveKey(sf)
}
