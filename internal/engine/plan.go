package engine

import (
	"reflect"
	"strings"
	"time"
)

// Kind tags the decode strategy chosen for a field. It is decided once per
// target type, before any value inspection, so the decode loop dispatches on a
// tagged variant instead of probing values repeatedly.
type Kind int

const (
	// KindPrimitive covers strings, booleans and all numeric kinds.
	KindPrimitive Kind = iota
	// KindSequence covers slices and arrays. Sources must be sequences.
	KindSequence
	// KindSet covers map[K]struct{} collections, filled from sequences.
	KindSet
	// KindKeyedCollection covers string-keyed maps, filled from mappings.
	KindKeyedCollection
	// KindDate covers time.Time fields, filled from timestamp strings or
	// numeric Unix seconds.
	KindDate
	// KindNestedObject covers struct (or pointer-to-struct) fields, decoded
	// recursively with their own plan.
	KindNestedObject
	// KindOpaqueRecord covers plain any fields without an override: mapping
	// sources are assigned verbatim, untyped.
	KindOpaqueRecord
	// KindUnresolved marks fields whose type cannot be determined (named
	// interfaces without an override, unsupported kinds). Strict decodes
	// report these; lenient decodes skip them.
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	case KindKeyedCollection:
		return "keyed_collection"
	case KindDate:
		return "date"
	case KindNestedObject:
		return "nested_object"
	case KindOpaqueRecord:
		return "opaque_record"
	default:
		return "unresolved"
	}
}

// Override carries the per-field declaration supplied by the public package
// alongside a target type. Zero value means "infer everything statically".
type Override struct {
	Type   reflect.Type // replaces the field type for interface-typed fields
	Of     reflect.Type // element type for []any / map[string]any fields
	Strict *bool        // per-field strictness, wins over the ambient mode
}

// OverrideResolver returns the override table declared for a target type, or
// nil when the type declares none. Resolution never fails; a missing entry is
// an empty Override.
type OverrideResolver func(t reflect.Type) map[string]Override

// FieldPlan is the compiled decode/encode strategy for one struct field.
type FieldPlan struct {
	Name   string       // Go field name
	Key    string       // external key looked up in source data
	Index  int          // struct field index
	Kind   Kind
	Type   reflect.Type // type driving the kind; the override target for interface fields
	Ptr    bool         // field holds *Type rather than Type
	Elem   reflect.Type // declared element type for Sequence/Set/KeyedCollection; nil means passthrough
	Strict *bool
}

// Plan is the compiled shape of a target struct type.
type Plan struct {
	Type   reflect.Type
	Fields []FieldPlan
}

var (
	timeType = reflect.TypeOf(time.Time{})
	anyType  = reflect.TypeOf((*any)(nil)).Elem()
)

// ResolveKey resolves a struct field's external key.
// Priority: transform:"name=..." > json tag name > field name; "-" hides the
// field from both directions.
func ResolveKey(sf reflect.StructField) string {
	if tt := sf.Tag.Get("transform"); tt != "" {
		for _, p := range strings.Split(tt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
			if p == "-" {
				return "-"
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

type compiler struct {
	resolve  OverrideResolver
	visiting map[reflect.Type]bool
	path     []string
}

func (c *compiler) compileStruct(t reflect.Type) (*Plan, error) {
	if t.Kind() != reflect.Struct || t == timeType {
		return nil, issueAt("/", CodeInvalidTarget, "target must be a struct type", "type", t.String())
	}
	if c.visiting[t] {
		chain := append(append([]string{}, c.path...), t.String())
		return nil, issueAt("/", CodeCyclicSchema, "self-referential type graph: "+strings.Join(chain, " -> "), "type", t.String())
	}
	c.visiting[t] = true
	c.path = append(c.path, t.String())
	defer func() {
		delete(c.visiting, t)
		c.path = c.path[:len(c.path)-1]
	}()

	var overrides map[string]Override
	if c.resolve != nil {
		overrides = c.resolve(t)
	}

	pl := &Plan{Type: t}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported: invisible in both directions
			continue
		}
		key := ResolveKey(sf)
		if key == "-" {
			continue
		}
		switch sf.Type.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			// never data fields
			continue
		}
		fp := fieldPlanOf(sf.Type, overrides[sf.Name])
		fp.Name = sf.Name
		fp.Key = key
		fp.Index = i
		fp.Strict = overrides[sf.Name].Strict
		if err := c.checkNested(fp); err != nil {
			return nil, err
		}
		pl.Fields = append(pl.Fields, fp)
	}
	return pl, nil
}

// checkNested eagerly compiles nested struct plans so that self-referential
// type graphs surface as CodeCyclicSchema instead of unbounded recursion.
func (c *compiler) checkNested(fp FieldPlan) error {
	var nested reflect.Type
	switch fp.Kind {
	case KindNestedObject:
		nested = fp.Type
	case KindSequence, KindSet, KindKeyedCollection:
		nested = structElem(fp.Elem)
	}
	if nested == nil {
		return nil
	}
	if p, ok := planCache.Load(nested); ok && p != nil {
		return nil
	}
	pl, err := c.compileStruct(nested)
	if err != nil {
		return err
	}
	planCache.Store(nested, pl)
	return nil
}

// structElem dereferences an element type down to a struct type, or nil.
func structElem(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct && t != timeType {
		return t
	}
	return nil
}

func fieldPlanOf(ft reflect.Type, ov Override) FieldPlan {
	fp := FieldPlan{Type: ft}
	if ft.Kind() == reflect.Ptr {
		fp.Ptr = true
		ft = ft.Elem()
		fp.Type = ft
	}
	switch {
	case ft == timeType:
		fp.Kind = KindDate
	case isPrimitive(ft):
		fp.Kind = KindPrimitive
	case ft.Kind() == reflect.Slice || ft.Kind() == reflect.Array:
		fp.Kind = KindSequence
		fp.Elem = declaredElem(ft.Elem(), ov.Of)
	case ft.Kind() == reflect.Map:
		if isEmptyStruct(ft.Elem()) {
			fp.Kind = KindSet
			fp.Elem = ft.Key()
		} else if ft.Key().Kind() == reflect.String {
			fp.Kind = KindKeyedCollection
			fp.Elem = declaredElem(ft.Elem(), ov.Of)
		} else {
			fp.Kind = KindUnresolved
		}
	case ft.Kind() == reflect.Struct:
		fp.Kind = KindNestedObject
	case ft.Kind() == reflect.Interface:
		if ov.Type != nil {
			// the decoded value is assigned through the interface field
			return fieldPlanOf(ov.Type, Override{Of: ov.Of})
		}
		if ft == anyType {
			fp.Kind = KindOpaqueRecord
		} else {
			fp.Kind = KindUnresolved
		}
	default:
		fp.Kind = KindUnresolved
	}
	return fp
}

// declaredElem returns the effective element type for a collection: the static
// element type when it is concrete, the Of override when the static type is
// any, nil when elements pass through unconverted.
func declaredElem(static, of reflect.Type) reflect.Type {
	if static != anyType {
		return static
	}
	return of
}

func isPrimitive(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}
