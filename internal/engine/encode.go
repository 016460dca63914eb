package engine

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"sort"
	"time"
)

// maxEncodeDepth bounds the walk so cyclic instance graphs report an error
// instead of hanging. Acyclic finite values never get near it.
const maxEncodeDepth = 1000

// Encode flattens an instance into plain JSON-shaped data: maps, sequences
// and primitives only, prototype- and function-free. It has no side effects
// on the instance and needs no schema: the runtime shape is self-describing.
func Encode(v any) (any, error) {
	return encodeValue(reflect.ValueOf(v), 0)
}

func encodeValue(rv reflect.Value, depth int) (any, error) {
	if depth > maxEncodeDepth {
		return nil, issueAt("/", CodeMaxDepth, "max depth exceeded while encoding")
	}
	if !rv.IsValid() {
		return nil, nil
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return encodeValue(rv.Elem(), depth+1)

	case reflect.Struct:
		if rv.Type() == timeType {
			return canonicalDate(rv.Interface().(time.Time)), nil
		}
		return encodeStruct(rv, depth)

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return base64.StdEncoding.EncodeToString(rv.Bytes()), nil
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := encodeValue(rv.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		return out, nil

	case reflect.Map:
		if isEmptyStruct(rv.Type().Elem()) {
			return encodeSet(rv, depth)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := encodeValue(iter.Value(), depth+1)
			if err != nil {
				return nil, err
			}
			out[mapKeyString(iter.Key())] = ev
		}
		return out, nil

	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil

	default:
		// func, chan, complex and friends are not data
		return nil, nil
	}
}

func encodeStruct(rv reflect.Value, depth int) (map[string]any, error) {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		key := ResolveKey(sf)
		if key == "-" {
			continue
		}
		switch sf.Type.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			continue
		}
		ev, err := encodeValue(rv.Field(i), depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = ev
	}
	return out, nil
}

// encodeSet flattens a map[K]struct{} into a deterministically ordered plain
// sequence. Keys are ordered by their encoded rendering so repeated encodes
// of the same set are structurally equal.
func encodeSet(rv reflect.Value, depth int) ([]any, error) {
	type entry struct {
		sortKey string
		val     any
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		ev, err := encodeValue(iter.Key(), depth+1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{sortKey: fmt.Sprint(ev), val: ev})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].sortKey < entries[j].sortKey })
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.val
	}
	return out, nil
}

func mapKeyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// canonicalDate renders the canonical wire form of a date: RFC3339 in UTC,
// sub-second precision kept when present.
func canonicalDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
