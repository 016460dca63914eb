package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Decoder drives one top-level decode. It carries no state across calls; a
// fresh value is populated in one synchronous pass or not at all.
type Decoder struct {
	Resolve  OverrideResolver
	MaxDepth int // 0 means unlimited
}

// DecodeStruct populates dst, an addressable struct value, from src. The
// strict flag is the ambient mode; per-field overrides from the plan win.
func (d *Decoder) DecodeStruct(dst reflect.Value, src any, strict bool) error {
	return d.decodeStruct(dst, src, strict, "", 0)
}

func (d *Decoder) decodeStruct(dst reflect.Value, src any, strict bool, path string, depth int) error {
	if err := d.checkDepth(path, depth); err != nil {
		return err
	}
	m, ok := asMap(src)
	if !ok {
		return issueAt(path, CodeInvalidSource, "expected object-shaped value", "actual", shapeOf(src))
	}
	pl, err := PlanFor(dst.Type(), d.Resolve)
	if err != nil {
		return err
	}
	for _, fp := range pl.Fields {
		eff := strict
		if fp.Strict != nil {
			eff = *fp.Strict
		}
		raw, present := m[fp.Key]
		if !present {
			if eff {
				return issueAt(childPath(path, fp.Key), CodeRequired, "required property missing", "field", fp.Name)
			}
			continue
		}
		// null is always "no update", independent of strictness; the field
		// keeps its current value. Deliberately asymmetric with the missing
		// key case above.
		if raw == nil {
			continue
		}
		if err := d.assign(dst.Field(fp.Index), fp, raw, eff, childPath(path, fp.Key), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) assign(fv reflect.Value, fp FieldPlan, raw any, strict bool, path string, depth int) error {
	if err := d.checkDepth(path, depth); err != nil {
		return err
	}
	switch fp.Kind {
	case KindPrimitive:
		nv, ok := convertPrimitive(fp.Type, raw)
		if !ok {
			return mismatch(strict, path, fp.Type.Kind().String(), raw)
		}
		return setField(fv, fp, nv, path)

	case KindSequence:
		items, ok := raw.([]any)
		if !ok {
			return mismatch(strict, path, "sequence", raw)
		}
		if fp.Type.Kind() == reflect.Array {
			return d.fillArray(fv, fp, items, strict, path, depth)
		}
		out := reflect.MakeSlice(fp.Type, 0, len(items))
		for i, it := range items {
			ev, err := d.coerceElement(fp.Type.Elem(), fp.Elem, it, strict, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return err
			}
			out = reflect.Append(out, ev)
		}
		return setField(fv, fp, out, path)

	case KindSet:
		items, ok := raw.([]any)
		if !ok {
			return mismatch(strict, path, "sequence", raw)
		}
		out := reflect.MakeMapWithSize(fp.Type, len(items))
		zero := reflect.Zero(fp.Type.Elem())
		for i, it := range items {
			kv, err := d.coerceElement(fp.Type.Key(), fp.Elem, it, strict, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return err
			}
			out.SetMapIndex(kv, zero)
		}
		return setField(fv, fp, out, path)

	case KindKeyedCollection:
		mm, ok := asMap(raw)
		if !ok {
			return mismatch(strict, path, "mapping", raw)
		}
		keys := make([]string, 0, len(mm))
		for k := range mm {
			keys = append(keys, k)
		}
		sort.Strings(keys) // stable first-error order
		out := reflect.MakeMapWithSize(fp.Type, len(mm))
		for _, k := range keys {
			ev, err := d.coerceElement(fp.Type.Elem(), fp.Elem, mm[k], strict, childPath(path, k), depth+1)
			if err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(fp.Type.Key()), ev)
		}
		return setField(fv, fp, out, path)

	case KindDate:
		t, ok := dateFromRaw(raw)
		if !ok {
			return mismatch(strict, path, "timestamp", raw)
		}
		return setField(fv, fp, reflect.ValueOf(t), path)

	case KindOpaqueRecord:
		m, ok := asMap(raw)
		if !ok {
			return mismatch(strict, path, "mapping", raw)
		}
		return setField(fv, fp, reflect.ValueOf(m), path)

	case KindNestedObject:
		if _, ok := asMap(raw); !ok {
			return mismatch(strict, path, "mapping", raw)
		}
		// Seed the nested scratch from the field's current contents so
		// prefilled nested values act as defaults, same as the top level.
		inst := reflect.New(fp.Type).Elem()
		if cur := derefCurrent(fv); cur.IsValid() && cur.Type() == fp.Type {
			inst.Set(cur)
		}
		if err := d.decodeStruct(inst, raw, strict, path, depth); err != nil {
			return err
		}
		return setField(fv, fp, inst, path)

	default: // KindUnresolved
		if strict {
			return issueAt(path, CodeInvalidTarget, "cannot resolve a type for field", "field", fp.Name, "type", fp.Type.String())
		}
		return nil
	}
}

// coerceElement applies the element rule for sequence/set/keyed-collection
// members. static is the collection's element type as declared on the struct;
// declared is the effective element type (nil means untyped passthrough).
func (d *Decoder) coerceElement(static, declared reflect.Type, raw any, strict bool, path string, depth int) (reflect.Value, error) {
	if err := d.checkDepth(path, depth); err != nil {
		return reflect.Value{}, err
	}
	if declared == nil {
		// untyped passthrough, even for mapping-shaped elements
		if raw == nil {
			return reflect.Zero(static), nil
		}
		if m, ok := asMap(raw); ok {
			return reflect.ValueOf(m), nil
		}
		return reflect.ValueOf(raw), nil
	}
	if raw == nil {
		return reflect.Zero(static), nil
	}
	dt := declared
	ptr := dt.Kind() == reflect.Ptr
	if ptr {
		dt = dt.Elem()
	}
	var val reflect.Value
	switch {
	case dt == timeType:
		// element-level date coercion always enforces, regardless of the
		// ambient mode: a malformed per-element date cannot be repaired by
		// leaving a slot unset.
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, issueAt(path, CodeInvalidType, "expected timestamp string", "actual", shapeOf(raw))
		}
		t, ok := parseTimestamp(s)
		if !ok {
			return reflect.Value{}, issueAt(path, CodeInvalidType, "malformed timestamp", "value", s)
		}
		val = reflect.ValueOf(t)
	case isPrimitive(dt):
		nv, ok := convertPrimitive(dt, raw)
		if !ok {
			return reflect.Value{}, issueAt(path, CodeInvalidType, "expected "+dt.Kind().String(), "actual", shapeOf(raw))
		}
		val = nv
	case dt.Kind() == reflect.Struct:
		if _, ok := asMap(raw); !ok {
			return reflect.Value{}, issueAt(path, CodeInvalidType, "expected mapping", "actual", shapeOf(raw))
		}
		inst := reflect.New(dt).Elem()
		if err := d.decodeStruct(inst, raw, strict, path, depth); err != nil {
			return reflect.Value{}, err
		}
		val = inst
	default:
		return reflect.Value{}, issueAt(path, CodeInvalidTarget, "unsupported element type", "type", declared.String())
	}
	if ptr {
		p := reflect.New(dt)
		p.Elem().Set(val)
		val = p
	}
	return val, nil
}

func (d *Decoder) fillArray(fv reflect.Value, fp FieldPlan, items []any, strict bool, path string, depth int) error {
	n := fp.Type.Len()
	if len(items) > n && strict {
		return issueAt(path, CodeInvalidType, "sequence longer than array", "max", n, "got", len(items))
	}
	out := reflect.New(fp.Type).Elem()
	for i, it := range items {
		if i >= n {
			break
		}
		ev, err := d.coerceElement(fp.Type.Elem(), fp.Elem, it, strict, path+"/"+strconv.Itoa(i), depth+1)
		if err != nil {
			return err
		}
		out.Index(i).Set(ev)
	}
	return setField(fv, fp, out, path)
}

func (d *Decoder) checkDepth(path string, depth int) error {
	if d.MaxDepth > 0 && depth > d.MaxDepth {
		return issueAt(path, CodeMaxDepth, "max depth exceeded", "max", d.MaxDepth)
	}
	return nil
}

// derefCurrent unwraps a field's current value through interfaces and
// pointers; invalid when there is nothing to inherit.
func derefCurrent(fv reflect.Value) reflect.Value {
	v := fv
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// setField writes val into fv, wrapping pointers and adapting to interface
// fields as compiled into the plan.
func setField(fv reflect.Value, fp FieldPlan, val reflect.Value, path string) error {
	if fp.Ptr {
		p := reflect.New(fp.Type)
		p.Elem().Set(val)
		val = p
	}
	if fv.Kind() == reflect.Interface && !val.Type().AssignableTo(fv.Type()) {
		if reflect.PtrTo(val.Type()).AssignableTo(fv.Type()) && val.CanAddr() {
			val = val.Addr()
		} else if reflect.PtrTo(val.Type()).AssignableTo(fv.Type()) {
			p := reflect.New(val.Type())
			p.Elem().Set(val)
			val = p
		} else {
			return issueAt(path, CodeInvalidTarget, "value does not satisfy field interface", "type", val.Type().String())
		}
	}
	fv.Set(val)
	return nil
}

// mismatch applies the strict/keep policy for a shape violation: strict mode
// reports, lenient mode keeps the current field value.
func mismatch(strict bool, path, expected string, raw any) error {
	if !strict {
		return nil
	}
	return issueAt(path, CodeInvalidType, "expected "+expected, "expected", expected, "actual", shapeOf(raw))
}

// ---- source shape helpers ----

// asMap widens the map representations produced by the supported unmarshalers
// (encoding/json and goccy produce map[string]any, yaml.v3 may produce
// map[any]any) into map[string]any. The source is never mutated.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, vv := range m {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = vv
		}
		return out, true
	}
	return nil, false
}

func shapeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return "number"
	case []any:
		return "sequence"
	case map[string]any, map[any]any:
		return "mapping"
	default:
		return reflect.TypeOf(v).String()
	}
}

// ---- primitive conversion ----

// convertPrimitive converts a source scalar into the target primitive type.
// Numeric sources match any numeric target as long as the value fits exactly;
// string and bool require the same scalar shape on both sides.
func convertPrimitive(t reflect.Type, raw any) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(s).Convert(t), true
	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(b).Convert(t), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt64(raw)
		if !ok {
			return reflect.Value{}, false
		}
		v := reflect.New(t).Elem()
		if v.OverflowInt(n) {
			return reflect.Value{}, false
		}
		v.SetInt(n)
		return v, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := toInt64(raw)
		if !ok || n < 0 {
			return reflect.Value{}, false
		}
		v := reflect.New(t).Elem()
		if v.OverflowUint(uint64(n)) {
			return reflect.Value{}, false
		}
		v.SetUint(uint64(n))
		return v, true
	case reflect.Float32, reflect.Float64:
		f, ok := toFloat64(raw)
		if !ok {
			return reflect.Value{}, false
		}
		v := reflect.New(t).Elem()
		if v.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		v.SetFloat(f)
		return v, true
	}
	return reflect.Value{}, false
}

func toInt64(raw any) (int64, bool) {
	switch n := raw.(type) {
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return toInt64(float64(n))
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func toFloat64(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	if i, ok := toInt64(raw); ok {
		return float64(i), true
	}
	return 0, false
}

// ---- date parsing ----

// parseTimestamp accepts RFC3339 (with or without sub-second precision) and
// bare calendar dates.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateFromRaw converts a source value to a time.Time: timestamp strings or
// numeric Unix seconds (the permissive policy, held consistently).
func dateFromRaw(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case string:
		return parseTimestamp(v)
	case float64:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return dateFromRaw(f)
		}
		return time.Time{}, false
	}
	if i, ok := toInt64(raw); ok {
		return time.Unix(i, 0).UTC(), true
	}
	return time.Time{}, false
}
