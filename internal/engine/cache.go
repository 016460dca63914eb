package engine

import (
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	planCache sync.Map // reflect.Type -> *Plan
	planGroup singleflight.Group
)

// PlanFor returns the compiled plan for t, compiling and caching it on first
// use. Concurrent first-time compilations of the same type are deduplicated.
//
// The singleflight key is a string, and reflect.Type.String is not unique:
// distinct function-local types can share a name. A joined flight may
// therefore hand back a plan (or error) compiled for a different type of the
// same name, so the result is trusted only when it is for t; otherwise the
// cache is re-checked under the reflect.Type key and t is compiled directly.
func PlanFor(t reflect.Type, resolve OverrideResolver) (*Plan, error) {
	if p, ok := planCache.Load(t); ok {
		return p.(*Plan), nil
	}
	v, err, shared := planGroup.Do(typeKey(t), func() (any, error) {
		return compilePlan(t, resolve)
	})
	if err == nil {
		if p := v.(*Plan); p.Type == t {
			return p, nil
		}
	} else if !shared {
		return nil, err
	}
	if p, ok := planCache.Load(t); ok {
		return p.(*Plan), nil
	}
	return compilePlan(t, resolve)
}

func compilePlan(t reflect.Type, resolve OverrideResolver) (*Plan, error) {
	if p, ok := planCache.Load(t); ok {
		return p.(*Plan), nil
	}
	c := &compiler{resolve: resolve, visiting: make(map[reflect.Type]bool)}
	p, err := c.compileStruct(t)
	if err != nil {
		return nil, err
	}
	planCache.Store(t, p)
	return p, nil
}

func typeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.String()
}
