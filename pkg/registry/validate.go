package registry

import (
	"reflect"

	"github.com/platinummonkey/diplomacy/pkg/result"
)

// Validate runs the validation pipeline for m against the current contents
// of the registry. Checks run in a fixed order and the first failure wins:
//
//  1. empty identity: InvalidPluginID
//  2. identity already registered: InvalidPluginDuplicateID
//  3. empty provider identity: InvalidPluginProvider
//  4. origin not valid for provider: InvalidPluginAssembly (not enforced)
//
// Nil metadata, including a typed nil pointer, is InvalidPluginID.
func (r *Registry[P, M]) Validate(m M) result.Result {
	if isNil(m) || m.ID() == "" {
		return result.New(result.InvalidPluginID)
	}

	if r.Has(m.ID()) {
		return result.New(result.InvalidPluginDuplicateID)
	}

	if !validProvider(m.ProviderID()) {
		return result.New(result.InvalidPluginProvider)
	}

	if !r.validOrigin(m) {
		return result.New(result.InvalidPluginAssembly)
	}

	return result.OK()
}

// isNil reports whether v is nil or holds a nil pointer, map, slice,
// func, chan or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// validProvider only checks that a provider identity was given.
func validProvider(id string) bool {
	return id != ""
}

// validOrigin is where the candidate's origin would be checked against its
// declared provider. No trust model exists yet, so every candidate passes.
func (r *Registry[P, M]) validOrigin(M) bool {
	return true
}
