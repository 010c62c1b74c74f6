package result

import (
	"fmt"
	"sort"
)

// Code identifies the kind of an outcome. Values are stable and are the only
// thing outcomes are compared on; messages are for display.
type Code int

const (
	Success                  Code = 0
	InvalidArgument          Code = -100
	NotInitialized           Code = -400
	AlreadyInitialized       Code = -401
	InvalidPluginID          Code = -410
	InvalidPluginDuplicateID Code = -411
	InvalidPluginProvider    Code = -412
	// InvalidPluginAssembly is reserved for the provider/origin cross-check,
	// which is not implemented. Nothing returns it today.
	InvalidPluginAssembly Code = -413
	NoPluginsLoaded       Code = -420
)

type codeInfo struct {
	name    string
	message string
}

var codes = map[Code]codeInfo{
	Success:                  {"Success", "Success"},
	InvalidArgument:          {"InvalidArgument", "Invalid argument specified."},
	NotInitialized:           {"NotInitialized", "Class has not been initialized."},
	AlreadyInitialized:       {"AlreadyInitialized", "Class has already been initialized."},
	InvalidPluginID:          {"InvalidPluginID", "Plugin ID is an invalid format."},
	InvalidPluginDuplicateID: {"InvalidPluginDuplicateID", "Plugin ID is already registered."},
	InvalidPluginProvider:    {"InvalidPluginProvider", "Plugin Provider is not a viable ID."},
	InvalidPluginAssembly:    {"InvalidPluginAssembly", "Plugin assembly is not valid for the Provider."},
	NoPluginsLoaded:          {"NoPluginsLoaded", "No plugins loaded."},
}

// Value returns the stable numeric value of the code.
func (c Code) Value() int {
	return int(c)
}

// Name returns the identifier of the code, e.g. "InvalidPluginID".
func (c Code) Name() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Message returns the human readable text for the code.
func (c Code) Message() string {
	if info, ok := codes[c]; ok {
		return info.message
	}
	return fmt.Sprintf("unknown result code %d", int(c))
}

// String implements fmt.Stringer and returns the display message.
func (c Code) String() string {
	return c.Message()
}

// Valid reports whether c is part of the closed code set.
func (c Code) Valid() bool {
	_, ok := codes[c]
	return ok
}

// Error lets a bare Code act as an error target for errors.Is.
func (c Code) Error() string {
	return c.Message()
}

// Compare orders codes by value. It returns -1, 0 or +1.
func (c Code) Compare(other Code) int {
	switch {
	case c < other:
		return -1
	case c > other:
		return 1
	default:
		return 0
	}
}

// All returns every known code ordered from highest to lowest value, so
// Success comes first.
func All() []Code {
	all := make([]Code, 0, len(codes))
	for c := range codes {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] > all[j] })
	return all
}

// FromValue looks up a code by its numeric value.
func FromValue(value int) (Code, error) {
	c := Code(value)
	if !c.Valid() {
		return 0, fmt.Errorf("'%d' is not a valid value in result.Code", value)
	}
	return c, nil
}

// FromName looks up a code by its identifier or its display message.
func FromName(name string) (Code, error) {
	for c, info := range codes {
		if info.name == name || info.message == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("'%s' is not a valid name in result.Code", name)
}

// AbsoluteDifference returns the distance between the values of two codes.
func AbsoluteDifference(a, b Code) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
