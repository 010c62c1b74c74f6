package plugin

import (
	"reflect"
)

// Module is a preloaded, named bundle of exports compiled into the binary.
// A module can export components of several capability families; catalogs
// pick out the exports whose contract matches what they were asked for.
type Module struct {
	Name    string
	Exports []Export
}

// NewModule creates a module with the given exports.
func NewModule(name string, exports ...Export) *Module {
	return &Module{Name: name, Exports: exports}
}

// Export is a single exported component: its descriptor, the contract type
// it is exported under, and a deferred factory.
type Export struct {
	Descriptor Descriptor
	contract   reflect.Type
	newFunc    func() Plugin
}

// NewExport declares an export of fn under contract P.
func NewExport[P Plugin](d Descriptor, fn func() P) Export {
	return Export{
		Descriptor: d,
		contract:   reflect.TypeFor[P](),
		newFunc:    func() Plugin { return fn() },
	}
}

// Contract returns the type the export was declared under.
func (e Export) Contract() reflect.Type {
	return e.contract
}

// Matches reports whether the export was declared under contract P.
func Matches[P Plugin](e Export) bool {
	return e.contract == reflect.TypeFor[P]()
}

// Factory returns the export's deferred factory typed as P. It returns false
// when the export was not declared under P. A factory that produces nil
// yields the zero P.
func Factory[P Plugin](e Export) (func() P, bool) {
	if !Matches[P](e) || e.newFunc == nil {
		return nil, false
	}
	fn := e.newFunc
	return func() P {
		p, _ := fn().(P)
		return p
	}, true
}
