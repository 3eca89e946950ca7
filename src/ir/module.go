package ir

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Module is an ordered collection of functions: the complete IR for one
// compilation unit. Grounded on original_source's IntermediateRepresentation
// (ir/cfg.hpp), which accumulates one CFG per function.
type Module struct {
	functions []*Function
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewModule returns an empty Module.
func NewModule() *Module {
	return &Module{}
}

// AddFunction appends f to the module and returns it, for chaining.
func (m *Module) AddFunction(f *Function) *Function {
	m.functions = append(m.functions, f)
	return f
}

// NewFunction mints a fresh Function with a module-unique id, adds it to
// the module, and returns it.
func (m *Module) NewFunction(name string) *Function {
	f := NewFunction(len(m.functions), name)
	return m.AddFunction(f)
}

// Functions returns every function in the module, in the order they were
// added.
func (m *Module) Functions() []*Function {
	return m.functions
}

func (m *Module) String() string {
	s := ""
	for _, f := range m.functions {
		s += f.String() + "\n"
	}
	return s
}
