package codegen

import "block-lang/internal/ir"

// scope maps local names to the values currently bound to them. Bodies are straight-line,
// so an assignment simply rebinds the name.
type scope struct {
	values map[string]ir.Value
	params map[string]bool // parameters not yet reassigned; their values have no known type
}

func newScope() *scope {
	return &scope{values: make(map[string]ir.Value), params: make(map[string]bool)}
}

func (s *scope) param(name string) {
	s.params[name] = true
}

func (s *scope) isParam(name string) bool {
	return s.params[name]
}

func (s *scope) set(name string, v ir.Value) {
	delete(s.params, name)
	s.values[name] = v
}

func (s *scope) get(name string) (ir.Value, bool) {
	v, ok := s.values[name]
	return v, ok
}
