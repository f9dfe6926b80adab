package semantic

import (
	"dragonc/internal/ast"
)

// SymbolKind distinguishes the two kinds of Symbol spec §3 allows.
type SymbolKind int

const (
	VarSymbol SymbolKind = iota
	FuncSymbol
)

// Symbol is either a Variable {name, type-tag} or a Function
// {name, return-type, parameter-list} per spec §3.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Type       ast.TypeTag   // for VarSymbol
	Params     []ast.Param   // for FuncSymbol
	ReturnType ast.TypeTag   // for FuncSymbol; ast.TypeUnknown until first `return`
	ReturnSet  bool          // true once ReturnType has been fixed by a `return`
}

// scope is one arena node: a flat symbol map plus a parent index. -1 marks
// the global scope, which has no parent.
type scope struct {
	symbols map[string]*Symbol
	parent  int
}

// SymbolTable is a tree of scopes modeled as an arena of nodes holding
// parent indices (spec §9's redesign flag for symbol-table parent
// pointers), which avoids reference cycles and keeps scope lifetime
// explicit: a scope is simply never visited again after PopScope, with no
// separate free step required.
type SymbolTable struct {
	scopes  []*scope
	current int
}

// NewSymbolTable creates a symbol table containing only the global scope.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.scopes = append(st.scopes, &scope{symbols: make(map[string]*Symbol), parent: -1})
	st.current = 0
	return st
}

// PushScope opens a new scope nested inside the current one and makes it
// current.
func (st *SymbolTable) PushScope() {
	st.scopes = append(st.scopes, &scope{symbols: make(map[string]*Symbol), parent: st.current})
	st.current = len(st.scopes) - 1
}

// PopScope returns to the enclosing scope.
func (st *SymbolTable) PopScope() {
	st.current = st.scopes[st.current].parent
}

// IsGlobalScope reports whether the current scope is the root.
func (st *SymbolTable) IsGlobalScope() bool {
	return st.current == 0
}

// DefineVar binds name as a variable in the CURRENT scope. It returns
// false if name is already bound in this scope (spec §3 invariant a);
// shadowing a name from an enclosing scope is permitted and not reported
// here.
func (st *SymbolTable) DefineVar(name string, typ ast.TypeTag) bool {
	sc := st.scopes[st.current]
	if _, exists := sc.symbols[name]; exists {
		return false
	}
	sc.symbols[name] = &Symbol{Name: name, Kind: VarSymbol, Type: typ}
	return true
}

// DefineFunc binds name as a function in the global scope (spec §3
// invariant b: function symbols exist only in the global scope). It
// returns false if name is already bound globally.
func (st *SymbolTable) DefineFunc(name string, params []ast.Param) (*Symbol, bool) {
	global := st.scopes[0]
	if _, exists := global.symbols[name]; exists {
		return nil, false
	}
	sym := &Symbol{Name: name, Kind: FuncSymbol, Params: params, ReturnType: ast.TypeUnknown}
	global.symbols[name] = sym
	return sym, true
}

// Resolve walks the parent chain from the current scope outward and
// returns the first symbol bound to name, if any.
func (st *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for i := st.current; i != -1; i = st.scopes[i].parent {
		if sym, ok := st.scopes[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// ResolveGlobal looks up name in the global scope only, used for resolving
// call callees (spec §3 invariant b).
func (st *SymbolTable) ResolveGlobal(name string) (*Symbol, bool) {
	sym, ok := st.scopes[0].symbols[name]
	return sym, ok
}

// SetFuncReturnType fixes sym's return type on the first `return`
// encountered for that function (spec §3 invariant c / §4.2). It reports
// whether this call was the one that fixed the type (true) versus the type
// having already been set by an earlier `return` (false); the analyzer
// uses the latter case to check later returns agree.
func (st *SymbolTable) SetFuncReturnType(sym *Symbol, typ ast.TypeTag) (fixedNow bool) {
	if sym.ReturnSet {
		return false
	}
	sym.ReturnType = typ
	sym.ReturnSet = true
	return true
}
