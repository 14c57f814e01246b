package types

// builtinSpec describes a free-function builtin's return-type rule
// (§4.2(a): "Call(f) -> ... built-in len/min/max/sum/abs with their known
// return shapes"). The table-of-specs idiom is grounded on the teacher's
// builtin registry (internal/builtins/spec.go), simplified: MGen's builtins
// are pure return-type rules, not effectful implementations.
type builtinSpec struct {
	// infer computes the return type given the already-inferred argument
	// types; returns Unknown() if args don't match any known shape.
	infer func(args []*Type) *Type
}

var builtinTable = map[string]builtinSpec{
	"len": {infer: func(args []*Type) *Type {
		return Int
	}},
	"abs": {infer: func(args []*Type) *Type {
		if len(args) == 1 && args[0].Kind == KFloat {
			return Float
		}
		return Int
	}},
	"min": {infer: func(args []*Type) *Type { return reduceNumericArgs(args) }},
	"max": {infer: func(args []*Type) *Type { return reduceNumericArgs(args) }},
	"sum": {infer: func(args []*Type) *Type {
		if len(args) != 1 {
			return Unknown()
		}
		elem := args[0]
		if elem.Kind == KList || elem.Kind == KSet {
			return elem.Elem
		}
		return Unknown()
	}},
	"set": {infer: func(args []*Type) *Type {
		if len(args) == 0 {
			return Set(Unknown())
		}
		if args[0].Kind == KList || args[0].Kind == KSet {
			return Set(args[0].Elem)
		}
		return Unknown()
	}},
	"range": {infer: func(args []*Type) *Type { return List(Int) }},
}

// reduceNumericArgs implements min/max's join: if every argument (or, for a
// single-list-argument call, the list's element type) is Int the result is
// Int, if any is Float the result promotes to Float (§4.2(a) join rule).
func reduceNumericArgs(args []*Type) *Type {
	if len(args) == 1 && (args[0].Kind == KList || args[0].Kind == KSet) {
		return args[0].Elem
	}
	result := Int
	for _, a := range args {
		if a.Kind == KFloat {
			result = Float
		} else if a.Kind != KInt {
			return Unknown()
		}
	}
	return result
}

// LookupBuiltin returns the return-type rule for a free-function builtin
// name, if one is registered.
func LookupBuiltin(name string) (func(args []*Type) *Type, bool) {
	spec, ok := builtinTable[name]
	if !ok {
		return nil, false
	}
	return spec.infer, true
}

// ContainerMethods enumerates the method names C6 recognizes per container
// kind (§3.4), used by C2 to resolve a method call's result type and by C4
// to validate a call is to a known method before flagging it unsupported.
var ContainerMethods = map[ContainerKind]map[string]bool{
	CKVec: {
		"push": true, "append": true, "pop": true, "at": true, "size": true,
		"clear": true, "extend": true, "insert": true, "remove": true,
	},
	CKMap: {
		"insert": true, "set": true, "get": true, "contains": true,
		"erase": true, "size": true, "keys": true, "values": true,
		"items": true, "clear": true,
	},
	CKSet: {
		"insert": true, "add": true, "contains": true, "erase": true,
		"remove": true, "discard": true, "clear": true, "size": true,
		"union": true, "intersection": true, "difference": true,
	},
	CKStr: {
		"upper": true, "lower": true, "strip": true, "split": true,
		"join": true, "replace": true, "find": true, "startswith": true,
		"endswith": true, "len": true,
	},
}

// MutatingMethods is the subset of ContainerMethods that mutate their
// receiver, consulted by C3 (§4.3).
var MutatingMethods = map[ContainerKind]map[string]bool{
	CKVec: {"push": true, "append": true, "pop": true, "clear": true, "extend": true, "insert": true, "remove": true},
	CKMap: {"insert": true, "set": true, "erase": true, "clear": true},
	CKSet: {"insert": true, "add": true, "erase": true, "remove": true, "discard": true, "clear": true},
	CKStr: {}, // strings are value-immutable; no mutating methods
}
