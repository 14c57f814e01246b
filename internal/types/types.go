// Package types implements MGen's SemanticType system (§3.2) and the
// two-pass Type Inference Engine, C2 (§4.2). The pass structure (a
// flow-insensitive propagation pass followed by a flow-sensitive
// refinement walk) is grounded on the teacher's internal/types/inference.go;
// the sum-of-kinds type representation replaces AILANG's Hindley-Milner
// machinery (row polymorphism, dictionaries, typeclass instances) with the
// closed structural lattice this spec names, since MGen needs none of that
// polymorphism.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the closed sum of semantic types (§3.2).
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KStr
	KVoid
	KList
	KDict
	KSet
	KTuple
	KUser
	KCallable
	KUnknown
	KAny
)

// Type is the concrete SemanticType implementation. It is a closed sum: the
// fields populated depend on Kind. Type implements ast.SemanticType
// structurally (it has a String() method) without importing package ast.
type Type struct {
	Kind    Kind
	Elem    *Type   // List/Set element type
	Key     *Type   // Dict key type
	Val     *Type   // Dict value type
	Elems   []*Type // Tuple element types
	Class   string  // User class name (nominal)
	Params  []*Type // Callable parameter types
	Ret     *Type   // Callable return type
}

var (
	Int   = &Type{Kind: KInt}
	Float = &Type{Kind: KFloat}
	Bool  = &Type{Kind: KBool}
	Str   = &Type{Kind: KStr}
	Void  = &Type{Kind: KVoid}
	Any   = &Type{Kind: KAny}
)

// Unknown returns a fresh Unknown sentinel (§3.2: "means inference failed
// and downstream code must either annotate or reject"). It is not a
// singleton so call sites can compare identity when tracking which
// specific binding is unresolved, but Kind equality is what matters for
// Equals.
func Unknown() *Type { return &Type{Kind: KUnknown} }

// List constructs a List(elem) type.
func List(elem *Type) *Type { return &Type{Kind: KList, Elem: elem} }

// Dict constructs a Dict(key,val) type.
func Dict(key, val *Type) *Type { return &Type{Kind: KDict, Key: key, Val: val} }

// Set constructs a Set(elem) type.
func Set(elem *Type) *Type { return &Type{Kind: KSet, Elem: elem} }

// TupleOf constructs a Tuple(elems...) type.
func TupleOf(elems ...*Type) *Type { return &Type{Kind: KTuple, Elems: elems} }

// User constructs a nominal user-class type.
func User(class string) *Type { return &Type{Kind: KUser, Class: class} }

// Callable constructs a function type.
func Callable(params []*Type, ret *Type) *Type { return &Type{Kind: KCallable, Params: params, Ret: ret} }

// IsUnknown reports whether t is the Unknown sentinel, at any nesting depth
// resolution stops at (§3.2: "any remaining Unknown inside a shape chosen
// for generation is an error").
func (t *Type) IsUnknown() bool { return t != nil && t.Kind == KUnknown }

// ContainsUnknown reports whether t or any nested element/key/value/tuple
// member is Unknown.
func (t *Type) ContainsUnknown() bool {
	if t == nil || t.Kind == KUnknown {
		return true
	}
	switch t.Kind {
	case KList, KSet:
		return t.Elem.ContainsUnknown()
	case KDict:
		return t.Key.ContainsUnknown() || t.Val.ContainsUnknown()
	case KTuple:
		for _, e := range t.Elems {
			if e.ContainsUnknown() {
				return true
			}
		}
	}
	return false
}

// Immutable reports whether a value of this type is known-value-immutable:
// tuple, string, bool, int, float (§3.3). Lists/dicts/sets/user classes are
// not immutable by default.
func (t *Type) Immutable() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KInt, KFloat, KBool, KStr, KTuple, KVoid:
		return true
	default:
		return false
	}
}

// Equals is a structural (for containers) / nominal (for user classes)
// equality check (§3.2).
func (t *Type) Equals(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KList, KSet:
		return t.Elem.Equals(o.Elem)
	case KDict:
		return t.Key.Equals(o.Key) && t.Val.Equals(o.Val)
	case KTuple:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equals(o.Elems[i]) {
				return false
			}
		}
		return true
	case KUser:
		return t.Class == o.Class
	case KCallable:
		if len(t.Params) != len(o.Params) || !t.Ret.Equals(o.Ret) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equals(o.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KBool:
		return "bool"
	case KStr:
		return "str"
	case KVoid:
		return "void"
	case KList:
		return fmt.Sprintf("list[%s]", t.Elem)
	case KDict:
		return fmt.Sprintf("dict[%s, %s]", t.Key, t.Val)
	case KSet:
		return fmt.Sprintf("set[%s]", t.Elem)
	case KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return fmt.Sprintf("tuple[%s]", strings.Join(parts, ", "))
	case KUser:
		return t.Class
	case KCallable:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret)
	case KAny:
		return "Any"
	default:
		return "Unknown"
	}
}

// ContainerKind maps a Type to the C6 container kind it dispatches on, or
// ok=false if t is not a container (§3.4).
type ContainerKind int

const (
	CKVec ContainerKind = iota
	CKMap
	CKSet
	CKStr
)

func (t *Type) ContainerKind() (ContainerKind, bool) {
	switch t.Kind {
	case KList:
		return CKVec, true
	case KDict:
		return CKMap, true
	case KSet:
		return CKSet, true
	case KStr:
		return CKStr, true
	default:
		return 0, false
	}
}
