// Package strategy implements C6, the Container-Operation Strategy Table
// (§4.6): a two-level dispatch, first on ContainerKind then on method
// name, over pure translation functions supplied by each target converter.
// The table-of-functions idiom is grounded on the teacher's
// internal/pipeline/op_table.go, which dispatches AILANG binary operators
// the same way -- this package generalizes that shape from binary
// operators to container methods.
package strategy

import (
	"fmt"

	"github.com/shakfu/mgen-sub001/internal/convert/cctx"
	"github.com/shakfu/mgen-sub001/internal/types"
)

// TranslateFunc emits a TARGET expression for one container method call:
// obj is the receiver's already-emitted text, args the already-emitted
// argument texts, elemType the TARGET type name of the container's
// element (or value, for maps), and ctx the live conversion context.
type TranslateFunc func(obj string, args []string, elemType string, ctx *cctx.Context) (string, error)

// ErrUnsupportedMethod is returned by Translate when no strategy handles
// (kind, method) for this table's target (§4.6: "raises UnsupportedMethod
// with a diagnostic").
type ErrUnsupportedMethod struct {
	Kind   types.ContainerKind
	Method string
}

func (e *ErrUnsupportedMethod) Error() string {
	return fmt.Sprintf("no strategy handles method %q on container kind %d", e.Method, e.Kind)
}

// Table is one target's complete container-operation strategy table.
type Table struct {
	entries map[types.ContainerKind]map[string]TranslateFunc
}

// NewTable creates an empty table for a converter to populate.
func NewTable() *Table {
	return &Table{entries: make(map[types.ContainerKind]map[string]TranslateFunc)}
}

// Register adds a strategy for (kind, method). Re-registering the same
// pair overwrites the previous entry, which lets a converter start from a
// shared base table and override individual methods.
func (t *Table) Register(kind types.ContainerKind, method string, fn TranslateFunc) {
	if t.entries[kind] == nil {
		t.entries[kind] = make(map[string]TranslateFunc)
	}
	t.entries[kind][method] = fn
}

// CanHandle implements the strategy contract's can_handle predicate.
func (t *Table) CanHandle(kind types.ContainerKind, method string) bool {
	_, ok := t.entries[kind][method]
	return ok
}

// Translate implements the strategy contract's translate(obj, args, ctx).
func (t *Table) Translate(kind types.ContainerKind, method, obj string, args []string, elemType string, ctx *cctx.Context) (string, error) {
	fn, ok := t.entries[kind][method]
	if !ok {
		return "", &ErrUnsupportedMethod{Kind: kind, Method: method}
	}
	return fn(obj, args, elemType, ctx)
}
