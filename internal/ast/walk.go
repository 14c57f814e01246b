package ast

// Visitor is implemented by callers that want to walk a function body.
// WalkStmt/WalkExpr call VisitStmt/VisitExpr for every node before
// recursing into children; returning false from VisitStmt or VisitExpr
// skips that node's children.
type Visitor interface {
	VisitStmt(Stmt) bool
	VisitExpr(Expr) bool
}

// WalkStmts walks a statement list in order.
func WalkStmts(v Visitor, stmts []Stmt) {
	for _, s := range stmts {
		WalkStmt(v, s)
	}
}

// WalkStmt dispatches a single statement to the visitor and recurses into
// its children (sub-blocks and expressions).
func WalkStmt(v Visitor, s Stmt) {
	if s == nil || !v.VisitStmt(s) {
		return
	}
	switch n := s.(type) {
	case *Assign:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Value)
	case *AnnAssign:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Value)
	case *AugAssign:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Value)
	case *If:
		WalkExpr(v, n.Cond)
		WalkStmts(v, n.Then)
		WalkStmts(v, n.Else)
	case *While:
		WalkExpr(v, n.Cond)
		WalkStmts(v, n.Body)
	case *For:
		WalkExpr(v, n.Target)
		WalkExpr(v, n.Iter)
		WalkStmts(v, n.Body)
	case *Return:
		if n.Value != nil {
			WalkExpr(v, n.Value)
		}
	case *ExprStmt:
		WalkExpr(v, n.X)
	case *Pass, *Break, *Continue:
		// no children
	}
}

// WalkExpr dispatches a single expression to the visitor and recurses into
// its subexpressions.
func WalkExpr(v Visitor, e Expr) {
	if e == nil || !v.VisitExpr(e) {
		return
	}
	switch n := e.(type) {
	case *Name, *Constant:
		// leaves
	case *BinOp:
		WalkExpr(v, n.Left)
		WalkExpr(v, n.Right)
	case *UnaryOp:
		WalkExpr(v, n.X)
	case *BoolOp:
		for _, x := range n.Values {
			WalkExpr(v, x)
		}
	case *Compare:
		WalkExpr(v, n.Left)
		for _, c := range n.Comps {
			WalkExpr(v, c)
		}
	case *Call:
		WalkExpr(v, n.Func)
		for _, a := range n.Args {
			WalkExpr(v, a)
		}
	case *Attribute:
		WalkExpr(v, n.Value)
	case *Subscript:
		WalkExpr(v, n.Value)
		WalkExpr(v, n.Index)
	case *List:
		for _, el := range n.Elts {
			WalkExpr(v, el)
		}
	case *Dict:
		for _, ent := range n.Entries {
			WalkExpr(v, ent.Key)
			WalkExpr(v, ent.Value)
		}
	case *Set:
		for _, el := range n.Elts {
			WalkExpr(v, el)
		}
	case *Tuple:
		for _, el := range n.Elts {
			WalkExpr(v, el)
		}
	case *ListComp:
		WalkExpr(v, n.Elt)
		WalkExpr(v, n.Iter)
		for _, c := range n.Ifs {
			WalkExpr(v, c)
		}
	case *DictComp:
		WalkExpr(v, n.Key)
		WalkExpr(v, n.Value)
		WalkExpr(v, n.Iter)
		for _, c := range n.Ifs {
			WalkExpr(v, c)
		}
	case *SetComp:
		WalkExpr(v, n.Elt)
		WalkExpr(v, n.Iter)
		for _, c := range n.Ifs {
			WalkExpr(v, c)
		}
	}
}
