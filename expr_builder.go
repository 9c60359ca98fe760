package gocrest

// In-place arithmetic on expressions. Every operation wraps the current tree
// and the operand into a new binary node, except multiplication by zero which
// collapses the expression to the constant 0.

func isZeroNode(n *exprNode) bool {
	if n.hasVars() {
		return false
	}
	c, err := evalNode(n, zeroAssignment)
	return err == nil && c.Sign() == 0
}

func (e *Expr) combine(kind uint8, rhs *exprNode) *Expr {
	e.root = mkBinNode(kind, e.node(), rhs)
	return e
}

func (e *Expr) Add(o *Expr) *Expr {
	return e.combine(EXPR_ADD, o.node())
}

func (e *Expr) Sub(o *Expr) *Expr {
	return e.combine(EXPR_SUB, o.node())
}

func (e *Expr) Mul(o *Expr) *Expr {
	if isZeroNode(e.node()) || isZeroNode(o.node()) {
		e.root = mkConstNode(0)
		return e
	}
	return e.combine(EXPR_MUL, o.node())
}

// Div panics when o is the constant zero.
func (e *Expr) Div(o *Expr) *Expr {
	if isZeroNode(o.node()) {
		panic("division by constant zero")
	}
	return e.combine(EXPR_DIV, o.node())
}

// Mod panics when o is the constant zero.
func (e *Expr) Mod(o *Expr) *Expr {
	if isZeroNode(o.node()) {
		panic("modulo by constant zero")
	}
	return e.combine(EXPR_MOD, o.node())
}

func (e *Expr) AddConst(c Value) *Expr {
	return e.combine(EXPR_ADD, mkConstNode(c))
}

func (e *Expr) SubConst(c Value) *Expr {
	return e.combine(EXPR_SUB, mkConstNode(c))
}

func (e *Expr) MulConst(c Value) *Expr {
	if c == 0 {
		e.root = mkConstNode(0)
		return e
	}
	return e.Mul(NewConstExpr(c))
}

func (e *Expr) DivConst(c Value) *Expr {
	if c == 0 {
		panic("division by constant zero")
	}
	return e.combine(EXPR_DIV, mkConstNode(c))
}

func (e *Expr) ModConst(c Value) *Expr {
	if c == 0 {
		panic("modulo by constant zero")
	}
	return e.combine(EXPR_MOD, mkConstNode(c))
}

// Negate rewrites e as (- 0 e).
func (e *Expr) Negate() *Expr {
	e.root = mkBinNode(EXPR_SUB, mkConstNode(0), e.node())
	return e
}
