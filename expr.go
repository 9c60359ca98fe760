package gocrest

import (
	"bufio"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

const (
	EXPR_CONST = 1
	EXPR_VAR   = 2
	EXPR_ADD   = 3
	EXPR_SUB   = 4
	EXPR_MUL   = 5
	EXPR_DIV   = 6
	EXPR_MOD   = 7
)

var exprSymbols = map[uint8]string{
	EXPR_ADD: "+",
	EXPR_SUB: "-",
	EXPR_MUL: "*",
	EXPR_DIV: "div",
	EXPR_MOD: "mod",
}

// exprNode is immutable once built, so subtrees are shared freely between
// expressions.
type exprNode struct {
	kind  uint8
	value Value
	v     Var
	lhs   *exprNode
	rhs   *exprNode
}

func mkConstNode(c Value) *exprNode {
	return &exprNode{kind: EXPR_CONST, value: c}
}

func mkVarNode(v Var) *exprNode {
	return &exprNode{kind: EXPR_VAR, v: v}
}

func mkBinNode(kind uint8, lhs, rhs *exprNode) *exprNode {
	return &exprNode{kind: kind, lhs: lhs, rhs: rhs}
}

func (n *exprNode) isLeaf() bool {
	return n.kind == EXPR_CONST || n.kind == EXPR_VAR
}

func (n *exprNode) writeTo(b *strings.Builder) {
	switch n.kind {
	case EXPR_CONST:
		b.WriteString(strconv.FormatInt(n.value, 10))
	case EXPR_VAR:
		b.WriteByte('x')
		b.WriteString(strconv.Itoa(int(n.v)))
	default:
		b.WriteByte('(')
		b.WriteString(exprSymbols[n.kind])
		b.WriteByte(' ')
		n.lhs.writeTo(b)
		b.WriteByte(' ')
		n.rhs.writeTo(b)
		b.WriteByte(')')
	}
}

func (n *exprNode) appendVars(vars map[Var]struct{}) {
	switch n.kind {
	case EXPR_CONST:
	case EXPR_VAR:
		vars[n.v] = struct{}{}
	default:
		n.lhs.appendVars(vars)
		n.rhs.appendVars(vars)
	}
}

func (n *exprNode) hasVars() bool {
	if n.isLeaf() {
		return n.kind == EXPR_VAR
	}
	return n.lhs.hasVars() || n.rhs.hasVars()
}

// Expr is an integer expression over symbolic inputs. The zero value is the
// constant 0.
type Expr struct {
	root *exprNode
}

func NewConstExpr(c Value) *Expr {
	return &Expr{root: mkConstNode(c)}
}

// NewVarExpr builds the single term coeff*x<v>. v must not be negative.
func NewVarExpr(coeff Value, v Var) *Expr {
	if v < 0 {
		panic("negative variable id")
	}
	switch coeff {
	case 0:
		return NewConstExpr(0)
	case 1:
		return &Expr{root: mkVarNode(v)}
	}
	return &Expr{root: mkBinNode(EXPR_MUL, mkConstNode(coeff), mkVarNode(v))}
}

func (e *Expr) node() *exprNode {
	if e.root == nil {
		e.root = mkConstNode(0)
	}
	return e.root
}

func (e *Expr) Copy() *Expr {
	return &Expr{root: e.node()}
}

func (e *Expr) IsConst() bool {
	return !e.node().hasVars()
}

func (e *Expr) exactConst() *big.Int {
	c, err := evalNode(e.node(), zeroAssignment)
	if err != nil {
		return new(big.Int)
	}
	return c
}

// Const returns the value of the expression when every variable is zero.
// ok is false when that value does not fit in a Value.
func (e *Expr) Const() (c Value, ok bool) {
	exact := e.exactConst()
	if !exact.IsInt64() {
		return 0, false
	}
	return exact.Int64(), true
}

func (e *Expr) AppendVars(vars map[Var]struct{}) {
	e.node().appendVars(vars)
}

// Vars returns the variables occurring in the expression in increasing order.
func (e *Expr) Vars() []Var {
	set := make(map[Var]struct{})
	e.AppendVars(set)
	res := make([]Var, 0, len(set))
	for v := range set {
		res = append(res, v)
	}
	slices.Sort(res)
	return res
}

func (e *Expr) DependsOn(vars map[Var]Type) bool {
	set := make(map[Var]struct{})
	e.AppendVars(set)
	for v := range set {
		if _, ok := vars[v]; ok {
			return true
		}
	}
	return false
}

// Equal compares the constants and the sets of occurring variables. It does not
// decide logical equivalence.
func (e *Expr) Equal(o *Expr) bool {
	if e.exactConst().Cmp(o.exactConst()) != 0 {
		return false
	}
	return slices.Equal(e.Vars(), o.Vars())
}

func (e *Expr) Hash() uint64 {
	h := xxhash.New()
	h.WriteString(e.String())
	return h.Sum64()
}

func (e *Expr) AppendToString(b *strings.Builder) {
	e.node().writeTo(b)
}

func (e *Expr) String() string {
	b := strings.Builder{}
	e.AppendToString(&b)
	return b.String()
}

func (e *Expr) serialize(w *bufio.Writer) {
	b := strings.Builder{}
	e.AppendToString(&b)
	b.WriteByte('\n')
	w.WriteString(b.String())
}

func (e *Expr) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	e.serialize(bw)
	return bw.Flush()
}

// Parse reads one line holding the canonical text of an expression. To read
// consecutive records from one stream pass a *bufio.Reader; any other reader
// is buffered and may be consumed past the record.
func (e *Expr) Parse(r io.Reader) error {
	return e.parse(newLineReader(r))
}

func (e *Expr) parse(lr *lineReader) error {
	line, err := lr.next()
	if err != nil {
		return err
	}
	parsed, err := ParseExpr(line)
	if err != nil {
		return lr.wrap(err)
	}
	e.root = parsed.root
	return nil
}

/*
 *  linear view
 */

type LinearTerm struct {
	Var   Var
	Coeff Value
}

type linearForm struct {
	konst  *big.Int
	coeffs map[Var]*big.Int
}

func linearize(n *exprNode) (linearForm, bool) {
	switch n.kind {
	case EXPR_CONST:
		return linearForm{big.NewInt(n.value), map[Var]*big.Int{}}, true
	case EXPR_VAR:
		return linearForm{new(big.Int), map[Var]*big.Int{n.v: big.NewInt(1)}}, true
	}

	lhs, ok := linearize(n.lhs)
	if !ok {
		return linearForm{}, false
	}
	rhs, ok := linearize(n.rhs)
	if !ok {
		return linearForm{}, false
	}

	switch n.kind {
	case EXPR_ADD, EXPR_SUB:
		sign := big.NewInt(1)
		if n.kind == EXPR_SUB {
			sign.SetInt64(-1)
		}
		lhs.konst.Add(lhs.konst, new(big.Int).Mul(sign, rhs.konst))
		for v, c := range rhs.coeffs {
			if _, ok := lhs.coeffs[v]; !ok {
				lhs.coeffs[v] = new(big.Int)
			}
			lhs.coeffs[v].Add(lhs.coeffs[v], new(big.Int).Mul(sign, c))
		}
		return lhs, true
	case EXPR_MUL:
		if len(lhs.coeffs) > 0 && len(rhs.coeffs) > 0 {
			return linearForm{}, false
		}
		scalar, other := lhs.konst, rhs
		if len(lhs.coeffs) > 0 {
			scalar, other = rhs.konst, lhs
		}
		other.konst.Mul(other.konst, scalar)
		for _, c := range other.coeffs {
			c.Mul(c, scalar)
		}
		return other, true
	case EXPR_DIV, EXPR_MOD:
		if len(lhs.coeffs) > 0 || len(rhs.coeffs) > 0 || rhs.konst.Sign() == 0 {
			return linearForm{}, false
		}
		if n.kind == EXPR_DIV {
			lhs.konst.Div(lhs.konst, rhs.konst)
		} else {
			lhs.konst.Mod(lhs.konst, rhs.konst)
		}
		return lhs, true
	}
	panic("invalid expression kind")
}

// Linear returns the constant and the per-variable coefficients of the
// expression. ok is false when the expression is not linear or a
// coefficient does not fit in a Value.
func (e *Expr) Linear() (konst Value, terms []LinearTerm, ok bool) {
	lf, ok := linearize(e.node())
	if !ok || !lf.konst.IsInt64() {
		return 0, nil, false
	}
	terms = make([]LinearTerm, 0, len(lf.coeffs))
	for v, c := range lf.coeffs {
		if !c.IsInt64() {
			return 0, nil, false
		}
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, LinearTerm{Var: v, Coeff: c.Int64()})
	}
	slices.SortFunc(terms, func(a, b LinearTerm) int { return int(a.Var) - int(b.Var) })
	return lf.konst.Int64(), terms, true
}

func (e *Expr) IsLinear() bool {
	_, _, ok := e.Linear()
	return ok
}

/*
 *  text parser
 */

type exprLexer struct {
	s   string
	pos int
}

func (l *exprLexer) token() string {
	for l.pos < len(l.s) && isSpace(l.s[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.s) {
		return ""
	}
	if l.s[l.pos] == '(' || l.s[l.pos] == ')' {
		l.pos++
		return l.s[l.pos-1 : l.pos]
	}
	start := l.pos
	for l.pos < len(l.s) && !isSpace(l.s[l.pos]) && l.s[l.pos] != '(' && l.s[l.pos] != ')' {
		l.pos++
	}
	return l.s[start:l.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func (l *exprLexer) parseNode() (*exprNode, error) {
	tok := l.token()
	switch {
	case tok == "":
		return nil, errors.New("unexpected end of expression")
	case tok == ")":
		return nil, errors.Errorf("unexpected ')' at offset %d", l.pos-1)
	case tok == "(":
		sym := l.token()
		var kind uint8
		for k, s := range exprSymbols {
			if s == sym {
				kind = k
			}
		}
		if kind == 0 {
			return nil, errors.Errorf("unknown operator %q", sym)
		}
		lhs, err := l.parseNode()
		if err != nil {
			return nil, err
		}
		rhs, err := l.parseNode()
		if err != nil {
			return nil, err
		}
		if closing := l.token(); closing != ")" {
			return nil, errors.Errorf("expected ')' after %s operands, got %q", sym, closing)
		}
		return mkBinNode(kind, lhs, rhs), nil
	case tok[0] == 'x':
		id, err := strconv.ParseUint(tok[1:], 10, 31)
		if err != nil {
			return nil, errors.Errorf("invalid variable %q", tok)
		}
		return mkVarNode(Var(id)), nil
	}
	c, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return nil, errors.Errorf("invalid constant %q", tok)
	}
	return mkConstNode(c), nil
}

// ParseExpr rebuilds an expression from its canonical prefix text.
func ParseExpr(s string) (*Expr, error) {
	l := &exprLexer{s: s}
	root, err := l.parseNode()
	if err != nil {
		return nil, errors.Wrapf(err, "parse expression %q", s)
	}
	if rest := l.token(); rest != "" {
		return nil, errors.Errorf("parse expression %q: trailing %q", s, rest)
	}
	return &Expr{root: root}, nil
}
