package gocrest

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Pred is the constraint "expr op 0". A Pred owns its expression.
type Pred struct {
	op   CompareOp
	expr *Expr
}

// NewPred takes ownership of expr.
func NewPred(op CompareOp, expr *Expr) *Pred {
	if !op.Valid() {
		panic("invalid comparison operator")
	}
	return &Pred{op: op, expr: expr}
}

// Pred{} is the constraint 0 = 0.
func (p *Pred) expression() *Expr {
	if p.expr == nil {
		p.expr = NewConstExpr(0)
	}
	return p.expr
}

func (p *Pred) Op() CompareOp {
	return p.op
}

func (p *Pred) Expr() *Expr {
	return p.expression()
}

func (p *Pred) Copy() *Pred {
	return &Pred{op: p.op, expr: p.expression().Copy()}
}

func (p *Pred) Negate() {
	p.op = p.op.Negate()
}

func (p *Pred) AppendVars(vars map[Var]struct{}) {
	p.expression().AppendVars(vars)
}

func (p *Pred) DependsOn(vars map[Var]Type) bool {
	return p.expression().DependsOn(vars)
}

func (p *Pred) Equal(o *Pred) bool {
	return p.op == o.op && p.expression().Equal(o.expression())
}

func (p *Pred) Hash() uint64 {
	h := xxhash.New()
	h.WriteString(strconv.Itoa(int(p.op)))
	h.WriteString(p.expression().String())
	return h.Sum64()
}

// AppendToString renders the predicate in solver syntax. Disequality is
// written as a negated equality.
func (p *Pred) AppendToString(b *strings.Builder) {
	if p.op == OP_NEQ {
		b.WriteString("(not (= ")
		p.expression().AppendToString(b)
		b.WriteString(" 0))")
		return
	}
	b.WriteByte('(')
	b.WriteString(p.op.String())
	b.WriteByte(' ')
	p.expression().AppendToString(b)
	b.WriteString(" 0)")
}

func (p *Pred) String() string {
	b := strings.Builder{}
	p.AppendToString(&b)
	return b.String()
}

// Eval reports whether the predicate holds under soln, read through the
// declared types in vars.
func (p *Pred) Eval(soln Solution, vars map[Var]Type) (bool, error) {
	return p.eval(solutionAssignment(soln, vars))
}

func (p *Pred) eval(interpr assignment) (bool, error) {
	val, err := evalNode(p.expression().node(), interpr)
	if err != nil {
		return false, err
	}
	return p.op.holds(val.Sign()), nil
}

func (p *Pred) serialize(w *bufio.Writer) {
	writeCount(w, int(p.op))
	p.expression().serialize(w)
}

func (p *Pred) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	p.serialize(bw)
	return bw.Flush()
}

// Parse reads the op code line and the expression line. Pass a *bufio.Reader
// to read consecutive records from one stream.
func (p *Pred) Parse(r io.Reader) error {
	return p.parse(newLineReader(r))
}

func (p *Pred) parse(lr *lineReader) error {
	line, err := lr.next()
	if err != nil {
		return err
	}
	op, err := parseCompareOp(strings.TrimSpace(line))
	if err != nil {
		return lr.wrap(err)
	}
	expr := &Expr{}
	if err := expr.parse(lr); err != nil {
		return err
	}
	p.op, p.expr = op, expr
	return nil
}
