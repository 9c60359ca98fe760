package gocrest

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/pkg/errors"
)

// Var identifies a symbolic input. Ids are dense and start at 0.
type Var int

// BranchID identifies a static branch site together with the direction taken.
type BranchID int32

// Value is the concrete domain of every variable and constant.
type Value = int64

// Solution maps variables to concrete values.
type Solution map[Var]Value

type Type int

const (
	TY_U_CHAR      Type = 0
	TY_CHAR        Type = 1
	TY_U_SHORT     Type = 2
	TY_SHORT       Type = 3
	TY_U_INT       Type = 4
	TY_INT         Type = 5
	TY_U_LONG      Type = 6
	TY_LONG        Type = 7
	TY_U_LONG_LONG Type = 8
	TY_LONG_LONG   Type = 9
)

type typeInfo struct {
	name string
	min  *big.Int
	max  *big.Int
}

var typeTable = []typeInfo{
	TY_U_CHAR:      {"unsigned char", big.NewInt(0), big.NewInt(math.MaxUint8)},
	TY_CHAR:        {"char", big.NewInt(math.MinInt8), big.NewInt(math.MaxInt8)},
	TY_U_SHORT:     {"unsigned short", big.NewInt(0), big.NewInt(math.MaxUint16)},
	TY_SHORT:       {"short", big.NewInt(math.MinInt16), big.NewInt(math.MaxInt16)},
	TY_U_INT:       {"unsigned int", big.NewInt(0), big.NewInt(math.MaxUint32)},
	TY_INT:         {"int", big.NewInt(math.MinInt32), big.NewInt(math.MaxInt32)},
	TY_U_LONG:      {"unsigned long", big.NewInt(0), new(big.Int).SetUint64(math.MaxUint64)},
	TY_LONG:        {"long", big.NewInt(math.MinInt64), big.NewInt(math.MaxInt64)},
	TY_U_LONG_LONG: {"unsigned long long", big.NewInt(0), new(big.Int).SetUint64(math.MaxUint64)},
	TY_LONG_LONG:   {"long long", big.NewInt(math.MinInt64), big.NewInt(math.MaxInt64)},
}

func (t Type) Valid() bool {
	return t >= TY_U_CHAR && t <= TY_LONG_LONG
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeTable[t].name
}

// Min returns the smallest value of the type. The result must not be modified.
func (t Type) Min() *big.Int {
	return typeTable[t].min
}

// Max returns the largest value of the type. The result must not be modified.
func (t Type) Max() *big.Int {
	return typeTable[t].max
}

func (t Type) Unsigned() bool {
	return t.Valid() && t%2 == 0
}

func (t Type) Contains(v *big.Int) bool {
	if !t.Valid() {
		return false
	}
	return v.Cmp(t.Min()) >= 0 && v.Cmp(t.Max()) <= 0
}

// ContainsValue reports whether a wire value is a member of the type. Values of
// the 64 bit unsigned types are read as their bit pattern.
func (t Type) ContainsValue(v Value) bool {
	return t.Contains(FromValue(t, v))
}

// FromValue lifts a wire value to the mathematical integer it denotes for t.
func FromValue(t Type, v Value) *big.Int {
	if t == TY_U_LONG || t == TY_U_LONG_LONG {
		return new(big.Int).SetUint64(uint64(v))
	}
	return big.NewInt(v)
}

// ToValue lowers an integer in the range of t to the wire domain.
func ToValue(t Type, v *big.Int) (Value, error) {
	if !t.Contains(v) {
		return 0, errors.Errorf("value %s out of range for %s", v.String(), t)
	}
	if v.IsInt64() {
		return v.Int64(), nil
	}
	return Value(v.Uint64()), nil
}

func parseType(s string) (Type, error) {
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid type code %q", s)
	}
	t := Type(code)
	if !t.Valid() {
		return 0, errors.Errorf("unknown type code %d", code)
	}
	return t, nil
}

type CompareOp int

const (
	OP_EQ  CompareOp = 0
	OP_NEQ CompareOp = 1
	OP_GT  CompareOp = 2
	OP_LE  CompareOp = 3
	OP_LT  CompareOp = 4
	OP_GE  CompareOp = 5
)

var opSymbols = []string{"=", "/=", ">", "<=", "<", ">="}

func (op CompareOp) Valid() bool {
	return op >= OP_EQ && op <= OP_GE
}

// Negate returns the logical complement: EQ/NEQ, GT/LE and LT/GE are paired.
func (op CompareOp) Negate() CompareOp {
	return op ^ 1
}

func (op CompareOp) String() string {
	if !op.Valid() {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opSymbols[op]
}

func (op CompareOp) holds(cmp int) bool {
	switch op {
	case OP_EQ:
		return cmp == 0
	case OP_NEQ:
		return cmp != 0
	case OP_GT:
		return cmp > 0
	case OP_LE:
		return cmp <= 0
	case OP_LT:
		return cmp < 0
	case OP_GE:
		return cmp >= 0
	}
	panic("invalid comparison operator")
}

func parseCompareOp(s string) (CompareOp, error) {
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid operator code %q", s)
	}
	op := CompareOp(code)
	if !op.Valid() {
		return 0, errors.Errorf("unknown operator code %d", code)
	}
	return op, nil
}
