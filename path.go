package gocrest

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
)

const (
	preallocBranches    = 4000000
	preallocConstraints = 50000
)

// Path is the ordered log of branch decisions of one run together with the
// constraints attached to the symbolic ones. positions[i] is the index in
// branches of the decision that produced constraints[i].
type Path struct {
	branches    []BranchID
	constraints []*Pred
	positions   []int
}

// NewPath returns an empty path. preallocate reserves room for very long
// runs; it only affects performance.
func NewPath(preallocate bool) *Path {
	p := &Path{}
	if preallocate {
		p.branches = make([]BranchID, 0, preallocBranches)
		p.constraints = make([]*Pred, 0, preallocConstraints)
		p.positions = make([]int, 0, preallocConstraints)
	}
	return p
}

func (p *Path) Push(bid BranchID) {
	p.branches = append(p.branches, bid)
}

// PushConstraint records a branch decision and, when constraint is not nil,
// takes ownership of it.
func (p *Path) PushConstraint(bid BranchID, constraint *Pred) {
	if constraint != nil {
		p.constraints = append(p.constraints, constraint)
		p.positions = append(p.positions, len(p.branches))
	}
	p.branches = append(p.branches, bid)
}

func (p *Path) Branches() []BranchID {
	return p.branches
}

func (p *Path) Constraints() []*Pred {
	return p.constraints
}

func (p *Path) ConstraintPositions() []int {
	return p.positions
}

func (p *Path) NumConstraints() int {
	return len(p.constraints)
}

func (p *Path) Swap(o *Path) {
	p.branches, o.branches = o.branches, p.branches
	p.constraints, o.constraints = o.constraints, p.constraints
	p.positions, o.positions = o.positions, p.positions
}

func (p *Path) Equal(o *Path) bool {
	if len(p.branches) != len(o.branches) || len(p.constraints) != len(o.constraints) {
		return false
	}
	for i := range p.branches {
		if p.branches[i] != o.branches[i] {
			return false
		}
	}
	for i := range p.constraints {
		if p.positions[i] != o.positions[i] || !p.constraints[i].Equal(o.constraints[i]) {
			return false
		}
	}
	return true
}

// Fingerprint hashes the branch sequence. Two runs with the same fingerprint
// almost certainly followed the same path.
func (p *Path) Fingerprint() uint64 {
	h := xxhash.New()
	raw := make([]byte, 4)
	for _, bid := range p.branches {
		binary.BigEndian.PutUint32(raw, uint32(bid))
		h.Write(raw)
	}
	return h.Sum64()
}

func (p *Path) serialize(w *bufio.Writer) {
	writeCount(w, len(p.branches))
	writeInts(w, p.branches)
	writeCount(w, len(p.constraints))
	writeInts(w, p.positions)
	for _, c := range p.constraints {
		c.serialize(w)
	}
}

func (p *Path) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	p.serialize(bw)
	return bw.Flush()
}

// Parse replaces the contents of p. On error p is left unchanged. Pass a
// *bufio.Reader to read consecutive records from one stream.
func (p *Path) Parse(r io.Reader) error {
	return p.parse(newLineReader(r))
}

func (p *Path) parse(lr *lineReader) error {
	n, err := lr.nextCount("branch")
	if err != nil {
		return err
	}
	raw, err := lr.nextInts(n, 32, "branch ids")
	if err != nil {
		return err
	}
	branches := make([]BranchID, n)
	for i, bid := range raw {
		branches[i] = BranchID(bid)
	}

	m, err := lr.nextCount("constraint")
	if err != nil {
		return err
	}
	raw, err = lr.nextInts(m, 64, "constraint positions")
	if err != nil {
		return err
	}
	positions := make([]int, m)
	for i, pos := range raw {
		if pos < 0 || pos >= int64(n) {
			return lr.errorf("constraint position %d outside of %d branches", pos, n)
		}
		if i > 0 && pos <= raw[i-1] {
			return lr.errorf("constraint positions not increasing at %d", pos)
		}
		positions[i] = int(pos)
	}

	constraints := make([]*Pred, m)
	for i := range constraints {
		constraints[i] = &Pred{}
		if err := constraints[i].parse(lr); err != nil {
			return err
		}
	}

	p.branches, p.positions, p.constraints = branches, positions, constraints
	return nil
}
