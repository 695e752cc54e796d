// Package sat implements the decision procedure at the center of this
// module: unit propagation over watched literals, first-UIP conflict
// analysis with non-chronological backjumping, and an activity-ordered
// decision heuristic, wired together by a CDCL search driver.
//
// The package has no notion of files, processes, or incremental solving
// across formulas; it consumes a fixed variable count and a set of
// clauses and produces a single sat/unsat verdict. Collaborators such
// as the DIMACS reader and CLI live outside this package (see
// internal/dimacs and the root main.go).
package sat

import "fmt"

// Literal is a signed encoding of a variable and its polarity. Variable
// v's positive literal is 2*v and its negative literal is 2*v+1, so the
// two literals of a variable are adjacent integers differing only in
// their low bit. This lets Opposite flip polarity with a single XOR and
// lets every per-variable array double as a per-literal array of twice
// the length, indexed directly by Literal.
type Literal int

// PositiveLiteral returns the literal asserting that variable v is true.
func PositiveLiteral(v int) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the literal asserting that variable v is false.
func NegativeLiteral(v int) Literal {
	return Literal(v*2 + 1)
}

// VarID returns the ID of the variable underlying l.
func (l Literal) VarID() int {
	return int(l) / 2
}

// IsPositive reports whether l asserts its variable's value directly,
// as opposed to its negation.
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the negation of l.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

func (l Literal) String() string {
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	}
	return fmt.Sprintf("!%d", l.VarID())
}
