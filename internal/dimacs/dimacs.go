// Package dimacs adapts the DIMACS CNF file format to the core solver's
// build-time API (internal/sat). Parsing itself is delegated to
// github.com/rhartert/dimacs; this package only supplies the
// domain-specific Builder callbacks and the plain-or-gzip file
// handling around it.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/cdclsolve/cdclsolve/internal/sat"
)

// SATSolver is the subset of *sat.Solver that loading a formula needs: a
// way to declare variables and a way to assert clauses over them.
type SATSolver interface {
	AddVariable() int
	AddClause([]sat.Literal) error
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS reads a DIMACS CNF file from filename (transparently
// gunzipping it when gzipped is set) and replays it into solver: one
// AddVariable call per declared variable, then one AddClause call per
// clause line, in file order.
func LoadDIMACS(filename string, gzipped bool, solver SATSolver) error {
	r, err := open(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	return dimacs.ReadBuilder(r, &builder{solver: solver})
}

// builder implements dimacs.Builder on top of a SATSolver, translating
// the format's 1-based signed-integer literals into this module's
// internal sat.Literal encoding as each clause arrives.
type builder struct {
	solver SATSolver
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("dimacs: instance of type %q is not supported", problem)
	}
	for i := 0; i < nVars; i++ {
		b.solver.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(-l - 1)
		} else {
			clause[i] = sat.PositiveLiteral(l - 1)
		}
	}
	return b.solver.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil
}
