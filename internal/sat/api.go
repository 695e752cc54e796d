package sat

// Build constructs a Solver from a DIMACS-style formula: numVars
// variables and a sequence of clauses, each a slice of nonzero signed
// integers where a negative integer negates the variable named by its
// absolute value.
//
// Callers must ensure numVars is at least the largest |literal| that
// appears in clauses; Build does not re-validate this. An empty inner
// slice denotes the empty clause, which Build reports by leaving the
// returned solver permanently unsatisfiable rather than by returning
// an error (malformed input, such as non-integer tokens or genuinely
// out-of-range variables, is the DIMACS reader's responsibility, not
// the core's; see internal/dimacs).
func Build(numVars int, clauses [][]int) *Solver {
	s := NewDefaultSolver()
	for i := 0; i < numVars; i++ {
		s.AddVariable()
	}

	lits := make([]Literal, 0, 8)
	for _, clause := range clauses {
		lits = lits[:0]
		for _, lit := range clause {
			lits = append(lits, literalFromDIMACS(lit))
		}
		s.AddClause(lits)
	}
	return s
}

// literalFromDIMACS converts a DIMACS-style 1-based signed integer
// literal into this package's 0-based Literal encoding.
func literalFromDIMACS(lit int) Literal {
	if lit < 0 {
		return NegativeLiteral(-lit - 1)
	}
	return PositiveLiteral(lit - 1)
}

// SolveFormula builds a solver for the given formula and solves it in
// one call. When satisfiable, the returned model has a DIMACS-style
// 1-based entry for every variable in [1, numVars]; a variable left
// unconstrained by every clause still receives a (solver-chosen,
// arbitrary) Boolean. When unsatisfiable, the returned model is empty.
func SolveFormula(numVars int, clauses [][]int) (sat bool, model map[int]bool) {
	s := Build(numVars, clauses)
	if s.Solve() != True {
		return false, map[int]bool{}
	}

	assignment := s.Models[len(s.Models)-1]
	model = make(map[int]bool, numVars)
	for v, value := range assignment {
		model[v+1] = value
	}
	return true, model
}
