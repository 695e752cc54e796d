package sat

import "testing"

func TestAddClause_tautologyIsDropped(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 2; i++ {
		s.AddVariable()
	}

	if err := s.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(0), PositiveLiteral(1)}); err != nil {
		t.Fatalf("AddClause(): unexpected error %s", err)
	}
	if s.NumClauses() != 0 {
		t.Errorf("NumClauses() = %d, want 0 (tautology should add nothing)", s.NumClauses())
	}
}

func TestAddClause_duplicateLiteralsAreMerged(t *testing.T) {
	s := NewDefaultSolver()
	s.AddVariable()
	s.AddVariable()

	lits := []Literal{PositiveLiteral(0), PositiveLiteral(0), PositiveLiteral(1)}
	if err := s.AddClause(lits); err != nil {
		t.Fatalf("AddClause(): unexpected error %s", err)
	}
	if got := s.NumClauses(); got != 1 {
		t.Fatalf("NumClauses() = %d, want 1", got)
	}
	if got := len(s.Clause(0).Literals()); got != 2 {
		t.Errorf("len(Literals()) = %d, want 2 (duplicate should be merged away)", got)
	}
}

func TestAddClause_emptyClauseIsUnsat(t *testing.T) {
	s := NewDefaultSolver()
	s.AddVariable()

	if err := s.AddClause(nil); err != nil {
		t.Fatalf("AddClause(): unexpected error %s", err)
	}
	if got := s.Solve(); got != False {
		t.Errorf("Solve() = %s, want false", got)
	}
}

func TestAddClause_unitClauseForcesAssignment(t *testing.T) {
	s := NewDefaultSolver()
	s.AddVariable()

	if err := s.AddClause([]Literal{PositiveLiteral(0)}); err != nil {
		t.Fatalf("AddClause(): unexpected error %s", err)
	}
	if s.NumClauses() != 0 {
		t.Errorf("NumClauses() = %d, want 0 (unit clause should be enqueued, not stored)", s.NumClauses())
	}
	if got := s.VarValue(0); got != True {
		t.Errorf("VarValue(0) = %s, want true", got)
	}
}

func TestAddClause_contradictoryUnitsAreUnsat(t *testing.T) {
	s := NewDefaultSolver()
	s.AddVariable()

	if err := s.AddClause([]Literal{PositiveLiteral(0)}); err != nil {
		t.Fatalf("AddClause(): unexpected error %s", err)
	}
	if err := s.AddClause([]Literal{NegativeLiteral(0)}); err != nil {
		t.Fatalf("AddClause(): unexpected error %s", err)
	}
	if got := s.Solve(); got != False {
		t.Errorf("Solve() = %s, want false", got)
	}
}

func TestClauseIndex_stableAcrossAdditions(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}

	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1)})
	s.AddClause([]Literal{PositiveLiteral(1), PositiveLiteral(2)})

	if got := s.Clause(0).Index(); got != 0 {
		t.Errorf("Clause(0).Index() = %d, want 0", got)
	}
	if got := s.Clause(1).Index(); got != 1 {
		t.Errorf("Clause(1).Index() = %d, want 1", got)
	}
}
