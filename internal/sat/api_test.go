package sat

import "testing"

func TestBuild_declaresExactlyNumVars(t *testing.T) {
	s := Build(5, nil)
	if got := s.NumVariables(); got != 5 {
		t.Errorf("NumVariables() = %d, want 5", got)
	}
}

func TestBuild_translatesSignedLiterals(t *testing.T) {
	s := Build(2, [][]int{{1, -2}})
	if got := s.NumClauses(); got != 1 {
		t.Fatalf("NumClauses() = %d, want 1", got)
	}
	want := []Literal{PositiveLiteral(0), NegativeLiteral(1)}
	got := s.Clause(0).Literals()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Clause(0).Literals() = %v, want %v", got, want)
	}
}

func TestSolveFormula_satisfiable(t *testing.T) {
	sat, model := SolveFormula(2, [][]int{{1, -2}, {2}})
	if !sat {
		t.Fatalf("SolveFormula(): sat = false, want true")
	}
	if len(model) != 2 {
		t.Fatalf("len(model) = %d, want 2", len(model))
	}
	if !model[1] || !model[2] {
		t.Errorf("model = %v, want both variables true", model)
	}
}

func TestSolveFormula_unsatisfiable(t *testing.T) {
	sat, model := SolveFormula(1, [][]int{{1}, {-1}})
	if sat {
		t.Fatalf("SolveFormula(): sat = true, want false")
	}
	if len(model) != 0 {
		t.Errorf("model = %v, want empty", model)
	}
}

func TestSolveFormula_emptyFormula(t *testing.T) {
	sat, model := SolveFormula(0, nil)
	if !sat {
		t.Fatalf("SolveFormula(): sat = false, want true")
	}
	if len(model) != 0 {
		t.Errorf("model = %v, want empty", model)
	}
}
