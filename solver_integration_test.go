package main

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cdclsolve/cdclsolve/internal/dimacs"
	"github.com/cdclsolve/cdclsolve/internal/sat"
)

// This test suite checks the solver against golden-file instances (see
// testdataDir) and against a set of named scenarios with known verdicts.
//
// Each golden-file test case is provided as two files:
//
//   - An instance file containing a valid DIMACS CNF instance with the
//     ".cnf" file extension.
//   - A models file containing the (possibly empty) set of the instance's
//     models, one per line, using the same literals as the instance file.
//     The models file has the same name as the instance file plus the
//     ".models" suffix.
var testdataDir = "testdata"

type testCase struct {
	instanceName string
	instanceFile string
	modelsFile   string
}

// listTestCases returns the test cases found in the file tree rooted at dir.
func listTestCases(dir string) ([]testCase, error) {
	var testCases []testCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".cnf") {
			return nil
		}
		testCases = append(testCases, testCase{
			instanceName: d.Name(),
			instanceFile: path,
			modelsFile:   path + ".models",
		})
		return nil
	})
	return testCases, err
}

// toString renders a model as a binary string, e.g. [true,false,false] ->
// "100", so sets of models can be compared independently of order.
func toString(model []bool) string {
	b := make([]byte, len(model))
	for i, v := range model {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func toSet(models [][]bool) map[string]struct{} {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[toString(m)] = struct{}{}
	}
	return set
}

// solveAll drives s to exhaustion by blocking each model it finds with a
// new original clause (the negation of that model, added via AddClause)
// and re-solving, the
// supplemented multi-model enumeration this module adds beyond a single
// sat/unsat verdict.
func solveAll(s *sat.Solver) [][]bool {
	for s.Solve() == sat.True {
		last := s.Models[len(s.Models)-1]
		blocking := make([]sat.Literal, len(last))
		for i, v := range last {
			if v {
				blocking[i] = sat.NegativeLiteral(i)
			} else {
				blocking[i] = sat.PositiveLiteral(i)
			}
		}
		s.AddClause(blocking)
	}
	return s.Models
}

func TestSolveAll(t *testing.T) {
	testCases, err := listTestCases(testdataDir)
	if err != nil {
		t.Fatalf("error listing test cases: %s", err)
	}
	if len(testCases) == 0 {
		t.Fatalf("no test cases found under %q", testdataDir)
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.instanceName, func(t *testing.T) {
			t.Parallel()

			want, err := dimacs.ReadModels(tc.modelsFile)
			if err != nil {
				t.Fatalf("error reading models: %s", err)
			}

			s := sat.NewDefaultSolver()
			if err := dimacs.LoadDIMACS(tc.instanceFile, false, s); err != nil {
				t.Fatalf("error loading instance: %s", err)
			}

			got := solveAll(s)

			if len(got) != len(want) {
				t.Errorf("solveAll(%s): got %d models, want %d", tc.instanceName, len(got), len(want))
			}
			if diff := cmp.Diff(toSet(want), toSet(got)); diff != "" {
				t.Errorf("solveAll(%s): model set mismatch (-want +got):\n%s", tc.instanceName, diff)
			}
		})
	}
}

// satisfiesAll reports whether every clause has at least one literal true
// under model (1-based, DIMACS-style literals), the per-model check that
// underlies a SAT verdict's soundness property.
func satisfiesAll(clauses [][]int, model map[int]bool) bool {
	for _, clause := range clauses {
		ok := false
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			if (lit > 0) == model[v] {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name     string
		numVars  int
		clauses  [][]int
		wantSAT  bool
		required map[int]bool // literal assignments the model must contain, if SAT
	}{
		{
			name:    "two clause disjunction",
			numVars: 2,
			clauses: [][]int{{1, -2}, {2}},
			wantSAT: true,
		},
		{
			name:    "contradictory units",
			numVars: 1,
			clauses: [][]int{{1}, {-1}},
			wantSAT: false,
		},
		{
			name:     "chained implications",
			numVars:  3,
			clauses:  [][]int{{1}, {2, 3}, {-2, 3}},
			wantSAT:  true,
			required: map[int]bool{1: true, 3: true},
		},
		{
			name:    "pigeonhole PHP(5,4)",
			numVars: 20,
			clauses: php(5, 4),
			wantSAT: false,
		},
		{
			name:    "four clause chain",
			numVars: 4,
			clauses: [][]int{{1, 2}, {-1, 3}, {-2, 4}, {-3, -4}},
			wantSAT: true,
		},
		{
			name:    "empty formula",
			numVars: 0,
			clauses: nil,
			wantSAT: true,
		},
		{
			name:    "single empty clause",
			numVars: 2,
			clauses: [][]int{{}},
			wantSAT: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			gotSAT, model := sat.SolveFormula(tc.numVars, tc.clauses)
			if gotSAT != tc.wantSAT {
				t.Fatalf("SolveFormula(): sat = %v, want %v", gotSAT, tc.wantSAT)
			}
			if !tc.wantSAT {
				if len(model) != 0 {
					t.Errorf("SolveFormula(): want empty model for UNSAT, got %v", model)
				}
				return
			}
			if len(model) != tc.numVars {
				t.Errorf("SolveFormula(): model has %d entries, want %d", len(model), tc.numVars)
			}
			if !satisfiesAll(tc.clauses, model) {
				t.Errorf("SolveFormula(): model %v does not satisfy all clauses %v", model, tc.clauses)
			}
			for v, want := range tc.required {
				if model[v] != want {
					t.Errorf("SolveFormula(): var %d = %v, want %v", v, model[v], want)
				}
			}
		})
	}
}

// php returns the clauses of the pigeonhole instance PHP(pigeons, holes):
// variable x_{i,j} (1-based pigeon i, hole j) is numbered
// (i-1)*holes+j, encoding "each pigeon occupies some hole" and "no hole
// holds two pigeons". PHP(p, h) with p > h is always unsatisfiable.
func php(pigeons, holes int) [][]int {
	v := func(i, j int) int { return (i-1)*holes + j }

	var clauses [][]int
	for i := 1; i <= pigeons; i++ {
		clause := make([]int, holes)
		for j := 1; j <= holes; j++ {
			clause[j-1] = v(i, j)
		}
		clauses = append(clauses, clause)
	}
	for j := 1; j <= holes; j++ {
		for i := 1; i <= pigeons; i++ {
			for k := i + 1; k <= pigeons; k++ {
				clauses = append(clauses, []int{-v(i, j), -v(k, j)})
			}
		}
	}
	return clauses
}
