package dimacs

import (
	"fmt"

	"github.com/rhartert/dimacs"
)

// ReadModels parses a golden-file model listing: one line per model, each
// a whitespace-separated list of signed integers terminated by a trailing
// 0, exactly like a DIMACS clause line but with no leading "p cnf" header.
// It is used by integration tests to check a solved formula's model
// against a recorded expectation.
func ReadModels(filename string) ([][]bool, error) {
	r, err := open(filename, false)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	return b.models, nil
}

// modelBuilder implements dimacs.Builder over a model listing: each
// "clause" line is really a full variable assignment, so Clause appends
// one model per call and Problem rejects the header line models files
// must not have.
type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("dimacs: model files should not have a problem line")
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}

func (b *modelBuilder) Comment(_ string) error {
	return nil
}
