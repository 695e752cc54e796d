package sat

import "github.com/rhartert/yagh"

// decayPeriod is how many conflicts elapse between two activity decay
// passes: every 50 conflicts, all activities are multiplied by a decay
// factor. 0.95 is used so activity accumulated several conflicts back
// still carries some weight, instead of being washed out after just a
// handful of decay passes.
const (
	decayPeriod = 50
	decayFactor = 0.95
)

// VarOrder is the decision heuristic: it tracks one activity score per
// variable and returns the unassigned variable with the highest score,
// ties broken by the smallest variable ID. Candidates are kept in a
// binary heap (github.com/rhartert/yagh) keyed on the negated score so
// Pop yields the maximum; yagh breaks ties on insertion order, which
// here is the order AddVar declared each variable, ascending ID,
// exactly the tie-break required.
type VarOrder struct {
	heap   *yagh.IntMap[float64]
	scores []float64

	// phases records, per variable, the polarity it last held before
	// being unassigned. Only consulted when phaseSaving is set;
	// otherwise every decision proposes the positive literal, the
	// simplest correct policy.
	phases      []LBool
	phaseSaving bool
}

// NewVarOrder returns an empty VarOrder. phaseSaving selects between
// the default "always true" phase policy and remembering each
// variable's last assigned polarity across backtracks.
func NewVarOrder(phaseSaving bool) *VarOrder {
	return &VarOrder{
		heap:        yagh.New[float64](0),
		phaseSaving: phaseSaving,
	}
}

// AddVar registers a new variable with zero activity and an undecided
// saved phase, and inserts it into the candidate heap.
func (vo *VarOrder) AddVar() {
	v := len(vo.scores)
	vo.scores = append(vo.scores, 0)
	vo.phases = append(vo.phases, Unknown)
	vo.heap.GrowBy(1)
	vo.heap.Put(v, 0)
}

// Reinsert makes variable v a candidate again after it is unassigned,
// e.g. during backjump. val is the value v held just before being
// unassigned; with phase saving enabled it becomes v's next proposed
// polarity.
func (vo *VarOrder) Reinsert(v int, val LBool) {
	if vo.phaseSaving {
		vo.phases[v] = val
	}
	vo.heap.Put(v, -vo.scores[v])
}

// Bump increments v's activity by one. Called for every variable
// appearing in a newly learnt clause.
func (vo *VarOrder) Bump(v int) {
	vo.scores[v]++
	if vo.heap.Contains(v) {
		vo.heap.Put(v, -vo.scores[v])
	}
}

// Decay multiplies every variable's activity by decayFactor. The
// solver calls this once every decayPeriod conflicts.
func (vo *VarOrder) Decay() {
	for v, s := range vo.scores {
		scaled := s * decayFactor
		vo.scores[v] = scaled
		if vo.heap.Contains(v) {
			vo.heap.Put(v, -scaled)
		}
	}
}

// NextDecision returns the next literal to branch on: the highest
// activity unassigned variable, under its saved or default phase. It
// panics if no unassigned variable remains; the search driver must
// check NumAssigns() == NumVariables() before calling this.
func (vo *VarOrder) NextDecision(s *Solver) Literal {
	for {
		top, ok := vo.heap.Pop()
		if !ok {
			panic("sat: NextDecision called with no unassigned variable left")
		}
		if s.VarValue(top.Elem) != Unknown {
			continue // stale heap entry, already assigned
		}
		if vo.phases[top.Elem] == False {
			return NegativeLiteral(top.Elem)
		}
		return PositiveLiteral(top.Elem)
	}
}
