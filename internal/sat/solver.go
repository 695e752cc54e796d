package sat

import (
	"fmt"
	"time"
)

// Solver is a complete CDCL SAT solver: it owns the clause database,
// the watch index, the assignment trail, the propagation engine,
// conflict analysis, the decision heuristic, and the search driver.
// All of its state is created by NewSolver/NewDefaultSolver and
// consumed entirely within one or more calls to Solve; nothing here is
// global or shared across solvers.
type Solver struct {
	// Clause database. clauses is append-only and indices are stable
	// for the solver's lifetime: original clauses occupy the prefix
	// added before the first Solve call, learnt clauses are appended
	// as conflicts are analyzed.
	clauses []*Clause

	// Decision heuristic.
	order       *VarOrder
	phaseSaving bool

	// Watch index and propagation queue.
	watchers  [][]watcher
	propQueue *Queue[Literal]

	// Assignment state: one LBool per literal (so a variable's two
	// literals are adjacent entries), the trail itself, the
	// decision-level boundaries within it, and per-variable
	// level/antecedent.
	assigns  []LBool
	trail    []Literal
	trailLim []int
	reason   []*Clause
	level    []int

	// unsat latches a conflict discovered at decision level 0: once
	// set, every subsequent Solve call returns False immediately
	// without a satisfying model ever again being possible.
	unsat bool

	// Search statistics, exposed for the CLI and for tests.
	TotalConflicts  int64
	TotalRestarts   int64
	TotalIterations int64
	startTime       time.Time

	// Verbose, if true, prints running search statistics to stdout in
	// a "c <comment>" DIMACS-friendly style. Off by default so that
	// tests (which may call Solve many times to enumerate models) are
	// not flooded with output.
	Verbose bool

	// hasStopCond/maxConflict/timeout implement an optional cooperative
	// budget check; with the default options neither ever fires.
	hasStopCond bool
	maxConflict int64
	timeout     time.Duration

	// Models accumulates every satisfying assignment found across all
	// calls to Solve on this solver. Callers that want every model of a
	// formula re-solve after adding a blocking clause (the negation of
	// the last model found) until Solve returns False.
	Models [][]bool

	seen *seenVars

	// Reusable scratch buffers, so that Propagate and analyze do not
	// allocate on every call.
	tmpWatchers []watcher
	tmpLearnt   []Literal
	tmpReason   []Literal
}

// watcher is an entry in a literal's watch list: the clause to wake
// when that literal becomes true (i.e. when the clause's watch, its
// opposite, becomes false), plus a "blocking" guard
// literal that, if already true, proves the clause is satisfied
// without having to load and scan it. This is a standard optimization
// on top of the two-watches scheme; it changes the order clauses are
// examined in, never the result.
type watcher struct {
	clause *Clause
	guard  Literal
}

// Options configures tunable solver behavior. None of these values
// affect correctness; MaxConflicts/Timeout let a caller impose a
// cooperative search budget, and PhaseSaving selects an alternative
// decision phase policy.
type Options struct {
	MaxConflicts int64
	Timeout      time.Duration
	PhaseSaving  bool
}

var DefaultOptions = Options{
	MaxConflicts: -1,
	Timeout:      -1,
	PhaseSaving:  false,
}

// NewDefaultSolver returns a Solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// NewSolver returns an empty Solver (no variables, no clauses) ready
// to be populated with AddVariable/AddClause.
func NewSolver(opts Options) *Solver {
	s := &Solver{
		order:       NewVarOrder(opts.PhaseSaving),
		propQueue:   NewQueue[Literal](128),
		maxConflict: -1,
		timeout:     -1,
		seen:        &seenVars{},
		phaseSaving: opts.PhaseSaving,
	}
	if opts.MaxConflicts >= 0 {
		s.hasStopCond = true
		s.maxConflict = opts.MaxConflicts
	}
	if opts.Timeout >= 0 {
		s.hasStopCond = true
		s.timeout = opts.Timeout
	}
	return s
}

func (s *Solver) shouldStop() bool {
	if !s.hasStopCond {
		return false
	}
	if s.maxConflict >= 0 && s.maxConflict <= s.TotalConflicts {
		return true
	}
	if s.timeout >= 0 && s.timeout <= time.Since(s.startTime) {
		return true
	}
	return false
}

func (s *Solver) decisionLevel() int {
	return len(s.trailLim)
}

// NumVariables returns how many variables have been declared.
func (s *Solver) NumVariables() int {
	return len(s.assigns) / 2
}

// NumAssigns returns how many variables currently have a value.
func (s *Solver) NumAssigns() int {
	return len(s.trail)
}

// NumClauses returns the size of the clause database, original and
// learnt clauses combined.
func (s *Solver) NumClauses() int {
	return len(s.clauses)
}

// Clause returns the clause at the given stable index.
func (s *Solver) Clause(index int) *Clause {
	return s.clauses[index]
}

// VarValue returns the current value of variable x.
func (s *Solver) VarValue(x int) LBool {
	return s.assigns[PositiveLiteral(x)]
}

// LitValue returns the current value of literal l.
func (s *Solver) LitValue(l Literal) LBool {
	return s.assigns[l]
}

// AddVariable declares a new variable and returns its 0-based ID.
func (s *Solver) AddVariable() int {
	id := s.NumVariables()
	s.watchers = append(s.watchers, nil, nil) // one list per literal
	s.reason = append(s.reason, nil)
	s.level = append(s.level, -1)
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.seen.Expand()
	s.order.AddVar()
	return id
}

// addToDatabase appends c to the clause database and returns its
// stable index.
func (s *Solver) addToDatabase(c *Clause) int {
	index := len(s.clauses)
	s.clauses = append(s.clauses, c)
	return index
}

// Watch registers clause c to be woken when literal watch becomes
// true. guard is the clause's other watch, used as a cheap pre-check
// to skip already-satisfied clauses.
func (s *Solver) Watch(c *Clause, watch Literal, guard Literal) {
	s.watchers[watch] = append(s.watchers[watch], watcher{clause: c, guard: guard})
}

// Unwatch removes c from watch's watch list.
func (s *Solver) Unwatch(c *Clause, watch Literal) {
	list := s.watchers[watch]
	j := 0
	for i := range list {
		if list[i].clause != c {
			list[j] = list[i]
			j++
		}
	}
	s.watchers[watch] = list[:j]
}

// AddClause adds an original clause to the formula. It must only be
// called at decision level 0. Adding the empty clause (or a clause
// that reduces to a contradictory unit fact) sets the solver's
// permanent unsat flag rather than returning an error: empty-clause
// and contradictory-unit detection are both reported the same way, as
// an UNSAT verdict from Solve, not as a construction-time error.
func (s *Solver) AddClause(lits []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddClause called at decision level %d, must be 0", s.decisionLevel())
	}
	_, ok := newClause(s, lits, false)
	if !ok {
		s.unsat = true
	}
	return nil
}

// Propagate drains the propagation queue: it returns nil on
// quiescence (no conflict) or the conflicting clause. It maintains the
// invariant that no clause is left with both watches false unless it
// is the clause being returned, and that the queue and the trail's
// unprocessed suffix stay consistent: Propagate only ever consumes
// the queue, never the trail, and every literal it enqueues was just
// pushed onto the trail by enqueue.
func (s *Solver) Propagate() *Clause {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()

		// The list of clauses watching l's opposite (i.e. woken by l
		// becoming true) is swapped out into a scratch slice up front:
		// Clause.Propagate may re-add some of these watchers back to
		// s.watchers[l] (via s.Watch), and scanning a slice that is
		// being appended to underneath us would revisit moved entries.
		s.tmpWatchers = append(s.tmpWatchers[:0], s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			if s.LitValue(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}
			if w.clause.Propagate(s, l) {
				continue
			}

			// Conflict: the remaining watchers in this batch were
			// never looked at, so they still belong on l's watch
			// list, untouched.
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			s.propQueue.Clear()
			return s.tmpWatchers[i].clause
		}
	}
	return nil
}

// enqueue records l as true with the given antecedent (nil for a
// decision): it requires l's variable be unassigned, sets its
// value/level/antecedent, and pushes it onto both the trail and the
// propagation queue. It returns false without changing any state if l
// is already false (conflicting assignment) and true without
// enqueuing again if l is already true.
func (s *Solver) enqueue(l Literal, from *Clause) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		v := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.level[v] = s.decisionLevel()
		s.reason[v] = from
		s.trail = append(s.trail, l)
		s.propQueue.Push(l)
		return true
	}
}

// explain returns the reason literals for l: if l is the sentinel
// "unknown" literal (-1), it is the conflicting clause's own
// explanation (every literal negated); otherwise it is the antecedent
// clause's explanation for having forced l true.
func (s *Solver) explain(c *Clause, l Literal) []Literal {
	if l == -1 {
		s.tmpReason = c.explainConflict(s.tmpReason)
	} else {
		s.tmpReason = c.explainAssign(s.tmpReason)
	}
	return s.tmpReason
}

// analyze implements conflict analysis: given the clause conf in
// conflict at the current decision level, it walks the trail
// backward resolving on antecedents until exactly one literal at the
// current level remains (the first-UIP asserting literal), and returns
// the resulting learnt clause (asserting literal first) together with
// the backjump level (the highest level among the clause's other
// literals, i.e. the second-highest level in the clause, 0 if the
// clause is a unit).
func (s *Solver) analyze(conf *Clause) ([]Literal, int) {
	// pending counts how many literals at the current decision level
	// still need to be resolved away. Reaching 0 means only the
	// asserting literal remains at that level: the first UIP.
	pending := 0

	s.tmpLearnt = append(s.tmpLearnt[:0], -1) // slot 0 reserved for the FUIP
	nextTrailPos := len(s.trail) - 1

	l := Literal(-1) // sentinel: conf is the conflicting clause itself
	s.seen.Clear()
	backjumpLevel := 0

	for {
		for _, q := range s.explain(conf, l) {
			v := q.VarID()
			if s.seen.Contains(v) {
				continue
			}
			s.seen.Add(v)

			if s.level[v] == s.decisionLevel() {
				pending++
				continue
			}

			s.tmpLearnt = append(s.tmpLearnt, q.Opposite())
			if lvl := s.level[v]; lvl > backjumpLevel {
				backjumpLevel = lvl
			}
		}

		// Walk backward along the trail to the next seen variable
		// whose antecedent is a clause (not a decision); that
		// variable's antecedent is what gets resolved on next.
		for {
			l = s.trail[nextTrailPos]
			nextTrailPos--
			v := l.VarID()
			conf = s.reason[v]
			if s.seen.Contains(v) {
				break
			}
		}

		pending--
		if pending <= 0 {
			break
		}
	}

	s.tmpLearnt[0] = l.Opposite()
	return s.tmpLearnt, backjumpLevel
}

// bumpActivities increments the activity of every variable in the
// learnt clause by one and, every decayPeriod conflicts, decays every
// variable's activity by decayFactor.
func (s *Solver) bumpActivities(learnt []Literal) {
	for _, l := range learnt {
		s.order.Bump(l.VarID())
	}
	if s.TotalConflicts%decayPeriod == 0 {
		s.order.Decay()
	}
}

// record appends a newly learnt clause to the database, registers its
// watches, and immediately asserts its first literal (the first-UIP
// literal) with the clause itself as antecedent.
func (s *Solver) record(learnt []Literal) {
	c, _ := newClause(s, learnt, true)
	if c != nil {
		// Bump the clause's own activity on creation. A reduction
		// pass would use this to rank clauses for deletion; this
		// solver runs none, so the value is never read.
		c.activity++
	}
	s.enqueue(learnt[0], c)
}

// undoOne reverses the most recent assignment on the trail: it clears
// the variable's value/level/antecedent and returns it to the decision
// heuristic's candidate set. Assignments are always undone in this
// strict reverse-trail order.
func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	prevVal := False
	if l.IsPositive() {
		prevVal = True
	}
	s.order.Reinsert(v, prevVal)
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reason[v] = nil
	s.level[v] = -1

	s.trail = s.trail[:len(s.trail)-1]
}

// assume starts a new decision level and asserts l as a decision (no
// antecedent). It returns false if l conflicts with the current
// assignment, which cannot happen for a freshly chosen branch literal
// but can for the asserting literal of a learnt unit clause.
func (s *Solver) assume(l Literal) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	return s.enqueue(l, nil)
}

// cancel undoes every assignment made at the current decision level
// and pops that level.
func (s *Solver) cancel() {
	n := len(s.trail) - s.trailLim[len(s.trailLim)-1]
	for ; n > 0; n-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// cancelUntil backjumps to the given decision level, non-chronologically
// if more than one level is being undone at once.
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
}

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for v := range model {
		lb := s.VarValue(v)
		if lb == Unknown {
			panic("sat: saveModel called before every variable was assigned")
		}
		model[v] = lb == True
	}
	s.Models = append(s.Models, model)
}

// Search is one bounded run of the CDCL loop: propagate, and on no
// conflict either declare SAT, or make a decision; on conflict,
// analyze and backjump, unless the conflict is at decision level 0, in
// which case the formula is UNSAT. When a stop condition is configured
// (Options.MaxConflicts or Options.Timeout), it returns Unknown once
// more than nConflicts conflicts were hit, letting Solve's outer loop
// decide whether to continue with a larger budget; otherwise nConflicts
// is ignored and Search runs to a verdict.
func (s *Solver) Search(nConflicts int) LBool {
	if s.unsat {
		return False
	}

	s.TotalRestarts++
	seenConflicts := 0

	for !s.shouldStop() {
		s.TotalIterations++

		if conflict := s.Propagate(); conflict != nil {
			seenConflicts++
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learnt, backjumpLevel := s.analyze(conflict)
			s.bumpActivities(learnt)
			s.cancelUntil(backjumpLevel)
			s.record(learnt)

			continue
		}

		// No conflict.
		if s.NumAssigns() == s.NumVariables() {
			s.saveModel()
			s.cancelUntil(0)
			return True
		}
		if s.hasStopCond && seenConflicts > nConflicts {
			s.cancelUntil(0)
			return Unknown
		}

		s.assume(s.order.NextDecision(s))
	}

	return Unknown
}

// Solve runs the full search to completion: it repeatedly calls Search
// with a growing conflict budget until a verdict other than Unknown is
// reached or a configured stop condition fires. With the default
// options (no MaxConflicts/Timeout) this is equivalent to a single,
// unbounded loop, since Search is never asked to give up and return
// Unknown.
func (s *Solver) Solve() LBool {
	s.startTime = time.Now()
	if s.Verbose {
		s.printSeparator()
		s.printSearchHeader()
		s.printSeparator()
	}

	budget := 100
	status := Unknown
	for status == Unknown {
		status = s.Search(budget)
		budget += budget / 10

		if s.Verbose {
			s.printSearchStats()
		}
		if s.shouldStop() {
			break
		}
	}

	if s.Verbose {
		s.printSeparator()
	}
	s.cancelUntil(0)
	return status
}

func (s *Solver) printSeparator() {
	fmt.Println("c ---------------------------------------------------------------------------")
}

func (s *Solver) printSearchHeader() {
	fmt.Println("c            time     iterations      conflicts       restarts       clauses")
}

func (s *Solver) printSearchStats() {
	fmt.Printf(
		"c %14.3fs %14d %14d %14d %14d\n",
		time.Since(s.startTime).Seconds(),
		s.TotalIterations,
		s.TotalConflicts,
		s.TotalRestarts,
		len(s.clauses))
}
