package sat

import "strings"

// clauseStatus is a small bitmask of clause metadata. It is tracked
// even though the search driver never triggers a learned-clause
// reduction pass: the activity and "locked" bookkeeping is cheap to
// maintain. Nothing in this module (driver, explain/print paths or
// tests) currently reads the protected bit, activity or locked.
type clauseStatus uint8

const (
	statusLearnt clauseStatus = 1 << iota
	statusProtected
)

// Clause is an entry in the clause database: an ordered, distinct
// sequence of literals together with the two watch positions used by
// the propagation engine. literals[0] and literals[1] are always the
// current watches; for a two-or-more literal clause they are distinct
// positions, for nothing shorter (clauses of length 0 or 1 never
// reach this type; see newClause).
type Clause struct {
	// index is this clause's position in the owning Solver's clause
	// database. It is assigned once, at creation, and never changes:
	// antecedents and watch lists refer to clauses by pointer, but
	// index is what external inspection (tests, model validation)
	// uses to address a clause stably.
	index int

	activity float64

	// literals holds the clause's literals with literals[0] and
	// literals[1] as the current watches. It is nil once the clause
	// has been removed from the database.
	literals []Literal

	// searchFrom remembers where Propagate last found a replacement
	// watch, so the next search resumes there instead of rescanning
	// from the start of the clause every time. Always in
	// [2, len(literals)-1] while the clause is long enough to need it.
	searchFrom int

	// lbd is the literal block distance, an estimate of a learnt
	// clause's quality used by clause-deletion policies. It is
	// neither computed nor consulted in this module, since the driver
	// never deletes learnt clauses; it stays zero.
	lbd uint32

	status clauseStatus
}

func (c *Clause) isLearnt() bool {
	return c.status&statusLearnt != 0
}

func (c *Clause) isProtected() bool {
	return c.status&statusProtected != 0
}

func (c *Clause) setProtected() {
	c.status |= statusProtected
}

func (c *Clause) setUnprotected() {
	c.status &^= statusProtected
}

// Index returns the clause's stable position in the clause database.
func (c *Clause) Index() int {
	return c.index
}

// Literals returns the clause's current literals. The returned slice
// must not be mutated by the caller.
func (c *Clause) Literals() []Literal {
	return c.literals
}

// newClause builds a Clause from tmpLiterals and registers it in s's
// clause database and watch index in one step.
//
// For a non-learnt (original) clause, tmpLiterals is first simplified
// against the root assignment and against itself: duplicate literals
// are dropped, a clause containing both a literal and its negation is
// recognized as tautological, and literals already false at the root
// are discarded. Learnt clauses skip this step: they are already false
// under the current assignment by construction, and resolving a
// tautology out of them would be incorrect, since the resolution step
// that produced them assumes every literal is meaningful.
//
// newClause returns (nil, true) for a tautological or already-true
// clause (nothing to add), (nil, ok) for a clause that reduces to a
// unit fact (ok reports whether the resulting enqueue was consistent),
// and (nil, false) for the empty clause (an immediate-UNSAT signal).
// Otherwise it returns the new *Clause and true.
func newClause(s *Solver, tmpLiterals []Literal, learnt bool) (*Clause, bool) {
	size := len(tmpLiterals)

	if !learnt {
		seen := make(map[Literal]struct{}, size)
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return nil, true // tautological clause, always true
			}
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.LitValue(tmpLiterals[i]) {
			case True:
				return nil, true // already satisfied at the root
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}
		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		return nil, false // empty clause: immediate UNSAT
	case 1:
		return nil, s.enqueue(tmpLiterals[0], nil) // unit fact, no clause needed
	}

	c := &Clause{
		searchFrom: 2,
		literals:   append([]Literal(nil), tmpLiterals...),
	}
	if learnt {
		c.status |= statusLearnt

		// Move the literal at the highest assigned level (the
		// second watch of a freshly learnt clause) into position 1.
		// Position 0 is the asserting literal, chosen by the caller
		// and still unassigned at this point since backjump already
		// cleared it; every other literal sits at a level <= the
		// backjump level, so this picks exactly that literal.
		maxLevel, at := -1, 1
		for i, lit := range c.literals {
			if lvl := s.level[lit.VarID()]; lvl > maxLevel {
				maxLevel, at = lvl, i
			}
		}
		c.literals[at], c.literals[1] = c.literals[1], c.literals[at]
	}

	c.index = s.addToDatabase(c)
	s.Watch(c, c.literals[0].Opposite(), c.literals[1])
	s.Watch(c, c.literals[1].Opposite(), c.literals[0])

	return c, true
}

// locked reports whether c is currently the antecedent of an assigned
// variable, which means it cannot be safely deleted. Unused by the
// driver (no deletion policy runs) but kept for tests and for any
// future reduction pass that repurposes it.
func (c *Clause) locked(s *Solver) bool {
	return s.reason[c.literals[0].VarID()] == c
}

// Remove unregisters c from the watch index and releases its literals.
// Like locked, it is not called by the search driver in this module.
func (c *Clause) Remove(s *Solver) {
	s.Unwatch(c, c.literals[0].Opposite())
	s.Unwatch(c, c.literals[1].Opposite())
	c.literals = nil
}

// Simplify drops literals that are false under the current (root-level)
// assignment and reports whether the clause is already satisfied and
// can be removed entirely. It must only be called at decision level 0.
func (c *Clause) Simplify(s *Solver) bool {
	k := 0
	for _, lit := range c.literals {
		switch s.LitValue(lit) {
		case True:
			return true
		case False:
			// drop
		default:
			c.literals[k] = lit
			k++
		}
	}
	c.literals = c.literals[:k]
	return false
}

// Propagate implements the per-clause half of watched-literal
// propagation: l has just become true, and c was watching l's
// opposite (i.e. c is watching the literal that l's assignment just
// falsified). Propagate restores the watch
// invariant by either moving the watch to a new non-false literal,
// discovering the clause is already satisfied through its other
// watch, enqueuing a forced unit, or reporting a conflict by
// returning false (the caller, Solver.Propagate, treats c itself as
// the conflicting clause in that case).
func (c *Clause) Propagate(s *Solver, l Literal) bool {
	falsified := l.Opposite()

	// Normalize so literals[1] is always the literal that was just
	// falsified; literals[0] is then the clause's other watch and the
	// one candidate for a forced unit assignment.
	if c.literals[0] == falsified {
		c.literals[0], c.literals[1] = c.literals[1], c.literals[0]
	}

	if s.LitValue(c.literals[0]) == True {
		s.Watch(c, l, c.literals[0])
		return true
	}

	if c.searchFrom >= len(c.literals) {
		c.searchFrom = 2
	}

	// Scan from searchFrom to the end, then wrap around to the
	// beginning of the non-watched literals. This two-segment sweep
	// is what keeps Propagate from being reentered on an
	// already-moved watch within the same call: each literal is
	// inspected at most once per invocation.
	for i, lit := range c.literals[c.searchFrom:] {
		if s.LitValue(lit) != False {
			pos := c.searchFrom + i
			c.literals[1], c.literals[pos] = lit, falsified
			c.searchFrom = pos
			s.Watch(c, lit.Opposite(), c.literals[0])
			return true
		}
	}
	for i, lit := range c.literals[2:c.searchFrom] {
		if s.LitValue(lit) != False {
			pos := i + 2
			c.literals[1], c.literals[pos] = lit, falsified
			c.searchFrom = pos
			s.Watch(c, lit.Opposite(), c.literals[0])
			return true
		}
	}

	// No replacement: literals[1:] are all false. literals[0] is
	// either the forced unit or, if it is also false, the conflict.
	s.Watch(c, l, c.literals[0])
	return s.enqueue(c.literals[0], c)
}

// explainConflict returns the negation of every literal in c, reusing
// reuse's backing array when possible. It is used when c itself is the
// conflicting clause: every literal of c is false, so its negation is
// true and forms the starting reason set for conflict analysis.
func (c *Clause) explainConflict(reuse []Literal) []Literal {
	out := reuse[:0]
	for _, l := range c.literals {
		out = append(out, l.Opposite())
	}
	return out
}

// explainAssign returns the antecedent reason for c having forced its
// first literal true: the negation of every other literal in c (all of
// which were false at the time the assignment was made).
func (c *Clause) explainAssign(reuse []Literal) []Literal {
	out := reuse[:0]
	for _, l := range c.literals[1:] {
		out = append(out, l.Opposite())
	}
	return out
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	var sb strings.Builder
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
