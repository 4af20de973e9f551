package cre

// The engine is a backtracking interpreter over the Expr tree. Every
// node knows three operations:
//
//	match    - claim an initial run of repetitions at the current
//	           position (greedy nodes take as many as allowed,
//	           nongreedy nodes as few)
//	retry    - produce the next-best consumption after a downstream
//	           failure (greedy nodes release a repetition, nongreedy
//	           nodes take one more; composites first re-explore the
//	           internals of their most recent repetition)
//	undo     - revert an activation completely once retry is exhausted
//
// A sequence of siblings is driven left to right; when a node cannot
// match, its most recently matched predecessor retries, and retry
// exhaustion propagates one sibling further back. Groups recurse into
// the same machinery, one activation per group repetition.

// span is a half-open [start, end) byte range into the subject.
type span struct {
	start, end int
}

func (s span) width() int { return s.end - s.start }

// repetition is one satisfied occurrence of a quantified node.
type repetition struct {
	span
	branch int // OpAlternate: index of the branch that matched
}

// frame holds the repetitions claimed by one activation of a node. A
// node is activated once per repetition of its enclosing group, so
// per-node state is a stack of frames, unwound in reverse order.
type frame struct {
	reps   []repetition
	capped bool // a capture entry was pushed for this activation
}

func (f *frame) last() (repetition, bool) {
	if len(f.reps) == 0 {
		return repetition{}, false
	}
	return f.reps[len(f.reps)-1], true
}

type nodeState struct {
	frames []*frame
}

func (st *nodeState) push() *frame {
	f := &frame{}
	st.frames = append(st.frames, f)
	return f
}

func (st *nodeState) top() *frame {
	return st.frames[len(st.frames)-1]
}

func (st *nodeState) pop() {
	st.frames = st.frames[:len(st.frames)-1]
}

// machine holds all mutable state of one evaluation run. The compiled
// tree itself is never written to, so a Regexp can serve concurrent
// searches, each with its own machine.
type machine struct {
	re  *Regexp
	in  Input
	pos int

	states []nodeState
	caps   *capTable

	steps    int
	maxSteps int
	aborted  bool
}

func (re *Regexp) newMachine(in Input) *machine {
	return &machine{
		re:       re,
		in:       in,
		states:   make([]nodeState, re.numNodes),
		caps:     newCapTable(re.captures),
		maxSteps: re.maxSteps,
	}
}

func (m *machine) state(e *Expr) *nodeState {
	return &m.states[e.index]
}

// lastRep returns the most recent repetition of e's current activation.
func (m *machine) lastRep(e *Expr) (repetition, bool) {
	st := m.state(e)
	if len(st.frames) == 0 {
		return repetition{}, false
	}
	return st.top().last()
}

// budget charges one step against the optional step limit. Once the
// limit is exceeded every subsequent match and retry fails, so the run
// unwinds and terminates promptly.
func (m *machine) budget() bool {
	if m.aborted {
		return true
	}
	m.steps++
	if m.maxSteps > 0 && m.steps > m.maxSteps {
		m.aborted = true
	}
	return m.aborted
}

// match claims an initial run of repetitions of e at the current
// position. On success the node's capture entry, if any, records the
// last repetition. On failure all state is reverted.
func (m *machine) match(e *Expr) bool {
	if m.budget() {
		return false
	}
	var ok bool
	if e.composite() {
		ok = m.matchComposite(e)
	} else {
		ok = m.matchLeaf(e)
	}
	if ok && e.Cap > 0 {
		m.syncCapture(e)
	}
	return ok
}

// retry produces e's next-best consumption. On failure the activation
// is undone completely and control belongs to an earlier sibling.
func (m *machine) retry(e *Expr) bool {
	if m.budget() {
		m.undo(e)
		return false
	}
	var ok bool
	if e.composite() {
		ok = m.retryComposite(e)
	} else {
		ok = m.retryLeaf(e)
	}
	if !ok {
		m.undo(e)
		return false
	}
	if e.Cap > 0 {
		m.syncCapture(e)
	}
	return true
}

// syncCapture aligns the capture table with the node's current
// activation: the entry tracks the last repetition's span and vanishes
// when the activation holds no repetitions.
func (m *machine) syncCapture(e *Expr) {
	f := m.state(e).top()
	if rep, ok := f.last(); ok {
		if f.capped {
			m.caps.override(e.Cap, rep.span)
		} else {
			m.caps.push(e.Cap, rep.span)
			f.capped = true
		}
	} else if f.capped {
		m.caps.pop(e.Cap)
		f.capped = false
	}
}

// undo reverts e's current activation: child activations repetition by
// repetition, the consumed subject positions, and the capture entry.
func (m *machine) undo(e *Expr) {
	st := m.state(e)
	if len(st.frames) == 0 {
		return
	}
	f := st.top()
	switch e.Op {
	case OpGroup:
		for range f.reps {
			for i := len(e.Sub) - 1; i >= 0; i-- {
				m.undo(e.Sub[i])
			}
		}
	case OpAlternate:
		for k := len(f.reps) - 1; k >= 0; k-- {
			m.undo(e.Sub[f.reps[k].branch])
		}
	}
	if len(f.reps) > 0 {
		m.pos = f.reps[0].start
	}
	if e.Cap > 0 && f.capped {
		m.caps.pop(e.Cap)
	}
	st.pop()
}

// upper returns the repetition count the initial match aims for.
func upper(e *Expr) int {
	if e.Greedy {
		return e.Max
	}
	return e.Min
}

// matchLeaf runs the quantifier loop for an atomic node.
func (m *machine) matchLeaf(e *Expr) bool {
	st := m.state(e)
	f := st.push()
	limit := upper(e)
	for limit == Unbounded || len(f.reps) < limit {
		rep, ok := m.matchOnce(e)
		if !ok {
			break
		}
		f.reps = append(f.reps, rep)
		m.pos = rep.end
		// A zero-width repetition cannot be extended into progress.
		if rep.width() == 0 && len(f.reps) >= e.Min {
			break
		}
	}
	if len(f.reps) >= e.Min {
		return true
	}
	if len(f.reps) > 0 {
		m.pos = f.reps[0].start
	}
	st.pop()
	return false
}

// retryLeaf implements the quantifier's retry direction: greedy nodes
// release their most recent repetition, nongreedy nodes take one more.
func (m *machine) retryLeaf(e *Expr) bool {
	f := m.state(e).top()
	if e.Greedy {
		if len(f.reps) <= e.Min {
			return false
		}
		last := f.reps[len(f.reps)-1]
		f.reps = f.reps[:len(f.reps)-1]
		m.pos = last.start
		return true
	}
	if e.Max != Unbounded && len(f.reps) >= e.Max {
		return false
	}
	rep, ok := m.matchOnce(e)
	if !ok {
		return false
	}
	if rep.width() == 0 {
		if prev, has := f.last(); has && prev.width() == 0 {
			// Stacking empty repetitions changes nothing downstream.
			return false
		}
	}
	f.reps = append(f.reps, rep)
	m.pos = rep.end
	return true
}

// matchComposite runs the quantifier loop for groups and alternations.
// When the initial pass falls short of the minimum it re-explores the
// internals of completed repetitions before giving up.
func (m *machine) matchComposite(e *Expr) bool {
	st := m.state(e)
	f := st.push()
	limit := upper(e)
	for {
		for limit == Unbounded || len(f.reps) < limit {
			rep, ok := m.matchOnce(e)
			if !ok {
				break
			}
			f.reps = append(f.reps, rep)
			if rep.width() == 0 && len(f.reps) >= e.Min {
				break
			}
		}
		if len(f.reps) >= e.Min {
			return true
		}
		if !m.retryRep(e) {
			st.pop()
			return false
		}
	}
}

// retryComposite first lets the most recent repetition's internals
// produce an alternative; only once those are exhausted does it change
// the node's own repetition count.
func (m *machine) retryComposite(e *Expr) bool {
	f := m.state(e).top()
	initial := len(f.reps)

	if initial == 0 {
		if e.Greedy {
			return false
		}
	} else if m.retryRep(e) {
		return true
	}

	// The failed internal retry reverted every repetition; rebuild to
	// the next count. Greedy shrinks by one, nongreedy grows by one.
	if e.Greedy {
		if initial <= e.Min {
			return false
		}
		for k := 0; k < initial-1; k++ {
			rep, ok := m.matchOnce(e)
			if !ok {
				return false
			}
			f.reps = append(f.reps, rep)
		}
		return true
	}
	if e.Max != Unbounded && initial >= e.Max {
		return false
	}
	for k := 0; k < initial+1; k++ {
		rep, ok := m.matchOnce(e)
		if !ok {
			return false
		}
		f.reps = append(f.reps, rep)
	}
	if n := len(f.reps); n >= 2 && f.reps[n-1].width() == 0 && f.reps[n-2].width() == 0 {
		// Growing by another empty repetition makes no progress.
		return false
	}
	return true
}

// retryRep re-opens the most recent completed repetition of a
// composite node and searches for its next internal variation.
func (m *machine) retryRep(e *Expr) bool {
	if e.Op == OpAlternate {
		return m.retryAlternateRep(e)
	}
	return m.retryGroupRep(e)
}

// retryGroupRep retries the children of the group's last repetition,
// rightmost child first; when the repetition is out of variations it
// recurses into the repetition before it and replays forward.
func (m *machine) retryGroupRep(e *Expr) bool {
	f := m.state(e).top()
	if len(f.reps) == 0 {
		return false
	}
	last := f.reps[len(f.reps)-1]
	f.reps = f.reps[:len(f.reps)-1]

	if m.retrySeq(e.Sub) {
		// Internal retry shifts only where the repetition ends; it
		// still starts where the sequence began.
		f.reps = append(f.reps, repetition{span: span{last.start, m.pos}})
		return true
	}

	for m.retryGroupRep(e) {
		if rep, ok := m.matchOnce(e); ok {
			f.reps = append(f.reps, rep)
			return true
		}
	}
	return false
}

// retryAlternateRep retries the branch chosen by the last repetition;
// once it is exhausted the remaining branches are tried in declaration
// order, then earlier repetitions are re-opened.
func (m *machine) retryAlternateRep(e *Expr) bool {
	f := m.state(e).top()
	if len(f.reps) == 0 {
		return false
	}
	last := f.reps[len(f.reps)-1]
	f.reps = f.reps[:len(f.reps)-1]

	if m.retry(e.Sub[last.branch]) {
		f.reps = append(f.reps, repetition{span: span{last.start, m.pos}, branch: last.branch})
		return true
	}

	next := last.branch + 1
	for {
		for i := next; i < len(e.Sub); i++ {
			start := m.pos
			if m.match(e.Sub[i]) {
				f.reps = append(f.reps, repetition{span: span{start, m.pos}, branch: i})
				return true
			}
		}
		next = 0
		if !m.retryAlternateRep(e) {
			return false
		}
	}
}

// matchOnce attempts exactly one repetition of the node's own
// semantics at the current position; quantifiers are the caller's
// concern. Leaf variants do not advance the position; composite
// variants leave it at the end of the consumed span.
func (m *machine) matchOnce(e *Expr) (repetition, bool) {
	switch e.Op {
	case OpLiteral:
		r, w := m.in.Step(m.pos)
		if w == 0 || r != e.Rune {
			return repetition{}, false
		}
		return repetition{span: span{m.pos, m.pos + w}}, true

	case OpCharClass:
		r, w := m.in.Step(m.pos)
		if w == 0 || !matchClass(r, e.Ranges, e.Negated) {
			return repetition{}, false
		}
		return repetition{span: span{m.pos, m.pos + w}}, true

	case OpAnyChar:
		r, w := m.in.Step(m.pos)
		if w == 0 || r == '\n' {
			return repetition{}, false
		}
		return repetition{span: span{m.pos, m.pos + w}}, true

	case OpBeginText:
		if m.pos != 0 {
			return repetition{}, false
		}
		return repetition{span: span{m.pos, m.pos}}, true

	case OpEndText:
		if _, w := m.in.Step(m.pos); w != 0 {
			return repetition{}, false
		}
		return repetition{span: span{m.pos, m.pos}}, true

	case OpWordBoundary:
		if !isWordBoundary(m.in, m.pos) {
			return repetition{}, false
		}
		return repetition{span: span{m.pos, m.pos}}, true

	case OpNoWordBoundary:
		if isWordBoundary(m.in, m.pos) {
			return repetition{}, false
		}
		return repetition{span: span{m.pos, m.pos}}, true

	case OpBackref:
		return m.matchBackref(e)

	case OpGroup:
		start := m.pos
		if !m.matchSeq(e.Sub) {
			return repetition{}, false
		}
		return repetition{span: span{start, m.pos}}, true

	case OpAlternate:
		start := m.pos
		for i, b := range e.Sub {
			if m.match(b) {
				return repetition{span: span{start, m.pos}, branch: i}, true
			}
		}
		return repetition{}, false
	}
	return repetition{}, false
}

// matchBackref matches the text last captured by the referenced group.
// A group that has not captured anything matches nothing.
func (m *machine) matchBackref(e *Expr) (repetition, bool) {
	sp, ok := m.caps.last(e.Ref)
	if !ok {
		return repetition{}, false
	}
	i, j := sp.start, m.pos
	for i < sp.end {
		r1, w1 := m.in.Step(i)
		r2, w2 := m.in.Step(j)
		if w2 == 0 || r1 != r2 {
			return repetition{}, false
		}
		i += w1
		j += w2
	}
	return repetition{span: span{m.pos, j}}, true
}

// matchSeq drives a sibling list left to right from the current
// position. When node i cannot match, the closest previously matched
// sibling retries; retry exhaustion walks further back, and stepping
// back past the first sibling fails the sequence.
func (m *machine) matchSeq(seq []*Expr) bool {
	i := 0
	for i < len(seq) {
		if m.match(seq[i]) {
			i++
			continue
		}
		for {
			if i == 0 {
				return false
			}
			i--
			if m.retry(seq[i]) {
				i++
				break
			}
		}
	}
	return true
}

// retrySeq searches for the next consumption of an already matched
// sibling list: rightmost sibling first, replaying the suffix forward
// after every successful retry.
func (m *machine) retrySeq(seq []*Expr) bool {
	i := len(seq) - 1
	for i >= 0 {
		if !m.retry(seq[i]) {
			i--
			continue
		}
		j := i + 1
		for j < len(seq) && m.match(seq[j]) {
			j++
		}
		if j == len(seq) {
			return true
		}
		i = j - 1
	}
	return false
}

// matchClass reports whether r belongs to the class. An empty negated
// range set matches every rune.
func matchClass(r rune, ranges []RuneRange, negated bool) bool {
	matched := false
	for _, rng := range ranges {
		if r >= rng.Lo && r <= rng.Hi {
			matched = true
			break
		}
	}
	if negated {
		return !matched
	}
	return matched
}

func isWordBoundary(in Input, pos int) bool {
	prev, _ := in.Context(pos)
	curr, _ := in.Step(pos)
	return isWordRune(prev) != isWordRune(curr)
}

func isWordRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r == '_'
}
