package cre

// capTable tracks capture-group spans during one evaluation run. Each
// capturing group pushes an entry when an activation of it succeeds
// with at least one repetition, overrides that entry when the
// activation is retried to a different span, and pops it when the
// activation is undone. The bookkeeping is strictly 1:1 with
// repetition attempts, so rollback falls out of the retry protocol.
type capTable struct {
	stacks [][]span // by capture index; stacks[0] unused
}

func newCapTable(groups int) *capTable {
	return &capTable{stacks: make([][]span, groups+1)}
}

func (t *capTable) push(i int, sp span) {
	t.stacks[i] = append(t.stacks[i], sp)
}

func (t *capTable) override(i int, sp span) {
	s := t.stacks[i]
	s[len(s)-1] = sp
}

func (t *capTable) pop(i int) {
	s := t.stacks[i]
	t.stacks[i] = s[:len(s)-1]
}

// last returns the most recent span recorded for group i.
func (t *capTable) last(i int) (span, bool) {
	s := t.stacks[i]
	if len(s) == 0 {
		return span{}, false
	}
	return s[len(s)-1], true
}

// final snapshots the table at the end of a successful run. Groups that
// never matched are reported as {-1, -1}.
func (t *capTable) final() []span {
	out := make([]span, len(t.stacks))
	for i := range out {
		if sp, ok := t.last(i); ok {
			out[i] = sp
		} else {
			out[i] = span{-1, -1}
		}
	}
	return out
}
