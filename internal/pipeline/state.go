package pipeline

import "fmt"

// State is a stage of one pipeline run.
type State int

const (
	Idle State = iota
	Generating
	Extracted
	CrossChecking
	Checked
	Done
	Failed
)

var stateNames = [...]string{
	Idle:          "idle",
	Generating:    "generating",
	Extracted:     "extracted",
	CrossChecking: "cross_checking",
	Checked:       "checked",
	Done:          "done",
	Failed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText renders the state by name in JSON results.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// transitions lists the legal successors of each state.
var transitions = map[State][]State{
	Idle:          {Generating, Failed},
	Generating:    {Extracted, Failed},
	Extracted:     {CrossChecking, Done},
	CrossChecking: {Checked, Failed},
}

// CanTransition reports whether a run may move from one state to another.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
