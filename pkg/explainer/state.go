package explainer

import "fmt"

/*
State is a step of the query cycle.
*/
type State int

const (
	Validating State = iota
	Rejected
	GraphLookup
	GraphAnswered
	WebFallback
	Done
)

func (state State) String() string {
	switch state {
	case Validating:
		return "validating"
	case Rejected:
		return "rejected"
	case GraphLookup:
		return "graph_lookup"
	case GraphAnswered:
		return "graph_answered"
	case WebFallback:
		return "web_fallback"
	case Done:
		return "done"
	}

	return "unknown"
}

/*
Terminal reports whether the cycle stops in this state.
*/
func (state State) Terminal() bool {
	return state == Rejected || state == GraphAnswered || state == Done
}

func (state State) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

func (state *State) UnmarshalText(text []byte) error {
	for candidate := Validating; candidate <= Done; candidate++ {
		if candidate.String() == string(text) {
			*state = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown state %q", text)
}
