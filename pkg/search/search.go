package search

import "time"

// State is a node of the search space. Key must be canonical: two structurally
// identical states return equal keys, since all bookkeeping (visited sets,
// parent pointers, cost maps) is keyed on it.
type State interface {
	Key() string
}

// Action is opaque to the engine and only ever handed back to the problem.
type Action any

type Problem interface {
	Start() State
	Actions(state State) []Action
	Result(state State, action Action) State
	GoalTest(state State) bool
	// PathCost returns the cumulative cost of reaching next from state via
	// action, given the cumulative cost of state so far.
	PathCost(cost float64, state State, action Action, next State) float64
}

type Heuristic func(state State) float64

// ZeroHeuristic turns A* into uniform-cost search. It is the default wherever
// a heuristic is optional.
func ZeroHeuristic(State) float64 {
	return 0
}

// Limits bounds a search run. Zero values mean unlimited. Both limits are
// checked at the top of every iteration, before the pop and the goal test.
type Limits struct {
	MaxIterations int
	Timeout       time.Duration
}

// Result describes a finished run. A nil Path means no path was found, which
// covers both frontier exhaustion and hitting a limit: neither is an error.
// Callers distinguish a cutoff through Iterations and Elapsed.
type Result struct {
	Path        []State
	Cost        float64
	Iterations  int
	Explored    int
	MaxFrontier int
	Elapsed     time.Duration
	Strategy    string
	Graph       *Graph // Non-nil only when the searcher records its expansion trace
}

func (result Result) Solved() bool {
	return result.Path != nil
}
