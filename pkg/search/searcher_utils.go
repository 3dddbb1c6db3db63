package search

import (
	"time"

	"github.com/samber/lo"
)

// limitReached reports whether a run must stop before its next pop.
func limitReached(limits Limits, start time.Time, iterations int) bool {
	if limits.MaxIterations > 0 && iterations >= limits.MaxIterations {
		return true
	}
	if limits.Timeout > 0 && time.Since(start) >= limits.Timeout {
		return true
	}
	return false
}

// reconstructPath walks the parent pointers from goal back to start and
// returns the chain in start-to-goal order.
func reconstructPath(parents map[string]State, start, goal State) []State {
	path := []State{goal}
	current := goal
	for current.Key() != start.Key() {
		current = parents[current.Key()]
		path = append(path, current)
	}
	return lo.Reverse(path)
}

//** Priority frontier shared by UCS and A*

// frontierEntry snapshots the g (and f, for A*) a state was pushed with. A
// popped entry whose g no longer matches the best-known g is stale and must
// be skipped instead of re-expanded.
type frontierEntry struct {
	state    State
	g        float64
	priority float64
	sequence int
}

// priorityFrontier is a min-heap on priority; insertion order breaks ties so
// that runs are deterministic.
type priorityFrontier []*frontierEntry

func (frontier priorityFrontier) Len() int {
	return len(frontier)
}

func (frontier priorityFrontier) Less(i, j int) bool {
	if frontier[i].priority != frontier[j].priority {
		return frontier[i].priority < frontier[j].priority
	}
	return frontier[i].sequence < frontier[j].sequence
}

func (frontier priorityFrontier) Swap(i, j int) {
	frontier[i], frontier[j] = frontier[j], frontier[i]
}

func (frontier *priorityFrontier) Push(entry any) {
	*frontier = append(*frontier, entry.(*frontierEntry))
}

func (frontier *priorityFrontier) Pop() any {
	old := *frontier
	last := len(old) - 1
	entry := old[last]
	old[last] = nil
	*frontier = old[:last]
	return entry
}
