package search

import (
	"container/heap"
	"fmt"
	"time"
)

type aStarSearcher struct {
	limits    Limits
	heuristic Heuristic
}

// NewAStarSearcher orders the frontier on f = g + h. A nil heuristic falls
// back to ZeroHeuristic, which makes the search behave like UCS.
func NewAStarSearcher(limits Limits, heuristic Heuristic) Searcher {
	if heuristic == nil {
		heuristic = ZeroHeuristic
	}
	return &aStarSearcher{limits: limits, heuristic: heuristic}
}

func (searcher *aStarSearcher) Search(problem Problem) (Result, error) {
	if problem == nil {
		return Result{}, fmt.Errorf("problem must not be nil")
	}

	begin := time.Now()
	start := problem.Start()

	frontier := &priorityFrontier{{state: start, g: 0, priority: searcher.heuristic(start), sequence: 0}}
	heap.Init(frontier)
	sequence := 1

	parents := make(map[string]State)
	bestG := map[string]float64{start.Key(): 0}

	iterations, expanded := 0, 0
	maxFrontier := frontier.Len()

	for frontier.Len() > 0 {
		if limitReached(searcher.limits, begin, iterations) {
			break
		}
		iterations++

		entry := heap.Pop(frontier).(*frontierEntry)
		state, key := entry.state, entry.state.Key()

		// Lazy deletion on g, exactly as in UCS; the heuristic only decides
		// the pop order.
		if entry.g != bestG[key] {
			continue
		}

		if problem.GoalTest(state) {
			return Result{
				Path:        reconstructPath(parents, start, state),
				Cost:        entry.g,
				Iterations:  iterations,
				Explored:    expanded,
				MaxFrontier: maxFrontier,
				Elapsed:     time.Since(begin),
				Strategy:    "astar",
			}, nil
		}
		expanded++

		for _, action := range problem.Actions(state) {
			child := problem.Result(state, action)
			newG := problem.PathCost(entry.g, state, action, child)

			if currentG, ok := bestG[child.Key()]; ok && newG >= currentG {
				continue
			}
			bestG[child.Key()] = newG
			parents[child.Key()] = state
			heap.Push(frontier, &frontierEntry{
				state:    child,
				g:        newG,
				priority: newG + searcher.heuristic(child),
				sequence: sequence,
			})
			sequence++
		}
		maxFrontier = max(maxFrontier, frontier.Len())
	}

	return Result{
		Iterations:  iterations,
		Explored:    expanded,
		MaxFrontier: maxFrontier,
		Elapsed:     time.Since(begin),
		Strategy:    "astar",
	}, nil
}
