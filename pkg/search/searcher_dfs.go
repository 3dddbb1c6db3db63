package search

import (
	"fmt"
	"time"
)

type dfsSearcher struct {
	limits Limits
	record bool
}

func NewDFSSearcher(limits Limits) Searcher {
	return &dfsSearcher{limits: limits}
}

// NewDFSGraphSearcher behaves exactly like NewDFSSearcher but additionally
// records the expansion trace into Result.Graph. Recording never changes
// which states are visited or in which order.
func NewDFSGraphSearcher(limits Limits) Searcher {
	return &dfsSearcher{limits: limits, record: true}
}

func (searcher *dfsSearcher) Search(problem Problem) (Result, error) {
	if problem == nil {
		return Result{}, fmt.Errorf("problem must not be nil")
	}

	begin := time.Now()
	start := problem.Start()

	frontier := []State{start}
	explored := make(map[string]bool)
	parents := make(map[string]State)
	costs := map[string]float64{start.Key(): 0}

	var graph *Graph
	if searcher.record {
		graph = newGraph()
		graph.markStart(start)
	}

	iterations, expanded := 0, 0
	maxFrontier := len(frontier)

	for len(frontier) > 0 {
		if limitReached(searcher.limits, begin, iterations) {
			break
		}
		iterations++

		// Pop the most recently pushed state. The same state may sit on the
		// frontier more than once; duplicates are dropped below, after the
		// goal test.
		state := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		key := state.Key()

		if graph != nil {
			graph.addIteration(state)
		}

		if problem.GoalTest(state) {
			if graph != nil {
				graph.markGoal(state)
			}
			return Result{
				Path:        reconstructPath(parents, start, state),
				Cost:        costs[key],
				Iterations:  iterations,
				Explored:    expanded,
				MaxFrontier: maxFrontier,
				Elapsed:     time.Since(begin),
				Strategy:    "dfs",
				Graph:       graph,
			}, nil
		}

		if explored[key] {
			continue
		}
		explored[key] = true
		expanded++

		for _, action := range problem.Actions(state) {
			child := problem.Result(state, action)
			if explored[child.Key()] {
				continue
			}
			// Later pushes overwrite earlier parent pointers; the surviving
			// pointer always belongs to an unexplored ancestor, so the
			// reconstructed path stays acyclic.
			parents[child.Key()] = state
			costs[child.Key()] = problem.PathCost(costs[key], state, action, child)
			frontier = append(frontier, child)

			if graph != nil {
				graph.addEdge(state, child, fmt.Sprint(action))
			}
		}
		maxFrontier = max(maxFrontier, len(frontier))
	}

	return Result{
		Iterations:  iterations,
		Explored:    expanded,
		MaxFrontier: maxFrontier,
		Elapsed:     time.Since(begin),
		Strategy:    "dfs",
		Graph:       graph,
	}, nil
}
