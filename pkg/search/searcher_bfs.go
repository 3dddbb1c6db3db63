package search

import (
	"fmt"
	"time"
)

type bfsSearcher struct {
	limits Limits
}

func NewBFSSearcher(limits Limits) Searcher {
	return &bfsSearcher{limits: limits}
}

func (searcher *bfsSearcher) Search(problem Problem) (Result, error) {
	if problem == nil {
		return Result{}, fmt.Errorf("problem must not be nil")
	}

	begin := time.Now()
	start := problem.Start()

	frontier := []State{start}
	// Unlike DFS, states are marked at insertion time, so each reachable
	// state enters the frontier at most once.
	visited := map[string]bool{start.Key(): true}
	parents := make(map[string]State)
	costs := map[string]float64{start.Key(): 0}

	iterations, expanded := 0, 0
	maxFrontier := len(frontier)

	for len(frontier) > 0 {
		if limitReached(searcher.limits, begin, iterations) {
			break
		}
		iterations++

		state := frontier[0]
		frontier = frontier[1:]
		key := state.Key()

		if problem.GoalTest(state) {
			return Result{
				Path:        reconstructPath(parents, start, state),
				Cost:        costs[key],
				Iterations:  iterations,
				Explored:    expanded,
				MaxFrontier: maxFrontier,
				Elapsed:     time.Since(begin),
				Strategy:    "bfs",
			}, nil
		}
		expanded++

		for _, action := range problem.Actions(state) {
			child := problem.Result(state, action)
			if visited[child.Key()] {
				continue
			}
			visited[child.Key()] = true
			parents[child.Key()] = state
			costs[child.Key()] = problem.PathCost(costs[key], state, action, child)
			frontier = append(frontier, child)
		}
		maxFrontier = max(maxFrontier, len(frontier))
	}

	return Result{
		Iterations:  iterations,
		Explored:    expanded,
		MaxFrontier: maxFrontier,
		Elapsed:     time.Since(begin),
		Strategy:    "bfs",
	}, nil
}
