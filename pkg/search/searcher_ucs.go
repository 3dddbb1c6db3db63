package search

import (
	"container/heap"
	"fmt"
	"time"
)

type ucsSearcher struct {
	limits Limits
}

func NewUCSSearcher(limits Limits) Searcher {
	return &ucsSearcher{limits: limits}
}

func (searcher *ucsSearcher) Search(problem Problem) (Result, error) {
	if problem == nil {
		return Result{}, fmt.Errorf("problem must not be nil")
	}

	begin := time.Now()
	start := problem.Start()

	frontier := &priorityFrontier{{state: start, g: 0, priority: 0, sequence: 0}}
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

		// Lazy deletion: a cheaper route to this state was found after the
		// entry was pushed, so the entry is stale.
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
				Strategy:    "ucs",
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
			heap.Push(frontier, &frontierEntry{state: child, g: newG, priority: newG, sequence: sequence})
			sequence++
		}
		maxFrontier = max(maxFrontier, frontier.Len())
	}

	return Result{
		Iterations:  iterations,
		Explored:    expanded,
		MaxFrontier: maxFrontier,
		Elapsed:     time.Since(begin),
		Strategy:    "ucs",
	}, nil
}
