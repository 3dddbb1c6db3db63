package search

import (
	"fmt"
	"slices"
)

type Searcher interface {
	Search(problem Problem) (Result, error) // A Result with a nil Path means no path was found (this is a valid output where error shall be nil)
}

var validStrategies = []string{"dfs", "bfs", "ucs", "astar"}

// Strategies lists the names accepted by NewSearcher.
func Strategies() []string {
	return slices.Clone(validStrategies)
}

// NewSearcher builds a searcher by strategy name. The heuristic applies only
// to "astar" and may be nil, in which case ZeroHeuristic is used.
func NewSearcher(strategy string, limits Limits, heuristic Heuristic) (Searcher, error) {
	switch strategy {
	case "dfs":
		return NewDFSSearcher(limits), nil
	case "bfs":
		return NewBFSSearcher(limits), nil
	case "ucs":
		return NewUCSSearcher(limits), nil
	case "astar":
		return NewAStarSearcher(limits, heuristic), nil
	}
	return nil, fmt.Errorf("%v is not a valid strategy", strategy)
}
