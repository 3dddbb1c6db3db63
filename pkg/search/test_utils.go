package search

import "slices"

// RouteProblem is a small road-network problem used by the package tests: find
// a route between two cities on a weighted graph. It doubles as a minimal
// reference for implementing Problem.
type RouteProblem struct {
	Initial string
	Goal    string
	Graph   map[string]map[string]float64
}

type RouteState string

func (state RouteState) Key() string {
	return string(state)
}

func (problem RouteProblem) Start() State {
	return RouteState(problem.Initial)
}

func (problem RouteProblem) Actions(state State) []Action {
	neighbors := make([]string, 0)
	for neighbor := range problem.Graph[string(state.(RouteState))] {
		neighbors = append(neighbors, neighbor)
	}
	slices.Sort(neighbors) // Deterministic expansion order

	actions := make([]Action, 0, len(neighbors))
	for _, neighbor := range neighbors {
		actions = append(actions, neighbor)
	}
	return actions
}

func (problem RouteProblem) Result(state State, action Action) State {
	return RouteState(action.(string))
}

func (problem RouteProblem) GoalTest(state State) bool {
	return string(state.(RouteState)) == problem.Goal
}

func (problem RouteProblem) PathCost(cost float64, state State, action Action, next State) float64 {
	return cost + problem.Graph[string(state.(RouteState))][action.(string)]
}

// NewMoroccoRouteProblem builds the road network used across the tests:
// eight Moroccan cities with driving distances, from Rabat to Marrakech.
func NewMoroccoRouteProblem() RouteProblem {
	return RouteProblem{
		Initial: "R",
		Goal:    "M",
		Graph: map[string]map[string]float64{
			"R":   {"C": 88, "Me": 140},
			"C":   {"R": 88, "A": 170, "Kh": 120},
			"A":   {"C": 170, "Ess": 170},
			"Ess": {"A": 170, "M": 180},
			"Me":  {"R": 140, "Kh": 180, "BM": 200},
			"Kh":  {"C": 120, "Me": 180, "A": 230, "M": 320, "BM": 140},
			"BM":  {"Me": 200, "Kh": 140, "M": 190},
			"M":   {"Ess": 180, "Kh": 320, "BM": 190},
		},
	}
}

// MoroccoHeuristic estimates the straight-line distance to Marrakech. It
// never overestimates the driving distance, so A* stays optimal with it.
func MoroccoHeuristic(state State) float64 {
	distances := map[string]float64{
		"R":   320,
		"C":   240,
		"A":   200,
		"Ess": 150,
		"Me":  280,
		"Kh":  200,
		"BM":  150,
		"M":   0,
	}
	return distances[string(state.(RouteState))]
}
