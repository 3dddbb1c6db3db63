package main

import (
	"strings"
	"testing"
	"time"

	"github.com/limaJavier/schedsearch/pkg/search"

	"github.com/stretchr/testify/assert"
)

func TestMeasure(t *testing.T) {
	t.Run("Feasible instance", func(t *testing.T) {
		// Arrange
		test := TestMetadata{Name: "../../test/instances/feasible/department_week.json", Feasible: true}

		// Act
		result := measure(test, "dfs", search.Limits{})

		// Assert
		assert.Equal(t, "dfs", result.Strategy)
		assert.True(t, result.Solved)
		assert.True(t, result.Verified)
		assert.Greater(t, result.Iterations, 0)
		assert.Greater(t, result.Explored, 0)
	})

	t.Run("Infeasible instance", func(t *testing.T) {
		// Arrange
		test := TestMetadata{Name: "../../test/instances/infeasible/zero_domain.json", Feasible: false}

		// Act
		result := measure(test, "bfs", search.Limits{})

		// Assert
		assert.False(t, result.Solved)
		assert.True(t, result.Verified)
	})
}

func TestGetTestsMetadata(t *testing.T) {
	tests := getTests()

	assert.GreaterOrEqual(t, len(tests), 4)
	for _, test := range tests {
		assert.Greater(t, test.Events, 0)
		assert.Greater(t, test.TimeSlots, 0)
		assert.Greater(t, test.Rooms, 0)
	}
}

func TestToRecord(t *testing.T) {
	// Arrange
	result := BenchmarkResult{
		Test: TestMetadata{
			Name:      "instances/feasible/small.json",
			Feasible:  true,
			Events:    6,
			TimeSlots: 6,
			Rooms:     3,
			Teachers:  3,
			Groups:    3,
		},
		Strategy:    "ucs",
		Solved:      true,
		Verified:    true,
		Cost:        6,
		Iterations:  42,
		Explored:    40,
		MaxFrontier: 17,
		Elapsed:     1500 * time.Millisecond,
	}

	// Act
	record := toRecord(result)

	// Assert
	expected := []string{
		"instances/feasible/small.json", "true",
		"6", "6", "3", "3", "3",
		"ucs", "true", "true", "6.000000", "42", "40", "17", "1500",
	}
	assert.Equal(t, expected, record)
}

func TestTableRow(t *testing.T) {
	solved := BenchmarkResult{Strategy: "astar", Solved: true, Verified: true, Cost: 5}
	unsolved := BenchmarkResult{Strategy: "dfs"}

	assert.Contains(t, tableRow(solved), "astar")
	assert.Contains(t, tableRow(solved), "5.0")
	assert.Contains(t, tableRow(unsolved), "-")
	assert.Equal(t, strings.Count(tableHeader(), "|"), strings.Count(tableRow(solved), "|"))
}
