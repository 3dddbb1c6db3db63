package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/limaJavier/schedsearch/internal/config"
	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/limaJavier/schedsearch/pkg/search"

	"github.com/samber/lo"
)

const (
	feasibleTestDirectory   = "../../test/instances/feasible/"
	infeasibleTestDirectory = "../../test/instances/infeasible/"
	resultsFile             = "results.csv"
)

type TestMetadata struct {
	Name      string
	Feasible  bool
	Events    int
	TimeSlots int
	Rooms     int
	Teachers  int
	Groups    int
}

type BenchmarkResult struct {
	Test        TestMetadata
	Strategy    string
	Solved      bool
	Verified    bool
	Cost        float64
	Iterations  int
	Explored    int
	MaxFrontier int
	Elapsed     time.Duration
}

func main() {
	defaults := config.Load()
	limits := search.Limits{MaxIterations: defaults.MaxIterations, Timeout: defaults.Timeout}

	tests := getTests()
	strategies := search.Strategies()
	results := make([]BenchmarkResult, 0, len(tests)*len(strategies))

	for _, test := range tests {
		fmt.Printf("\nTest \"%v\" (%v events, %v timeslots, %v rooms, %v teachers, %v groups)\n",
			test.Name, test.Events, test.TimeSlots, test.Rooms, test.Teachers, test.Groups)
		fmt.Println(tableHeader())

		for _, strategy := range strategies {
			result := measure(test, strategy, limits)
			fmt.Println(tableRow(result))
			results = append(results, result)
		}
	}

	toCsv(filepath.Join(defaults.OutDir, resultsFile), results)
}

func getTests() []TestMetadata {
	tests := make([]TestMetadata, 0)
	for _, tuple := range lo.Zip2([]string{feasibleTestDirectory, infeasibleTestDirectory}, []bool{true, false}) {
		directory, feasible := tuple.A, tuple.B
		testFiles, err := os.ReadDir(directory)
		if err != nil {
			log.Fatalf("cannot read directory: %v", err)
		}

		for _, file := range testFiles {
			filename := directory + file.Name()
			_, input, err := model.InputFromJson(filename)
			if err != nil {
				log.Fatalf("cannot parse input file: %v", err)
			}

			tests = append(tests, TestMetadata{
				Name:      filename,
				Feasible:  feasible,
				Events:    len(input.Events),
				TimeSlots: len(input.TimeSlots),
				Rooms:     len(input.Rooms),
				Teachers:  len(input.Teachers),
				Groups:    len(input.Groups),
			})
		}
	}

	return tests
}

// measure runs a single strategy on a freshly loaded problem, so runs never
// share state.
func measure(test TestMetadata, strategy string, limits search.Limits) BenchmarkResult {
	runConfig, input, err := model.InputFromJson(test.Name)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	problem, err := model.NewTimetablingProblem(input, runConfig.UseMRV)
	if err != nil {
		log.Fatalf("cannot build problem for test \"%v\": %v", test.Name, err)
	}

	searcher, err := search.NewSearcher(strategy, limits, nil)
	if err != nil {
		log.Fatalf("cannot initialize searcher: %v", err)
	}

	result, err := searcher.Search(problem)
	if err != nil {
		log.Fatalf("an error occurred during the search at test \"%v\" using strategy \"%v\": %v", test.Name, strategy, err)
	}

	verified := true
	if result.Solved() {
		schedule := result.Path[len(result.Path)-1].(model.Schedule)
		if violations := model.Verify(problem, schedule); len(violations) > 0 {
			verified = false
			log.Printf("WARNING: solution for test \"%v\" with strategy \"%v\" fails verification: %v", test.Name, strategy, violations)
		}
	}

	if test.Feasible && !result.Solved() {
		log.Printf("WARNING: no schedule found for feasible test \"%v\" with strategy \"%v\"", test.Name, strategy)
	} else if !test.Feasible && result.Solved() {
		log.Printf("WARNING: a schedule was found for infeasible test \"%v\" with strategy \"%v\"", test.Name, strategy)
	}

	return BenchmarkResult{
		Test:        test,
		Strategy:    strategy,
		Solved:      result.Solved(),
		Verified:    verified,
		Cost:        result.Cost,
		Iterations:  result.Iterations,
		Explored:    result.Explored,
		MaxFrontier: result.MaxFrontier,
		Elapsed:     result.Elapsed,
	}
}

func tableHeader() string {
	return fmt.Sprintf("%-8v | %-6v | %-8v | %10v | %10v | %8v | %12v | %12v",
		"strategy", "solved", "verified", "cost", "iterations", "explored", "max frontier", "elapsed")
}

func tableRow(result BenchmarkResult) string {
	cost := "-"
	if result.Solved {
		cost = fmt.Sprintf("%.1f", result.Cost)
	}
	return fmt.Sprintf("%-8v | %-6v | %-8v | %10v | %10d | %8d | %12d | %12v",
		result.Strategy, result.Solved, result.Verified, cost,
		result.Iterations, result.Explored, result.MaxFrontier, result.Elapsed)
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Test", "Feasible", "Events", "TimeSlots", "Rooms", "Teachers", "Groups", "Strategy", "Solved", "Verified", "Cost", "Iterations", "Explored", "MaxFrontier", "Elapsed(ms)"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		if err := writer.Write(toRecord(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func toRecord(result BenchmarkResult) []string {
	return []string{
		result.Test.Name,
		fmt.Sprintf("%v", result.Test.Feasible),
		fmt.Sprintf("%d", result.Test.Events),
		fmt.Sprintf("%d", result.Test.TimeSlots),
		fmt.Sprintf("%d", result.Test.Rooms),
		fmt.Sprintf("%d", result.Test.Teachers),
		fmt.Sprintf("%d", result.Test.Groups),
		result.Strategy,
		fmt.Sprintf("%v", result.Solved),
		fmt.Sprintf("%v", result.Verified),
		fmt.Sprintf("%f", result.Cost),
		fmt.Sprintf("%d", result.Iterations),
		fmt.Sprintf("%d", result.Explored),
		fmt.Sprintf("%d", result.MaxFrontier),
		fmt.Sprintf("%d", result.Elapsed.Milliseconds()),
	}
}
