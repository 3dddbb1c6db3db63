package main

import (
	"fmt"
	"log"
	"os"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/limaJavier/schedsearch/pkg/search"
)

const GraphFile = "search_graph.dot"

func main() {
	const File string = "../test/instances/feasible/department_week.json"

	runConfig, input, err := model.InputFromJson(File)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	problem, err := model.NewTimetablingProblem(input, runConfig.UseMRV)
	if err != nil {
		log.Fatalf("cannot build problem: %v", err)
	}

	limits := search.Limits{MaxIterations: runConfig.MaxIterations, Timeout: runConfig.Timeout}
	// searcher, err := search.NewSearcher("bfs", limits, nil)
	// searcher, err := search.NewSearcher("ucs", limits, nil)
	// searcher, err := search.NewSearcher("astar", limits, nil)
	searcher := search.NewDFSGraphSearcher(limits)

	result, err := searcher.Search(problem)
	if err != nil {
		log.Fatal(err)
	} else if !result.Solved() {
		fmt.Println("No schedule found")
		return
	}

	schedule := result.Path[len(result.Path)-1].(model.Schedule)
	fmt.Print(model.FormatSchedule(problem, schedule))
	fmt.Printf("Iterations: %v, Explored: %v, Max frontier: %v, Elapsed: %v\n",
		result.Iterations, result.Explored, result.MaxFrontier, result.Elapsed)

	if violations := model.Verify(problem, schedule); len(violations) > 0 {
		log.Fatalf("Verification failed: %v", violations)
	}

	if result.Graph != nil {
		if err := os.WriteFile(GraphFile, []byte(result.Graph.ToDOT()), 0666); err != nil {
			log.Fatalf("cannot write search graph: %v", err)
		}
		fmt.Printf("Search graph written to %v (%v nodes, %v edges)\n", GraphFile, result.Graph.Nodes(), result.Graph.Edges())
	}

	fmt.Println("Well done!")
}
